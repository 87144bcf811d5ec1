package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voltshop/storefront/internal/domain"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		domain.OrderStatusPending,
		domain.OrderStatusConfirmed,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
		domain.OrderStatusCancelled,
	} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("lost"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Confirmed"))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusConfirmed, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusShipped, false},
		{domain.OrderStatusPending, domain.OrderStatusDelivered, false},
		{domain.OrderStatusConfirmed, domain.OrderStatusShipped, true},
		{domain.OrderStatusConfirmed, domain.OrderStatusCancelled, true},
		{domain.OrderStatusConfirmed, domain.OrderStatusDelivered, false},
		{domain.OrderStatusConfirmed, domain.OrderStatusPending, false},
		{domain.OrderStatusShipped, domain.OrderStatusDelivered, true},
		{domain.OrderStatusShipped, domain.OrderStatusCancelled, false},
		{domain.OrderStatusShipped, domain.OrderStatusConfirmed, false},
		{domain.OrderStatusDelivered, domain.OrderStatusCancelled, false},
		{domain.OrderStatusDelivered, domain.OrderStatusShipped, false},
		{domain.OrderStatusCancelled, domain.OrderStatusConfirmed, false},
		{domain.OrderStatusCancelled, domain.OrderStatusPending, false},
		// setting the same status again is a no-op
		{domain.OrderStatusConfirmed, domain.OrderStatusConfirmed, true},
		{domain.OrderStatusDelivered, domain.OrderStatusDelivered, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(domain.OrderStatusPending))
	assert.True(t, Cancellable(domain.OrderStatusConfirmed))
	assert.False(t, Cancellable(domain.OrderStatusShipped))
	assert.False(t, Cancellable(domain.OrderStatusDelivered))
	// re-cancelling is rejected so stock is never restored twice
	assert.False(t, Cancellable(domain.OrderStatusCancelled))
}
