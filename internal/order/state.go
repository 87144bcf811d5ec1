package order

import "github.com/voltshop/storefront/internal/domain"

// Allowed order status transitions. The lifecycle advances
// pending -> confirmed -> shipped -> delivered, with cancellation only from
// pre-shipping states. delivered and cancelled are terminal.
var transitions = map[string][]string{
	domain.OrderStatusPending:   {domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed: {domain.OrderStatusShipped, domain.OrderStatusCancelled},
	domain.OrderStatusShipped:   {domain.OrderStatusDelivered},
	domain.OrderStatusDelivered: {},
	domain.OrderStatusCancelled: {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Setting the same status again is treated as a no-op and allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in the given status may still be
// cancelled. Unlike CanTransition this does not allow the same-status no-op:
// re-cancelling would restore stock twice.
func Cancellable(status string) bool {
	for _, next := range transitions[status] {
		if next == domain.OrderStatusCancelled {
			return true
		}
	}
	return false
}
