package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerVisibleAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &Banner{IsActive: true}
	assert.True(t, open.VisibleAt(now))

	inactive := &Banner{IsActive: false}
	assert.False(t, inactive.VisibleAt(now))

	windowed := &Banner{IsActive: true, StartAt: &past, EndAt: &future}
	assert.True(t, windowed.VisibleAt(now))
	assert.False(t, windowed.VisibleAt(past.Add(-time.Minute)))
	assert.False(t, windowed.VisibleAt(future.Add(time.Minute)))

	notStarted := &Banner{IsActive: true, StartAt: &future}
	assert.False(t, notStarted.VisibleAt(now))

	expired := &Banner{IsActive: true, EndAt: &past}
	assert.False(t, expired.VisibleAt(now))
}
