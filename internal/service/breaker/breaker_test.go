package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("502")
var errNotFound = errors.New("unknown symbol")

func TestTripsAfterConsecutiveFailures(t *testing.T) {
	b := New(Settings{Name: "yahoo", ConsecutiveFailures: 2, Timeout: time.Hour})
	calls := 0
	fail := func() error { calls++; return errUpstream }

	assert.ErrorIs(t, b.Do(fail), errUpstream)
	assert.ErrorIs(t, b.Do(fail), errUpstream)
	assert.Equal(t, "open", b.State())

	assert.ErrorIs(t, b.Do(fail), ErrOpen)
	assert.Equal(t, 2, calls)
}

func TestIgnoredErrorsDoNotTrip(t *testing.T) {
	b := New(Settings{
		Name:                "yahoo",
		ConsecutiveFailures: 1,
		Ignore:              func(err error) bool { return errors.Is(err, errNotFound) },
	})
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, b.Do(func() error { return errNotFound }), errNotFound)
	}
	assert.Equal(t, "closed", b.State())
	assert.NoError(t, b.Do(func() error { return nil }))
}
