package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")
var errNotFound = errors.New("not found")

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	b := New("test", Settings{ConsecutiveFailures: 2, Timeout: time.Hour})

	for i := 0; i < 2; i++ {
		_, err := Execute(b, func() (int, error) { return 0, errBoom })
		require.ErrorIs(t, err, errBoom)
	}
	assert.Equal(t, "open", b.State())

	calls := 0
	_, err := Execute(b, func() (int, error) { calls++; return 1, nil })
	require.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 0, calls, "fn must not run while open")
}

func TestExecute_IsSuccessfulDoesNotTrip(t *testing.T) {
	t.Parallel()

	b := New("test", Settings{
		ConsecutiveFailures: 1,
		Timeout:             time.Hour,
		IsSuccessful:        func(err error) bool { return err == nil || errors.Is(err, errNotFound) },
	})

	_, err := Execute(b, func() (string, error) { return "", errNotFound })
	require.ErrorIs(t, err, errNotFound)
	assert.Equal(t, "closed", b.State())

	got, err := Execute(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
