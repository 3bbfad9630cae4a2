package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	t.Run("nil is not retryable", func(t *testing.T) {
		assert.False(t, IsRetryable(nil))
	})

	t.Run("domain errors are deterministic rejections", func(t *testing.T) {
		assert.False(t, IsRetryable(ErrInsufficientStock))
		assert.False(t, IsRetryable(NewDomainError("INVALID_QUANTITY", "quantity must be positive")))
	})

	t.Run("wrapped domain errors are still not retryable", func(t *testing.T) {
		wrapped := fmt.Errorf("load item: %w", ErrNotFound)
		assert.False(t, IsRetryable(wrapped))
	})

	t.Run("storage errors are retryable", func(t *testing.T) {
		assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	})
}
