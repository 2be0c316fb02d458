package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesCode(t *testing.T) {
	sentinel := New(ErrCodeGiveawayNotFound, "giveaway not found")
	err := fmt.Errorf("end: %w", NewGiveawayNotFoundError("g1"))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.False(t, stderrors.Is(err, New(ErrCodeValidation, "x")))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewDatabaseError("save giveaway", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DATABASE_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "save giveaway", err.Details["operation"])
	assert.True(t, err.IsInternal())
}

func TestClassification(t *testing.T) {
	assert.True(t, NewValidationError("prize", "empty").IsValidation())
	assert.True(t, NewGiveawayNotFoundError("g").IsNotFound())
	assert.True(t, NewUnauthorizedError("no key").IsUnauthorized())
	assert.True(t, NewPlatformAPIError("send", stderrors.New("x")).IsInternal())
	assert.False(t, NewChannelUnavailableError("c").IsInternal())
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NewEligibilityError("custom", stderrors.New("boom")))
	require.True(t, ok)
	assert.Equal(t, ErrCodeEligibilityFailed, appErr.Code)

	_, ok = AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsAppError(nil))
}
