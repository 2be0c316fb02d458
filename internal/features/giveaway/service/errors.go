package service

import (
	apperrors "github.com/open-builders/giveaway-bot/internal/common/errors"
)

// Sentinel errors for errors.Is checks; returned errors carry the same code.
var (
	ErrNotFound           = apperrors.New(apperrors.ErrCodeGiveawayNotFound, "giveaway not found")
	ErrChannelUnavailable = apperrors.New(apperrors.ErrCodeChannelUnavailable, "channel unavailable")
)
