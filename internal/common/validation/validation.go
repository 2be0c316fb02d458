package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// Максимальные длины для различных полей
	MaxPrizeLength = 256
	MaxEmojiLength = 64

	// Ограничения розыгрыша
	MinWinnerCount = 1
	MaxWinnerCount = 100
	MinDuration    = time.Second
	MaxDuration    = 365 * 24 * time.Hour

	MaxRequiredRoles = 25
)

// Discord snowflake: 17-20 digits
var snowflakeRegex = regexp.MustCompile(`^[0-9]{17,20}$`)

// ValidatePrize проверяет текст приза
func ValidatePrize(prize string) error {
	prize = strings.TrimSpace(prize)
	if prize == "" {
		return fmt.Errorf("prize cannot be empty")
	}

	if utf8.RuneCountInString(prize) > MaxPrizeLength {
		return fmt.Errorf("prize cannot exceed %d characters", MaxPrizeLength)
	}

	return nil
}

// ValidateWinnerCount проверяет количество победителей
func ValidateWinnerCount(count int) error {
	if count < MinWinnerCount {
		return fmt.Errorf("winner count must be at least %d", MinWinnerCount)
	}
	if count > MaxWinnerCount {
		return fmt.Errorf("winner count cannot exceed %d", MaxWinnerCount)
	}
	return nil
}

// ValidateDuration проверяет длительность розыгрыша
func ValidateDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if d < MinDuration {
		return fmt.Errorf("duration must be at least %s", MinDuration)
	}
	if d > MaxDuration {
		return fmt.Errorf("duration cannot exceed %s", MaxDuration)
	}
	return nil
}

// ValidateSnowflake проверяет идентификатор Discord (канал, роль, пользователь)
func ValidateSnowflake(id, fieldName string) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if !IsValidSnowflake(id) {
		return fmt.Errorf("%s must be a Discord snowflake", fieldName)
	}
	return nil
}

// ValidateRoles checks a required-role list: bounded size, snowflakes, no duplicates.
func ValidateRoles(roles []string) error {
	if len(roles) > MaxRequiredRoles {
		return fmt.Errorf("required roles cannot exceed %d", MaxRequiredRoles)
	}
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if err := ValidateSnowflake(r, "role"); err != nil {
			return err
		}
		if _, dup := seen[r]; dup {
			return fmt.Errorf("duplicate role: %s", r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

// ValidateEmoji проверяет реакцию для участия
func ValidateEmoji(emoji string) error {
	if strings.TrimSpace(emoji) == "" {
		return fmt.Errorf("reaction cannot be empty")
	}
	if len(emoji) > MaxEmojiLength {
		return fmt.Errorf("reaction cannot exceed %d bytes", MaxEmojiLength)
	}
	return nil
}

// IsValidSnowflake проверяет формат snowflake
func IsValidSnowflake(id string) bool {
	return snowflakeRegex.MatchString(id)
}
