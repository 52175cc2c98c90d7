package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Границы входных данных.
const (
	MaxUsernameLength    = 32
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
	MaxReasonLength      = 500
	MaxAdminNotesLength  = 500
)

// ValidateLength проверяет, что строка непуста и не длиннее max (в рунах).
func ValidateLength(value, field string, max int) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("поле %s не может быть пустым", field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("поле %s длиннее %d символов", field, max)
	}
	return nil
}

// ValidateOptionalLength проверяет только верхнюю границу, пустая строка допустима.
func ValidateOptionalLength(value, field string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("поле %s длиннее %d символов", field, max)
	}
	return nil
}

// ValidatePrice проверяет, что цена строго положительна.
func ValidatePrice(value int64, field string) error {
	if value <= 0 {
		return fmt.Errorf("поле %s должно быть положительным", field)
	}
	return nil
}
