package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxDocumentIDLen ограничение длины идентификатора документа в байтах
	MaxDocumentIDLen = 1500
	// MaxValueLen ограничение размера сериализованного значения (1 MiB)
	MaxValueLen = 1 << 20
)

// ValidateUsername проверяет, что username соответствует требованиям
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateDocumentID checks that id can be stored as a document identifier.
// Stale identifiers produced by older normalizers are accepted as long as they
// contain no path separator, so that the reconciler can still delete them.
func ValidateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	if len(id) > MaxDocumentIDLen {
		return fmt.Errorf("document id must not exceed %d bytes", MaxDocumentIDLen)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("document id %q is reserved", id)
	}
	if strings.ContainsRune(id, '/') {
		return fmt.Errorf("document id cannot contain '/'")
	}
	return nil
}

// ValidateValue checks the serialized value size.
func ValidateValue(value string) error {
	if len(value) > MaxValueLen {
		return fmt.Errorf("value must not exceed %d bytes", MaxValueLen)
	}
	return nil
}
