package strutils

import (
	"fmt"
	"strings"
	"unicode"
)

const VALID_HEX_DIGITS = "0123456789abcdefABCDEF"

const STRIPPED_USER_ID_LENGTH = 32

// NormalizeUserID converts a user ID to canonical form: lowercase hex with
// dashes in the standard positions. Accepts dashed, stripped and mixed case
// input.
func NormalizeUserID(userID string) (string, error) {
	var stripped strings.Builder
	stripped.Grow(STRIPPED_USER_ID_LENGTH)

	for _, char := range userID {
		if char == '-' {
			continue
		} else if strings.ContainsRune(VALID_HEX_DIGITS, char) {
			stripped.WriteRune(unicode.ToLower(char))
		} else {
			return "", fmt.Errorf("invalid character in user ID. input: '%s'", userID)
		}
	}
	if stripped.Len() != STRIPPED_USER_ID_LENGTH {
		return "", fmt.Errorf("normalized user ID has incorrect length. input: '%s'", userID)
	}

	var normalized strings.Builder
	normalized.Grow(STRIPPED_USER_ID_LENGTH + 4)
	for i, char := range stripped.String() {
		// Dashes go after the 8th, 12th, 16th and 20th hex digit
		if i == 8 || i == 12 || i == 16 || i == 20 {
			normalized.WriteRune('-')
		}
		normalized.WriteRune(char)
	}

	return normalized.String(), nil
}

// UserIDIsNormalized reports whether the ID is already in canonical form.
func UserIDIsNormalized(userID string) bool {
	normalized, err := NormalizeUserID(userID)
	if err != nil {
		return false
	}
	return normalized == userID
}
