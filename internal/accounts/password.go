package accounts

import (
	"strings"
	"unicode"
)

type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthGood   Strength = "good"
	StrengthStrong Strength = "strong"
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ClassifyPassword scores one point each for length >= 8 and the presence of
// an uppercase letter, a lowercase letter, a digit and a symbol. Scores of
// two or less are weak and rejected at registration.
func ClassifyPassword(password string) (Strength, bool) {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	score := 0
	if len(password) >= 8 {
		score++
	}
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return StrengthWeak, false
	case score == 3:
		return StrengthMedium, true
	case score == 4:
		return StrengthGood, true
	default:
		return StrengthStrong, true
	}
}
