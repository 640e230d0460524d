// Package normalize turns raw OCR/LLM field values into canonical form.
// Every function is total and deterministic: it never panics, and when a
// value cannot be matched with confidence it returns the empty string
// rather than a guess.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// dobPattern matches day-month-year with 1-2 digit day and month, a 2-4
// digit year, and "/", "-", or a space as the separator.
var dobPattern = regexp.MustCompile(`^(\d{1,2})[/\- ](\d{1,2})[/\- ](\d{2,4})$`)

// Name canonicalizes a person name: trimmed, title-cased per word, with
// internal whitespace collapsed to single spaces. Used for name,
// fathers_name, and mothers_name.
func Name(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = titleWord(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// Gender maps free-form gender text to "Male" or "Female". Anything
// outside the recognized spellings yields the empty string.
func Gender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return "Male"
	case "female", "f":
		return "Female"
	default:
		return ""
	}
}

// DateOfBirth canonicalizes a day-month-year date to DD/MM/YYYY. Two-digit
// years are prefixed with "20". Calendar correctness is not checked: a day
// of 31 in any month passes through. Unmatched input yields "".
func DateOfBirth(raw string) string {
	m := dobPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	day, month, year := m[1], m[2], m[3]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(year) == 2 {
		year = "20" + year
	}
	return fmt.Sprintf("%s/%s/%s", day, month, year)
}

// NIDNumber strips every non-digit character and accepts the result only
// when it is 8 to 20 digits long.
func NIDNumber(raw string) string {
	digits := keepDigits(raw)
	if len(digits) < 8 || len(digits) > 20 {
		return ""
	}
	return digits
}

// Phone canonicalizes a Bangladeshi mobile number to its 10-digit form
// starting with "1". The country code "88" is dropped if present; the
// remaining number must then be exactly 11 digits starting "01", whose
// leading zero is dropped. Anything else yields "" -- the rule is
// intentionally strict and discards numbers that do not fit this shape.
func Phone(raw string) string {
	digits := keepDigits(raw)
	digits = strings.TrimPrefix(digits, "88")
	if len(digits) != 11 || !strings.HasPrefix(digits, "01") {
		return ""
	}
	return digits[1:]
}

// Education maps an education summary onto a known level. Matching is
// case-insensitive, but unrecognized input is returned trimmed and
// otherwise unchanged rather than discarded.
func Education(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "honors"):
		if strings.Contains(lower, "ongoing") {
			return "Honors (Ongoing)"
		}
		return "Honors"
	case strings.Contains(lower, "hsc"):
		return "HSC"
	case strings.Contains(lower, "ssc"):
		return "SSC"
	default:
		return trimmed
	}
}

// Address trims and collapses all runs of whitespace, including newlines,
// to single spaces.
func Address(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func titleWord(w string) string {
	runes := []rune(w)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
