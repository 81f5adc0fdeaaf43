// Package odds converts displayed odds quotes and money amounts into numbers.
// All inputs are free-form text scraped from a rendered page, so every parse
// can fail; failures wrap ErrParse.
package odds

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse marks displayed text that did not match the expected numeric
// pattern. Callers treat it as a transient rendering issue and retry.
var ErrParse = errors.New("odds parse error")

// Safe-odds band: American [-250, +200] expressed as decimal multipliers.
// -250 -> (100+250)/250 = 1.4, +200 -> (200+100)/100 = 3.0.
const (
	safeMinDecimal = 1.4
	safeMaxDecimal = 3.0
)

// ToDecimal converts an American odds quote ("+150", "-200") or an
// already-decimal quote ("2.5") to a decimal payout multiplier.
// Valid quotes always convert to a multiplier greater than 1.0.
func ToDecimal(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: empty odds text", ErrParse)
	}

	switch {
	case strings.HasPrefix(s, "+"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: invalid positive american odds %q", ErrParse, text)
		}
		return (v + 100) / 100, nil
	case strings.HasPrefix(s, "-"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: invalid negative american odds %q", ErrParse, text)
		}
		return (100 + v) / v, nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid odds text %q", ErrParse, text)
		}
		if v <= 1.0 {
			return 0, fmt.Errorf("%w: decimal odds %q must be greater than 1.0", ErrParse, text)
		}
		return v, nil
	}
}

// IsSafe reports whether a decimal multiplier falls inside the safe-odds band
// used as the parlay leg eligibility filter.
func IsSafe(decimal float64) bool {
	return decimal >= safeMinDecimal && decimal <= safeMaxDecimal
}

var moneyStripper = strings.NewReplacer("$", "", ",", "", "€", "", "£", "", " ", "", " ", "")

// ParseMoney parses a displayed money amount ("$1,000.50") into a
// non-negative decimal. A missing decimal part is fine ("$5" -> 5).
func ParseMoney(text string) (float64, error) {
	s := moneyStripper.Replace(strings.TrimSpace(text))
	if s == "" {
		return 0, fmt.Errorf("%w: empty money text", ErrParse)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid money text %q", ErrParse, text)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative money amount %q", ErrParse, text)
	}
	return v, nil
}

var amountPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// ExtractAmount finds the first numeric run inside free-form element text
// (e.g. a bet slip's "Payout: $1,250.00 …") and parses it with thousands
// separators stripped. Returns false when the text contains no number.
func ExtractAmount(text string) (float64, bool) {
	match := amountPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
