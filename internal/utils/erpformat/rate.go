package erpformat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	decimalSeparator = "."
	// minEncodedRateLength is the minimum total length (not fraction length) of an encoded rate.
	minEncodedRateLength = 7
	// integerRateSuffix is appended to rates rendered without a separator.
	integerRateSuffix = decimalSeparator + "0000000"
)

// Single-precision general format switches to exponent notation outside [-4, 9).
const (
	minFixedExponent = -4
	maxFixedExponent = 9
)

// EncodeRate renders a rate in the ERP's padded string format.
//
//	5     -> "5.0000000"   (single digit)
//	123   -> "123.0000000" (no separator, fraction is always literal zeros)
//	1.25  -> "1.25000"     (padded to a total length of 7, not to 7 fraction digits)
//	1.2345678 -> unchanged (already longer than 7)
func EncodeRate(rate decimal.Decimal) string {
	s := naturalString(rate)
	switch {
	case len(s) == 1:
		return s + integerRateSuffix
	case !strings.Contains(s, decimalSeparator):
		return s + integerRateSuffix
	default:
		if len(s) < minEncodedRateLength {
			s += strings.Repeat("0", minEncodedRateLength-len(s))
		}
		return s
	}
}

// EncodeRateString parses a decimal literal and encodes it with EncodeRate.
func EncodeRateString(literal string) (string, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(literal))
	if err != nil {
		return "", fmt.Errorf("%w: invalid rate %q: %v", apperrors.ErrValidation, literal, err)
	}
	return EncodeRate(rate), nil
}

// naturalString renders d in plain base-10 notation keeping the scale the value carries,
// so 1.0 stays "1.0" and 1.5e3 becomes "1500".
func naturalString(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.StringFixed(0)
}

// EncodeReciprocal parses an encoded rate as a single-precision float and renders 1/x in the
// legacy platform's default single-precision format. The EncodeRate padding rules are not
// applied, so EncodeReciprocal(EncodeRate(1.25)) is "0.8" while EncodeRate(0.8) is "0.80000".
func EncodeReciprocal(encodedRate string) (string, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(encodedRate), 32)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoded rate %q: %v", apperrors.ErrValidation, encodedRate, err)
	}
	rate := float32(parsed)
	if rate == 0 {
		return "", fmt.Errorf("%w: cannot invert a zero rate", apperrors.ErrValidation)
	}

	reciprocal := 1 / rate
	if math.IsInf(float64(reciprocal), 0) || math.IsNaN(float64(reciprocal)) {
		return "", fmt.Errorf("%w: reciprocal of %q is not finite", apperrors.ErrValidation, encodedRate)
	}
	return FormatSingle(reciprocal), nil
}

// FormatSingle renders f with shortest round-trip digits, using fixed notation for decimal
// exponents in [-4, 9) and "d.dddE+XX" notation otherwise.
func FormatSingle(f float32) string {
	if f == 0 {
		return "0"
	}

	sci := strconv.FormatFloat(float64(f), 'e', -1, 32)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)

	sign := ""
	if strings.HasPrefix(mantissa, "-") {
		sign = "-"
		mantissa = mantissa[1:]
	}
	digits := strings.Replace(mantissa, ".", "", 1)

	if exp < minFixedExponent || exp >= maxFixedExponent {
		out := digits[:1]
		if len(digits) > 1 {
			out += decimalSeparator + digits[1:]
		}
		expSign := "+"
		if exp < 0 {
			expSign = "-"
			exp = -exp
		}
		return fmt.Sprintf("%s%sE%s%02d", sign, out, expSign, exp)
	}

	if exp < 0 {
		return sign + "0" + decimalSeparator + strings.Repeat("0", -exp-1) + digits
	}

	intLen := exp + 1
	if len(digits) <= intLen {
		return sign + digits + strings.Repeat("0", intLen-len(digits))
	}
	return sign + digits[:intLen] + decimalSeparator + digits[intLen:]
}
