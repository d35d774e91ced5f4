package address

import (
	"errors"
	"strconv"
	"strings"
)

// DisplayDecimalPoint is the number of fractional digits used when
// formatting an atomic-unit amount for display, grounded on
// original_source's config/CryptoNoteConfig.h
// (CRYPTONOTE_DISPLAY_DECIMAL_POINT).
const DisplayDecimalPoint = 2

// ErrInvalidAmount is returned by ParseAtomic when the input string is not
// a valid non-negative decimal amount.
var ErrInvalidAmount = errors.New("address: invalid amount string")

// FormatAtomic renders an atomic integer amount as a fixed-point decimal
// string with DisplayDecimalPoint fractional digits, e.g. 1234567 -> "12345.67".
func FormatAtomic(amount uint64) string {
	scale := pow10(DisplayDecimalPoint)
	whole := amount / scale
	frac := amount % scale
	fracStr := strconv.FormatUint(frac, 10)
	for len(fracStr) < DisplayDecimalPoint {
		fracStr = "0" + fracStr
	}
	return strconv.FormatUint(whole, 10) + "." + fracStr
}

// ParseAtomic parses a decimal amount string (with up to DisplayDecimalPoint
// fractional digits) back into an atomic integer amount.
func ParseAtomic(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	parts := strings.SplitN(s, ".", 2)
	wholeStr := parts[0]
	if wholeStr == "" {
		wholeStr = "0"
	}
	whole, err := strconv.ParseUint(wholeStr, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	scale := pow10(DisplayDecimalPoint)
	amount := whole * scale

	if len(parts) == 2 {
		fracStr := parts[1]
		if len(fracStr) > DisplayDecimalPoint {
			return 0, ErrInvalidAmount
		}
		for len(fracStr) < DisplayDecimalPoint {
			fracStr += "0"
		}
		frac, err := strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		amount += frac
	}

	return amount, nil
}

func pow10(n int) uint64 {
	result := uint64(1)
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}
