// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jcr/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a string literal. The contents are escaped and double
// quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src))) }

// Unquote decodes a string literal. Double quotation marks are removed, and
// escape sequences are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}

// SignificantDigits reports the number of significant digits in the mantissa
// of a number literal. Leading zeros are not significant, trailing zeros are:
// "1.50" has 3 and "1.5" has 2. A mantissa with no nonzero digits counts its
// fractional digits, with a minimum of 1.
func SignificantDigits(lit string) int {
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		lit = lit[:i]
	}
	var nd, nfrac int
	lead, frac := true, false
	for i := 0; i < len(lit); i++ {
		switch ch := lit[i]; {
		case ch == '.':
			frac = true
		case isDigit(rune(ch)):
			if frac {
				nfrac++
			}
			if lead && ch == '0' {
				continue
			}
			lead = false
			nd++
		}
	}
	if nd == 0 {
		return max(nfrac, 1)
	}
	return nd
}

// FormatDouble renders v as a number literal with exactly precision
// significant digits, so that SignificantDigits of the result is precision.
// If precision ≤ 0, the shortest representation that reads back as v is used.
// If rounding v to precision digits would exceed the range of float64, as
// for math.MaxFloat64 with precision 2, more digits are used so that the
// result reads back as a finite value.
func FormatDouble(v float64, precision int) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if precision <= 0 {
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	}
	if v == 0 {
		s := "0." + strings.Repeat("0", precision)
		if math.Signbit(v) {
			return "-" + s
		}
		return s
	}

	e := strconv.FormatFloat(v, 'e', precision-1, 64) // [-]d.ddde±xx
	for precision < 17 {
		if _, err := strconv.ParseFloat(e, 64); err == nil {
			break
		}
		precision++
		e = strconv.FormatFloat(v, 'e', precision-1, 64)
	}
	var sign string
	if e[0] == '-' {
		sign, e = "-", e[1:]
	}
	i := strings.IndexByte(e, 'e')
	mant := e[:i]
	exp, err := strconv.Atoi(e[i+1:])
	if err != nil {
		panic(err) // strconv always produces a valid exponent
	}
	digits := strings.Replace(mant, ".", "", 1)

	switch {
	case exp >= 0 && exp < 21 && len(digits) > exp+1:
		return sign + digits[:exp+1] + "." + digits[exp+1:]
	case exp < 0 && exp >= -7:
		return sign + "0." + strings.Repeat("0", -exp-1) + digits
	default:
		return sign + mant + "e" + strconv.Itoa(exp)
	}
}
