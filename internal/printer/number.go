// Package printer renders Curv values as text in one of five output
// styles (§6.2, §C): `c`, `json`, `xml`, `expr` and `curv`.
//
// FormatNumber is grounded directly on original_source/curv/dtostr.cc:
// the same shortest-round-trip decimal/exponential choice, the same
// "up to 3 trailing/leading zeros before falling back to exponential"
// exceptions, and the same per-style Inf/NaN symbol table, reimplemented
// on top of strconv.FormatFloat's shortest 'e'-mode output instead of
// double-conversion's DoubleToAscii (Go's standard library already
// guarantees the shortest round-tripping decimal, so no separate
// conversion library is needed here).
package printer

import (
	"math"
	"strconv"
	"strings"
)

// Style selects one of the five textual renderings a value can be
// printed in (§6.2).
type Style int

const (
	StyleC Style = iota
	StyleJSON
	StyleXML
	StyleExpr
	StyleCurv
)

type infNanSymbols struct{ inf, nan string }

var styleSymbols = [...]infNanSymbols{
	StyleC:    {"inf", "nan"},
	StyleJSON: {"1e9999", "null"},
	StyleXML:  {"INF", "NaN"},
	StyleExpr: {"1.0/0.0", "0.0/0.0"},
	StyleCurv: {"1.0/0.0", "0.0/0.0"},
}

const maxTrailingZeros = 3
const maxLeadingZeros = 3

// FormatNumber renders n in the given style, matching dtostr.cc digit
// for digit: NaN and Inf render through the style's symbol table (with
// a leading "-" for negative infinity); everything else picks between
// plain decimal and exponential notation by the same decimal_point
// rule dtostr.cc uses, preferring decimal unless more than 3
// trailing/leading zeros would be needed.
func FormatNumber(n float64, style Style) string {
	sym := styleSymbols[style]
	if math.IsNaN(n) {
		return sym.nan
	}
	var sign string
	if math.Signbit(n) {
		sign = "-"
		n = -n
	}
	if math.IsInf(n, 1) {
		return sign + sym.inf
	}
	if n == 0 {
		if style == StyleExpr || style == StyleCurv {
			return sign + "0.0"
		}
		return sign + "0"
	}

	decimalRep, decimalPoint := shortestDigits(n)
	repLen := len(decimalRep)

	if decimalPoint >= repLen {
		nTrailingZeros := decimalPoint - repLen
		if nTrailingZeros <= maxTrailingZeros {
			var b strings.Builder
			b.WriteString(sign)
			b.WriteString(decimalRep)
			b.WriteString(strings.Repeat("0", nTrailingZeros))
			if style == StyleExpr || style == StyleCurv {
				b.WriteString(".0")
			}
			return b.String()
		}
	} else if decimalPoint <= 0 {
		nLeadingZeros := -decimalPoint
		if nLeadingZeros <= maxLeadingZeros {
			var b strings.Builder
			b.WriteString(sign)
			b.WriteString("0.")
			b.WriteString(strings.Repeat("0", nLeadingZeros))
			b.WriteString(decimalRep)
			return b.String()
		}
	} else {
		var b strings.Builder
		b.WriteString(sign)
		for i := 0; i < repLen; i++ {
			if i == decimalPoint {
				b.WriteByte('.')
			}
			b.WriteByte(decimalRep[i])
		}
		return b.String()
	}

	// Exponential fallback: d.ddde±N.
	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte(decimalRep[0])
	if repLen > 1 {
		b.WriteByte('.')
		b.WriteString(decimalRep[1:])
	}
	b.WriteByte('e')
	b.WriteString(strconv.Itoa(decimalPoint - 1))
	return b.String()
}

// shortestDigits decomposes the positive float n into dtostr.cc's
// decimal_rep (the shortest round-tripping significant-digit string,
// with no trailing zeros and no decimal point) and decimal_point (the
// count of digits that belong before the decimal point — zero or
// negative for a value less than 1), by parsing Go's own shortest
// 'e'-mode formatting instead of reimplementing Grisu/Ryu.
func shortestDigits(n float64) (digits string, decimalPoint int) {
	s := strconv.FormatFloat(n, 'e', -1, 64)
	eIdx := strings.IndexByte(s, 'e')
	mantissa := s[:eIdx]
	exp, _ := strconv.Atoi(s[eIdx+1:])
	mantissa = strings.Replace(mantissa, ".", "", 1)
	mantissa = strings.TrimRight(mantissa, "0")
	if mantissa == "" {
		mantissa = "0"
	}
	return mantissa, exp + 1
}
