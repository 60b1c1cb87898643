package printer

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/curv-lang/curv/internal/value"
)

// Print renders v as text in the given style (§6.2). Every style
// shares one structural traversal (numbers via FormatNumber, then
// booleans/strings/lists/records each dispatched to a style-specific
// quoting/bracketing rule); only StyleXML additionally escapes `<`
// and `&` inside string content, since it is the only style whose
// output is meant to be embedded in a markup document.
func Print(v value.Value, style Style) string {
	var b strings.Builder
	printValue(&b, v, style)
	return b.String()
}

func printValue(b *strings.Builder, v value.Value, style Style) {
	switch {
	case v.IsMissing():
		b.WriteString("null")
	case v.IsNum():
		n, _ := v.AsNum()
		b.WriteString(FormatNumber(n, style))
	case v.IsBool():
		bv, _ := v.AsBool()
		b.WriteString(boolLiteral(bv))
	case v.IsChar():
		c, _ := v.AsChar()
		printQuotedString(b, string(rune(c)), style)
	case v.IsRef():
		printRef(b, v, style)
	}
}

func boolLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func printRef(b *strings.Builder, v value.Value, style Style) {
	r, _ := v.AsRef()
	switch rv := r.(type) {
	case *value.String:
		printQuotedString(b, rv.Go(), style)
	case value.Symbol:
		printSymbol(b, rv, style)
	case *value.List:
		printList(b, rv, style)
	case value.Record:
		printRecord(b, rv, style)
	default:
		fmt.Fprintf(b, "<%T>", r)
	}
}

func printSymbol(b *strings.Builder, sym value.Symbol, style Style) {
	switch style {
	case StyleCurv, StyleExpr:
		b.WriteByte('#')
		b.WriteString(string(sym))
	default:
		printQuotedString(b, string(sym), style)
	}
}

func printList(b *strings.Builder, l *value.List, style Style) {
	b.WriteByte('[')
	for i, elem := range l.Elems() {
		if i > 0 {
			b.WriteString(", ")
		}
		printValue(b, elem, style)
	}
	b.WriteByte(']')
}

func printRecord(b *strings.Builder, r value.Record, style Style) {
	fields := r.Fields()
	sorted := append([]value.Symbol(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	switch style {
	case StyleXML:
		b.WriteString("<record>")
		for _, sym := range sorted {
			v, _ := r.Get(sym)
			fmt.Fprintf(b, "<%s>", sym)
			printValue(b, v, style)
			fmt.Fprintf(b, "</%s>", sym)
		}
		b.WriteString("</record>")
	default:
		b.WriteByte('{')
		for i, sym := range sorted {
			if i > 0 {
				b.WriteString(", ")
			}
			v, _ := r.Get(sym)
			switch style {
			case StyleJSON:
				printQuotedString(b, string(sym), style)
				b.WriteByte(':')
			default:
				b.WriteString(string(sym))
				b.WriteString(": ")
			}
			printValue(b, v, style)
		}
		b.WriteByte('}')
	}
}

// printQuotedString quotes s the way style requires: json/xml/expr/
// curv all use double-quoted, backslash-escaped syntax (delegated to
// jsontext for correct escaping rather than hand-rolling it), c style
// prints the raw bytes unquoted since it targets an embedding host
// language rather than a self-describing format. xml additionally
// escapes `<` and `&`, the two characters that would otherwise be
// misread as markup.
func printQuotedString(b *strings.Builder, s string, style Style) {
	if style == StyleC {
		b.WriteString(s)
		return
	}
	quoted := jsonQuote(s)
	if style == StyleXML {
		quoted = strings.NewReplacer("<", "&lt;", "&", "&amp;").Replace(quoted)
	}
	b.WriteString(quoted)
}

// jsonQuote renders s as a JSON string literal (quotes, backslash and
// control-character escaping) using go-json-experiment/json's
// jsontext token writer, rather than a hand-rolled escaper, since
// jsontext already implements RFC 8259's escaping rules exactly.
func jsonQuote(s string) string {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.String(s)); err != nil {
		// Every Go string is valid UTF-8 input to WriteToken; this
		// path is unreachable in practice, but fall back to a bare
		// quoted copy rather than panicking.
		return strconv.Quote(s)
	}
	return buf.String()
}
