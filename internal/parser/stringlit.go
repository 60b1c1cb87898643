package parser

import (
	"fmt"

	"github.com/curv-lang/curv/internal/phrase"
	"github.com/curv-lang/curv/internal/source"
)

// parseStringLit parses a double-quoted string literal, coroutining
// with the scanner's String mode: plain text runs become literal
// segments, `$.`/`$=`/`$\n` escapes decode to one-character segments,
// `$x` becomes a reference to the variable x, and
// `${...}`/`$(...)`/`$[...]` openers switch the scanner
// back to Normal mode for one nested expression (§4.2, §3.2).
func (p *Parser) parseStringLit() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil { // consume opening quote, enter string-mode scanning
		return nil, err
	}
	var segs []phrase.StringSegment
	for {
		switch p.cur.Kind {
		case source.KStringQuote:
			end := p.loc()
			if err := p.advance(); err != nil {
				return nil, err
			}
			return phrase.NewStringLit(start.Ellipsis(end), segs), nil

		case source.KStringSegment:
			segs = append(segs, phrase.StringSegment{Literal: p.text()})
			if err := p.advance(); err != nil {
				return nil, err
			}

		case source.KStringNewline:
			segs = append(segs, phrase.StringSegment{Literal: "\n"})
			if err := p.advance(); err != nil {
				return nil, err
			}

		case source.KCharEscape:
			text := p.text()
			loc := p.loc()
			if name, ok := identEscapeName(text); ok {
				segs = append(segs, phrase.StringSegment{Expr: phrase.NewIdent(loc, name)})
			} else {
				lit, err := decodeCharEscape(text)
				if err != nil {
					return nil, p.errHere(err.Error())
				}
				segs = append(segs, phrase.StringSegment{Literal: lit})
			}
			if err := p.advance(); err != nil {
				return nil, err
			}

		case source.KDollarBrace:
			e, err := p.parseInterpolation("}")
			if err != nil {
				return nil, err
			}
			segs = append(segs, phrase.StringSegment{Expr: e})

		case source.KDollarParen:
			e, err := p.parseInterpolation(")")
			if err != nil {
				return nil, err
			}
			segs = append(segs, phrase.StringSegment{Expr: e})

		case source.KDollarBracket:
			e, err := p.parseInterpolation("]")
			if err != nil {
				return nil, err
			}
			segs = append(segs, phrase.StringSegment{Expr: e})

		default:
			return nil, p.errHere(fmt.Sprintf("unterminated string literal (got %q)", p.text()))
		}
	}
}

// parseInterpolation parses one nested expression inside an open
// `$X` bracket and consumes the matching closer, restoring String
// mode for the remainder of the literal.
func (p *Parser) parseInterpolation(closer string) (phrase.Phrase, error) {
	p.sc.PushNormalMode() // before advancing, so the next token scans in Normal mode
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseSemicolonList()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(closer) {
		return nil, p.errHere(fmt.Sprintf("expected %q to close string interpolation", closer))
	}
	p.sc.PopMode()
	if err := p.advance(); err != nil {
		return nil, err
	}
	return e, nil
}

// identEscapeName reports whether text is a bare `$identifier`
// variable-substitution escape (as opposed to `$.` / `$=`), returning
// the identifier name with its leading `$` stripped.
func identEscapeName(text string) (string, bool) {
	if len(text) < 2 || text[0] != '$' {
		return "", false
	}
	rest := text[1:]
	if rest == "." || rest == "=" {
		return "", false
	}
	return rest, true
}

// decodeCharEscape converts the raw "$x"-form escape text the scanner
// captured into the literal character(s) it denotes (§3.2: `$.` is a
// literal `$`, `$=` is a literal `"`, a bare `$identifier` substitutes
// that identifier's value — represented here as an Ident expr segment
// instead of a literal, since it names a variable, not a character).
func decodeCharEscape(text string) (string, error) {
	switch text {
	case "$.":
		return "$", nil
	case "$=":
		return "\"", nil
	}
	return "", fmt.Errorf("unsupported char escape %q", text)
}
