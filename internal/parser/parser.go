// Package parser implements Curv's hand-written recursive-descent
// parser: one unified grammar for expressions and definitions,
// producing a phrase.Phrase tree (§4.2).
//
// Grounded on the shape of other_examples' hand-rolled recursive
// descent parsers (b151b4f4_tewshi-compiler-with-go/parser.go,
// e466c09d_conneroisu-gix/parser.go) rather than the teacher's own
// pkg/parser/parser.go, which delegates to the participle grammar-tag
// engine — see DESIGN.md for why that engine cannot express spec.md's
// scanner-state-dependent, lossless phrase tree. The public entry-point
// shape (New/ParseString/ParseBytes) is kept from the teacher.
package parser

import (
	"fmt"

	"github.com/curv-lang/curv/internal/phrase"
	"github.com/curv-lang/curv/internal/scanner"
	"github.com/curv-lang/curv/internal/source"
)

// Error is a syntax error: the parser never attempts resynchronisation
// (§4.2, "the parser never performs error recovery").
type Error struct {
	Loc     source.SrcLoc
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Loc, e.Message) }

// Parser recursive-descends over a scanner.Scanner's token stream.
type Parser struct {
	src *source.Source
	sc  *scanner.Scanner
	cur source.Token
}

// New creates a Parser for src.
func New(src *source.Source) (*Parser, error) {
	p := &Parser{src: src, sc: scanner.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseString parses a Curv program from a string.
func ParseString(name, text string) (phrase.Phrase, error) {
	p, err := New(source.New(name, []byte(text)))
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// ParseBytes parses a Curv program from a byte slice.
func ParseBytes(name string, text []byte) (phrase.Phrase, error) {
	p, err := New(source.New(name, text))
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func (p *Parser) advance() error {
	tok, err := p.sc.GetToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) loc() source.SrcLoc { return source.SrcLoc{Source: p.src, Tok: p.cur} }

func (p *Parser) text() string { return p.cur.Text(p.src) }

func (p *Parser) errHere(msg string) error {
	return &Error{Loc: p.loc(), Message: msg}
}

func (p *Parser) atEnd() bool { return p.cur.Kind == source.KEnd }

func (p *Parser) isOp(ops ...string) bool {
	if p.cur.Kind != source.KOp {
		return false
	}
	t := p.text()
	for _, o := range ops {
		if t == o {
			return true
		}
	}
	return false
}

func (p *Parser) isPunct(s string) bool {
	return (p.cur.Kind == source.KPunct || p.cur.Kind == source.KOp) && p.text() == s
}

func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Kind == source.KKeyword && p.text() == kw
}

// expectPunct consumes a punctuation/operator token of exactly s or
// raises a syntax error ("missing closing bracket" and friends, §7).
func (p *Parser) expectPunct(s string) (source.SrcLoc, error) {
	if !p.isPunct(s) {
		return source.SrcLoc{}, p.errHere(fmt.Sprintf("expected %q, got %q", s, p.text()))
	}
	loc := p.loc()
	return loc, p.advance()
}

// ParseProgram parses one phrase terminated by end-of-source (§6.1:
// "a program is one phrase terminated by end-of-source").
func (p *Parser) ParseProgram() (phrase.Phrase, error) {
	ph, err := p.parseSemicolonList()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errHere(fmt.Sprintf("unexpected token %q after program", p.text()))
	}
	return ph, nil
}

// parseSemicolonList parses `item ; item ; …` (lowest precedence,
// §4.2), then decides CompoundDef vs Sequence by asking each item
// phrase.AsDefinition, matching "the parser does not commit to
// definition vs expression until it can ask the phrase" (§4.2).
func (p *Parser) parseSemicolonList() (phrase.Phrase, error) {
	start := p.loc()
	items := []phrase.Phrase{}
	first, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	items = append(items, first)
	for p.isPunct(";") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atEnd() || p.isPunct(")") || p.isPunct("]") || p.isPunct("}") {
			break // trailing `;`
		}
		next, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	end := start
	if len(items) > 0 {
		end = items[len(items)-1].Location()
	}
	loc := start.Ellipsis(end)
	if len(items) == 1 {
		return items[0], nil
	}
	anyDef := false
	for _, it := range items {
		if phrase.AsDefinition(it) {
			anyDef = true
			break
		}
	}
	if anyDef {
		return phrase.NewCompoundDef(loc, items), nil
	}
	return phrase.NewSequence(loc, items), nil
}
