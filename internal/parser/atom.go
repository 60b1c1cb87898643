package parser

import (
	"github.com/curv-lang/curv/internal/phrase"
	"github.com/curv-lang/curv/internal/source"
)

// parseAtom parses a single indivisible phrase: a literal, identifier,
// bracketed form, or keyword-introduced control form (§4.2).
func (p *Parser) parseAtom() (phrase.Phrase, error) {
	start := p.loc()

	switch p.cur.Kind {
	case source.KIdent:
		name := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		return phrase.NewIdent(start, name), nil

	case source.KNum:
		text := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		return phrase.NewNumeral(start, text), nil

	case source.KHexNum:
		text := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		return phrase.NewHexNumeral(start, text), nil

	case source.KSymbol:
		text := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		return phrase.NewSymbolLit(start, text[1:]), nil

	case source.KStringQuote:
		return p.parseStringLit()
	}

	if p.isPunct("(") {
		return p.parseParenForm()
	}
	if p.isPunct("[") {
		return p.parseListLit()
	}
	if p.isPunct("{") {
		return p.parseRecordLit()
	}

	switch {
	case p.isKeyword("if"):
		return p.parseIfElse()
	case p.isKeyword("let"):
		return p.parseLetIn()
	case p.isKeyword("do"):
		return p.parseDoIn()
	case p.isKeyword("for"):
		return p.parseForIn()
	case p.isKeyword("while"):
		return p.parseWhileDo()
	}

	return nil, p.errHere("expected an expression, got \"" + p.text() + "\"")
}

// parseParenForm parses `(...)`: an empty unit, a single parenthesised
// expression, or (after a trailing comma) a tuple, which the parser
// represents the same as any other CommaList.
func (p *Parser) parseParenForm() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.isPunct(")") {
		end := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		return phrase.NewRecordLit(start.Ellipsis(end), nil), nil
	}
	inner, err := p.parseSemicolonList()
	if err != nil {
		return nil, err
	}
	end, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	return phrase.NewParenExpr(start.Ellipsis(end), inner), nil
}

// parseListLit parses `[e1, e2, …]`.
func (p *Parser) parseListLit() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	var elems []phrase.Phrase
	if !p.isPunct("]") {
		for {
			e, err := p.parseArrowExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.isPunct(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.isPunct("]") {
				break // trailing comma
			}
		}
	}
	end, err := p.expectPunct("]")
	if err != nil {
		return nil, err
	}
	return phrase.NewListLit(start.Ellipsis(end), elems), nil
}

// parseRecordLit parses `{ field: value, …; defs… }`: a comma- or
// semicolon-separated sequence of FieldDef phrases and/or ordinary
// definitions (a module literal, §3.5).
func (p *Parser) parseRecordLit() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	var fields []phrase.Phrase
	if !p.isPunct("}") {
		for {
			f, err := p.parseRecordField()
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
			if p.isPunct(",") || p.isPunct(";") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if p.isPunct("}") {
					break
				}
				continue
			}
			break
		}
	}
	end, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	return phrase.NewRecordLit(start.Ellipsis(end), fields), nil
}

// parseRecordField parses one `name : value` field, or falls back to a
// general statement for nested `local`/`include`/`var` definitions
// inside a module literal.
func (p *Parser) parseRecordField() (phrase.Phrase, error) {
	if p.cur.Kind == source.KIdent {
		start := p.loc()
		name := p.text()
		nameTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isPunct(":") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			val, err := p.parseArrowExpr()
			if err != nil {
				return nil, err
			}
			return phrase.NewFieldDef(start.Ellipsis(val.Location()), name, val), nil
		}
		// Not a field after all: push the over-read token back and
		// restore the identifier so parseStatement sees it first.
		p.sc.PushToken(p.cur)
		p.cur = nameTok
	}
	return p.parseStatement()
}

func (p *Parser) parseIfElse() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseSemicolonList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	end := then.Location()
	var els phrase.Phrase
	if p.isKeyword("else") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err = p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		end = els.Location()
	}
	return phrase.NewIfElse(start.Ellipsis(end), cond, then, els), nil
}

func (p *Parser) parseLetIn() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	def, err := p.parseSemicolonList()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("in") {
		return nil, p.errHere("expected \"in\" after let definitions")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewLetIn(start.Ellipsis(body.Location()), def, body), nil
}

func (p *Parser) parseDoIn() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	var actions []phrase.Phrase
	for {
		a, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
		if p.isPunct(";") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.isKeyword("in") {
				break
			}
			continue
		}
		break
	}
	if !p.isKeyword("in") {
		return nil, p.errHere("expected \"in\" after do actions")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewDoIn(start.Ellipsis(body.Location()), actions, body), nil
}

func (p *Parser) parseForIn() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	pat, err := p.parseCommaExpr()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("in") {
		return nil, p.errHere("expected \"in\" in for-loop header")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	seq, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewForIn(start.Ellipsis(body.Location()), pat, seq, body), nil
}

func (p *Parser) parseWhileDo() (phrase.Phrase, error) {
	start := p.loc()
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseSemicolonList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewWhileDo(start.Ellipsis(body.Location()), cond, body), nil
}
