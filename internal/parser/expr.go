package parser

import (
	"github.com/curv-lang/curv/internal/phrase"
	"github.com/curv-lang/curv/internal/source"
)

// parseCommaExpr parses `a, b, c` (§4.2): a list in expression
// position, a tuple pattern in pattern position — the parser builds
// one CommaList node either way and leaves the pattern-vs-expression
// question to the analyser.
func (p *Parser) parseCommaExpr() (phrase.Phrase, error) {
	start := p.loc()
	first, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(",") {
		return first, nil
	}
	items := []phrase.Phrase{first}
	for p.isPunct(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	loc := start.Ellipsis(items[len(items)-1].Location())
	return phrase.NewCommaList(loc, items), nil
}

// parseArrowExpr parses `pattern -> body`, right-associative.
func (p *Parser) parseArrowExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp("->") {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseArrowExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewLambda(start.Ellipsis(body.Location()), left, body), nil
}

func (p *Parser) parseOrExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.isOp("||") {
		op := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinaryOp(start.Ellipsis(right.Location()), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.isOp("&&") {
		op := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinaryOp(start.Ellipsis(right.Location()), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseNotExpr() (phrase.Phrase, error) {
	if p.isOp("!") {
		start := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewUnaryOp(start.Ellipsis(arg.Location()), "!", arg), nil
	}
	return p.parseCompareExpr()
}

var compareOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *Parser) parseCompareExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseRangeExpr()
	if err != nil {
		return nil, err
	}
	if p.isOp(compareOps...) {
		op := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRangeExpr()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinaryOp(start.Ellipsis(right.Location()), op, left, right)
	}
	return left, nil
}

// parseRangeExpr parses `lo .. hi`, `lo ..< hi`, optionally followed by
// `by step`.
func (p *Parser) parseRangeExpr() (phrase.Phrase, error) {
	start := p.loc()
	lo, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp("..", "..<") {
		return lo, nil
	}
	halfOpen := p.text() == "..<"
	if err := p.advance(); err != nil {
		return nil, err
	}
	hi, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	var step phrase.Phrase
	end := hi.Location()
	if p.isKeyword("by") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		step, err = p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		end = step.Location()
	}
	return phrase.NewRangeExpr(start.Ellipsis(end), lo, hi, step, halfOpen), nil
}

func (p *Parser) parseAddExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseMulExpr()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMulExpr()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinaryOp(start.Ellipsis(right.Location()), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMulExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinaryOp(start.Ellipsis(right.Location()), op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (phrase.Phrase, error) {
	if p.isOp("-", "+") {
		start := p.loc()
		op := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewUnaryOp(start.Ellipsis(arg.Location()), op, arg), nil
	}
	return p.parsePowExpr()
}

// parsePowExpr parses `base ^ exponent`, right-associative.
func (p *Parser) parsePowExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parsePostfixExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewBinaryOp(start.Ellipsis(right.Location()), "^", left, right), nil
}

// parsePostfixExpr parses function application `f x`, indexing `a@i`
// and field access `r.id`, all left-associative and all tighter than
// any infix operator (juxtaposition binds tightest after atoms, §4.2).
func (p *Parser) parsePostfixExpr() (phrase.Phrase, error) {
	start := p.loc()
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Kind != source.KIdent && p.cur.Kind != source.KKeyword {
				return nil, p.errHere("expected field name after \".\"")
			}
			field := p.text()
			end := p.loc()
			if err := p.advance(); err != nil {
				return nil, err
			}
			left = phrase.NewDotExpr(start.Ellipsis(end), left, field)

		case p.isOp("@"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			left = phrase.NewIndexApply(start.Ellipsis(idx.Location()), left, idx)

		case p.startsAtom():
			arg, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			left = phrase.NewApply(start.Ellipsis(arg.Location()), left, arg)

		default:
			return left, nil
		}
	}
}

// startsAtom reports whether the current token can begin a new atom,
// used to detect juxtaposed function application `f x` without
// consuming anything.
func (p *Parser) startsAtom() bool {
	switch p.cur.Kind {
	case source.KIdent, source.KNum, source.KHexNum, source.KSymbol, source.KStringQuote:
		return true
	case source.KPunct:
		t := p.text()
		return t == "(" || t == "[" || t == "{"
	case source.KKeyword:
		t := p.text()
		return t == "if" || t == "let" || t == "do" || t == "for" || t == "while"
	}
	return false
}
