package parser

import (
	"github.com/curv-lang/curv/internal/phrase"
	"github.com/curv-lang/curv/internal/source"
)

// parseStatement parses one definition-or-action unit: `local …`,
// `include …`, `parametric … -> …`, `test … = …`, `var pattern = …`,
// `pattern = expr`, `f x = expr`, `lhs := rhs`, or a plain expression
// (§4.2).
func (p *Parser) parseStatement() (phrase.Phrase, error) {
	start := p.loc()

	switch {
	case p.isKeyword("local"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		def, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return phrase.NewLocalDef(start.Ellipsis(def.Location()), def), nil

	case p.isKeyword("include"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewIncludeDef(start.Ellipsis(e.Location()), e), nil

	case p.isKeyword("parametric"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		pat, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if !p.isOp("->") {
			return nil, p.errHere("expected \"->\" after parametric pattern")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewParametricDef(start.Ellipsis(body.Location()), pat, body), nil

	case p.cur.Kind == source.KIdent && p.text() == "test":
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isIdentName() {
			return nil, p.errHere("expected test name")
		}
		testName := p.text()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.isOp("=") {
			return nil, p.errHere("expected \"=\" in test definition")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewTestDef(start.Ellipsis(val.Location()), testName, val), nil
	}

	isVar := false
	if p.isKeyword("var") {
		isVar = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	lhs, err := p.parseCommaExpr()
	if err != nil {
		return nil, err
	}

	switch {
	case p.isOp("="):
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		loc := start.Ellipsis(val.Location())
		if ident, ok := asBareIdent(lhs); ok {
			return phrase.NewDataDef(loc, phrase.NewIdent(ident.Location(), ident.Name), val, isVar), nil
		}
		if name, params, ok := asFuncHead(lhs); ok {
			return phrase.NewFuncDef(loc, name, params, val), nil
		}
		return phrase.NewDataDef(loc, lhs, val, isVar), nil

	case p.isOp(":="):
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseArrowExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewAssignStmt(start.Ellipsis(rhs.Location()), lhs, rhs), nil
	}

	if isVar {
		return nil, p.errHere("expected \"=\" after var pattern")
	}
	return lhs, nil
}

// isIdentName reports whether the current token can serve as a bare
// name; only an identifier token can, never a keyword.
func (p *Parser) isIdentName() bool {
	return p.cur.Kind == source.KIdent
}

// asBareIdent reports whether e is exactly a single identifier
// (the `pattern = expr` case where pattern is a plain name).
func asBareIdent(e phrase.Phrase) (*phrase.Ident, bool) {
	id, ok := e.(*phrase.Ident)
	return id, ok
}

// asFuncHead reports whether e is `name p1 p2 …` — nested Apply nodes
// whose innermost function is a bare Ident — the `f x = expr` sugar
// for `f = x -> expr` (§4.2).
func asFuncHead(e phrase.Phrase) (string, []phrase.Phrase, bool) {
	var params []phrase.Phrase
	cur := e
	for {
		app, ok := cur.(*phrase.Apply)
		if !ok {
			break
		}
		params = append([]phrase.Phrase{app.Arg}, params...)
		cur = app.Fn
	}
	if len(params) == 0 {
		return "", nil, false
	}
	id, ok := cur.(*phrase.Ident)
	if !ok {
		return "", nil, false
	}
	return id.Name, params, true
}
