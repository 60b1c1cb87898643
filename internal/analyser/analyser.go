package analyser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/curv-lang/curv/internal/meaning"
	"github.com/curv-lang/curv/internal/phrase"
	"github.com/curv-lang/curv/internal/value"
)

// SystemLookup resolves a bare identifier against the ambient system
// namespace (`internal/system`'s std library) once no enclosing scope
// binds it; wired in by the driver so this package never imports
// `system` (avoiding an import cycle back through `meaning`).
type SystemLookup func(name string) (value.Value, error)

// Environ is the analyser's walking state: the current Frame/Block
// scope chain plus the ambient-namespace fallback.
type Environ struct {
	Frame  *FrameScope
	Block  *BlockScope
	System SystemLookup
}

// NewProgramEnviron starts analysis of a top-level source file: one
// Frame with no parent, one outermost Block.
func NewProgramEnviron(sys SystemLookup) Environ {
	fs := NewFrameScope(nil)
	return Environ{Frame: fs, Block: fs.PushBlock(nil), System: sys}
}

// AnalyseProgram compiles a whole source file's phrase tree (§4.1's
// "a program is a sequence of definitions and a final expression") into
// one RecursiveLetOp-rooted Operation whose Body is the program's
// trailing expression, or Missing if the file is definitions-only.
func AnalyseProgram(p phrase.Phrase, sys SystemLookup) (meaning.Operation, error) {
	env := NewProgramEnviron(sys)
	defs, body, err := splitProgram(p)
	if err != nil {
		return nil, err
	}
	return analyseDefsAndBody(defs, body, env)
}

// splitProgram separates a CompoundDef's trailing bare-expression item
// (if any) from its leading definitions; a lone expression phrase (a
// one-line program) has no definitions at all.
func splitProgram(p phrase.Phrase) ([]phrase.Phrase, phrase.Phrase, error) {
	cd, ok := p.(*phrase.CompoundDef)
	if !ok {
		if phrase.AsDefinition(p) {
			return []phrase.Phrase{p}, nil, nil
		}
		return nil, p, nil
	}
	items := cd.Items
	if len(items) > 0 && !phrase.AsDefinition(items[len(items)-1]) {
		return items[:len(items)-1], items[len(items)-1], nil
	}
	return items, nil, nil
}

// analyseDefsAndBody builds the ModuleDefs for defs (flattening nested
// CompoundDefs, desugaring FuncDef/LocalDef/TestDef) against a fresh
// inner Block so their names all land in the same Module, then
// analyses body (defaulting to a Missing constant for a
// definitions-only file/let) in that Module's scope.
func analyseDefsAndBody(defPhrases []phrase.Phrase, bodyPhrase phrase.Phrase, env Environ) (meaning.Operation, error) {
	outerFrame := env.Frame
	moduleFrame := NewFrameScope(outerFrame)
	moduleFrame.ModuleMode = true
	moduleBlock := moduleFrame.PushBlock(nil)

	flat, err := flattenDefs(defPhrases)
	if err != nil {
		return nil, err
	}

	// Pass 1: bind every name first so forward/mutual references
	// resolve (§4.3 letrec).
	for _, d := range flat {
		if _, exists := moduleBlock.Names[d.name]; exists {
			return nil, fmt.Errorf("duplicate definition of %q", d.name)
		}
		moduleBlock.Bind(d.name)
	}

	innerEnv := Environ{Frame: moduleFrame, Block: moduleBlock, System: env.System}
	defs := make([]meaning.ModuleDef, len(flat))
	for i, d := range flat {
		op, err := Analyse(d.value, innerEnv)
		if err != nil {
			return nil, err
		}
		defs[i] = meaning.ModuleDef{Name: value.Symbol(d.name), Value: op}
	}

	var bodyOp meaning.Operation
	if bodyPhrase == nil {
		bodyOp = &meaning.Constant{Val: value.Missing}
	} else {
		bodyOp, err = Analyse(bodyPhrase, innerEnv)
		if err != nil {
			return nil, err
		}
	}

	return &meaning.RecursiveLetOp{
		Defs:     defs,
		Captures: moduleFrame.Captures(),
		Body:     bodyOp,
	}, nil
}

// flatDef is one fully-desugared `name = value` binding ready to
// become a meaning.ModuleDef.
type flatDef struct {
	name  string
	value phrase.Phrase
}

// flattenDefs walks CompoundDef/LocalDef/TestDef/FuncDef forms into a
// flat list of (name, value-phrase) pairs. FuncDef's `f x = e` sugar
// desugars to `f = x -> e` (curried over multiple params, §4.2).
// IncludeDef/ParametricDef are intentionally out of scope here — see
// DESIGN.md's analyser entry for the concrete gap.
func flattenDefs(items []phrase.Phrase) ([]flatDef, error) {
	var out []flatDef
	for _, it := range items {
		switch d := it.(type) {
		case *phrase.CompoundDef:
			sub, err := flattenDefs(d.Items)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case *phrase.LocalDef:
			sub, err := flattenDefs([]phrase.Phrase{d.Def})
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case *phrase.DataDef:
			id, ok := d.Pattern.(*phrase.Ident)
			if !ok {
				return nil, fmt.Errorf("at %s: only a bare identifier is supported on the left of = in a let/module binding", d.Location())
			}
			out = append(out, flatDef{name: id.Name, value: d.Value})
		case *phrase.FuncDef:
			out = append(out, flatDef{name: d.Name, value: curryFuncDef(d)})
		case *phrase.TestDef:
			out = append(out, flatDef{name: "test " + d.Name, value: d.Value})
		default:
			return nil, fmt.Errorf("at %s: not a supported definition form", it.Location())
		}
	}
	return out, nil
}

// curryFuncDef rewrites `f p1 p2 = body` into the equivalent nested
// lambda phrase `p1 -> p2 -> body` (§4.2).
func curryFuncDef(d *phrase.FuncDef) phrase.Phrase {
	body := d.Value
	for i := len(d.Params) - 1; i >= 0; i-- {
		body = phrase.NewLambda(d.Location(), d.Params[i], body)
	}
	return body
}

// Analyse converts one phrase into a meaning.Operation, resolving
// every identifier against env. The returned node's source location
// (for error re-quoting, §6.3) is stamped from p unconditionally, so
// every analyseXxx helper below is free to not worry about it.
func Analyse(p phrase.Phrase, env Environ) (meaning.Operation, error) {
	op, err := analyseNode(p, env)
	if err != nil {
		return nil, err
	}
	if loc, ok := op.(meaning.Locatable); ok {
		loc.SetLoc(p.Location())
	}
	return op, nil
}

func analyseNode(p phrase.Phrase, env Environ) (meaning.Operation, error) {
	loc := p.Location()
	switch n := p.(type) {
	case *phrase.Numeral:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("at %s: bad numeral %q: %w", loc, n.Text, err)
		}
		return &meaning.Constant{Val: value.Num(f)}, nil

	case *phrase.HexNumeral:
		iv, err := strconv.ParseInt(strings.TrimPrefix(n.Text, "0x"), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("at %s: bad hex numeral %q: %w", loc, n.Text, err)
		}
		return &meaning.Constant{Val: value.Num(float64(iv))}, nil

	case *phrase.SymbolLit:
		return &meaning.Constant{Val: value.FromRef(value.Symbol(n.Name))}, nil

	case *phrase.StringLit:
		return analyseStringLit(n, env)

	case *phrase.Ident:
		return analyseIdent(n, env)

	case *phrase.ParenExpr:
		return Analyse(n.Inner, env)

	case *phrase.UnaryOp:
		return analyseUnaryOp(n, env)

	case *phrase.BinaryOp:
		return analyseBinaryOp(n, env)

	case *phrase.RangeExpr:
		return analyseRange(n, env)

	case *phrase.Lambda:
		return analyseLambda(n, env)

	case *phrase.Apply:
		fnOp, err := Analyse(n.Fn, env)
		if err != nil {
			return nil, err
		}
		argOp, err := Analyse(n.Arg, env)
		if err != nil {
			return nil, err
		}
		return &meaning.CallExpr{Fn: fnOp, Arg: argOp}, nil

	case *phrase.IndexApply:
		argOp, err := Analyse(n.Arg, env)
		if err != nil {
			return nil, err
		}
		idxOp, err := Analyse(n.Index, env)
		if err != nil {
			return nil, err
		}
		return &meaning.IndexExpr{Arg: argOp, Index: idxOp}, nil

	case *phrase.DotExpr:
		argOp, err := Analyse(n.Arg, env)
		if err != nil {
			return nil, err
		}
		return &meaning.DotExpr{Arg: argOp, Field: value.Symbol(n.Field)}, nil

	case *phrase.ListLit:
		return analyseListLit(n, env)

	case *phrase.RecordLit:
		return analyseRecordLit(n, env)

	case *phrase.IfElse:
		condOp, err := Analyse(n.Cond, env)
		if err != nil {
			return nil, err
		}
		thenOp, err := Analyse(n.Then, env)
		if err != nil {
			return nil, err
		}
		var elseOp meaning.Operation
		if n.Else != nil {
			elseOp, err = Analyse(n.Else, env)
			if err != nil {
				return nil, err
			}
		}
		return &meaning.IfElseOp{Cond: condOp, Then: thenOp, Else: elseOp}, nil

	case *phrase.LetIn:
		return analyseLetIn(n, env)

	case *phrase.DoIn:
		return analyseDoIn(n, env)

	case *phrase.ForIn:
		return analyseForIn(n, env, false)

	case *phrase.WhileDo:
		condOp, err := Analyse(n.Cond, env)
		if err != nil {
			return nil, err
		}
		bodyOp, err := Analyse(n.Body, env)
		if err != nil {
			return nil, err
		}
		return &meaning.WhileOp{Cond: condOp, Body: bodyOp}, nil

	case *phrase.AssignStmt:
		return analyseAssign(n, env)

	case *phrase.Sequence:
		return analyseSequence(n.Items, env)

	case *phrase.CommaList:
		// A bare comma list in expression position denotes a list, same
		// as a list literal without brackets (§4.2).
		return analyseListLit(&phrase.ListLit{Elems: n.Items}, env)

	case *phrase.CompoundDef:
		return analyseDefsAndBody(n.Items, nil, env)

	case *phrase.DataDef, *phrase.FuncDef, *phrase.LocalDef, *phrase.TestDef:
		return analyseDefsAndBody([]phrase.Phrase{p}, nil, env)
	}
	return nil, fmt.Errorf("at %s: %T is not yet supported by the analyser", loc, p)
}

func analyseIdent(n *phrase.Ident, env Environ) (meaning.Operation, error) {
	kind, slot, ok := env.Block.Resolve(n.Name)
	if ok {
		if kind == resLocal {
			return &meaning.LocalDataRef{Slot: slot}, nil
		}
		return &meaning.NonlocalDataRef{Slot: slot}, nil
	}
	if env.System == nil {
		return nil, fmt.Errorf("at %s: undefined name %q", n.Location(), n.Name)
	}
	name := n.Name
	sys := env.System
	return &meaning.SymbolicRef{Lookup: func() (value.Value, error) { return sys(name) }}, nil
}

func analyseStringLit(n *phrase.StringLit, env Environ) (meaning.Operation, error) {
	// A string literal with no interpolated segments is a constant;
	// otherwise build a left-to-right concatenation of literal and
	// (stringified) interpolated segments (§3.2, §4.2).
	allLiteral := true
	for _, seg := range n.Segments {
		if seg.Expr != nil {
			allLiteral = false
			break
		}
	}
	if allLiteral {
		var b strings.Builder
		for _, seg := range n.Segments {
			b.WriteString(seg.Literal)
		}
		return &meaning.Constant{Val: value.FromRef(value.NewString(b.String()))}, nil
	}
	var parts []meaning.Operation
	for _, seg := range n.Segments {
		if seg.Expr == nil {
			parts = append(parts, &meaning.Constant{Val: value.FromRef(value.NewString(seg.Literal))})
			continue
		}
		op, err := Analyse(seg.Expr, env)
		if err != nil {
			return nil, err
		}
		parts = append(parts, op)
	}
	return &meaning.StringInterpOp{Parts: parts}, nil
}

func analyseUnaryOp(n *phrase.UnaryOp, env Environ) (meaning.Operation, error) {
	argOp, err := Analyse(n.Arg, env)
	if err != nil {
		return nil, err
	}
	if n.Op == "!" {
		return &meaning.NotExpr{Arg: argOp}, nil
	}
	return &meaning.UnaryArithOp{Op: n.Op, Arg: argOp}, nil
}

var compareOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func analyseBinaryOp(n *phrase.BinaryOp, env Environ) (meaning.Operation, error) {
	leftOp, err := Analyse(n.Left, env)
	if err != nil {
		return nil, err
	}
	rightOp, err := Analyse(n.Right, env)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Op == "&&":
		return &meaning.AndExpr{Left: leftOp, Right: rightOp}, nil
	case n.Op == "||":
		return &meaning.OrExpr{Left: leftOp, Right: rightOp}, nil
	case n.Op == ">>":
		return &meaning.ComposeExpr{Left: leftOp, Right: rightOp}, nil
	case compareOps[n.Op]:
		return &meaning.CompareOp{Op: n.Op, Left: leftOp, Right: rightOp}, nil
	default:
		return &meaning.ArithOp{Op: n.Op, Left: leftOp, Right: rightOp}, nil
	}
}

func analyseRange(n *phrase.RangeExpr, env Environ) (meaning.Operation, error) {
	loOp, err := Analyse(n.Lo, env)
	if err != nil {
		return nil, err
	}
	hiOp, err := Analyse(n.Hi, env)
	if err != nil {
		return nil, err
	}
	var stepOp meaning.Operation
	if n.Step != nil {
		stepOp, err = Analyse(n.Step, env)
		if err != nil {
			return nil, err
		}
	}
	return &meaning.RangeOp{Lo: loOp, Hi: hiOp, Step: stepOp, HalfOpen: n.HalfOpen}, nil
}

// analyseLambda opens a new Frame boundary for pattern -> body, per §5.
func analyseLambda(n *phrase.Lambda, env Environ) (meaning.Operation, error) {
	lamFrame := NewFrameScope(env.Frame)
	lamBlock := lamFrame.PushBlock(nil)
	pat, err := makePattern(n.Pattern, Environ{Frame: lamFrame, Block: lamBlock, System: env.System})
	if err != nil {
		return nil, err
	}
	bodyEnv := Environ{Frame: lamFrame, Block: lamBlock, System: env.System}
	bodyOp, err := Analyse(n.Body, bodyEnv)
	if err != nil {
		return nil, err
	}
	lam := &meaning.Lambda{
		Loc:      n.Location(),
		Pattern:  pat,
		Body:     bodyOp,
		NSlots:   lamFrame.NextSlot,
		Captures: lamFrame.Captures(),
	}
	return &meaning.LambdaExpr{Lam: lam}, nil
}

// makePattern binds a lambda parameter or `for` variable in env.Block.
// Only a bare identifier is accepted (`_` binds nothing); list, record
// and predicate patterns are rejected with an error.
func makePattern(p phrase.Phrase, env Environ) (meaning.Pattern, error) {
	id, ok := p.(*phrase.Ident)
	if !ok {
		return nil, fmt.Errorf("at %s: only a bare identifier is supported as a pattern", p.Location())
	}
	if id.Name == "_" {
		return meaning.AnyPattern{}, nil
	}
	return meaning.SlotPattern{Slot: env.Block.Bind(id.Name)}, nil
}

func analyseListLit(n *phrase.ListLit, env Environ) (meaning.Operation, error) {
	elems := make([]meaning.Operation, len(n.Elems))
	for i, e := range n.Elems {
		if forIn, ok := e.(*phrase.ForIn); ok {
			op, err := analyseForIn(forIn, env, true)
			if err != nil {
				return nil, err
			}
			elems[i] = op
			continue
		}
		op, err := Analyse(e, env)
		if err != nil {
			return nil, err
		}
		elems[i] = op
	}
	return &meaning.ListExpr{Elems: elems}, nil
}

func analyseRecordLit(n *phrase.RecordLit, env Environ) (meaning.Operation, error) {
	fields := make([]meaning.RecordField, 0, len(n.Fields))
	for _, fp := range n.Fields {
		fd, ok := fp.(*phrase.FieldDef)
		if !ok {
			return nil, fmt.Errorf("at %s: only name:value fields are supported in a record literal", fp.Location())
		}
		op, err := Analyse(fd.Value, env)
		if err != nil {
			return nil, err
		}
		fields = append(fields, meaning.RecordField{Name: value.Symbol(fd.Name), Value: op})
	}
	return &meaning.RecordExpr{Fields: fields}, nil
}

func analyseLetIn(n *phrase.LetIn, env Environ) (meaning.Operation, error) {
	var items []phrase.Phrase
	if cd, ok := n.Defs.(*phrase.CompoundDef); ok {
		items = cd.Items
	} else {
		items = []phrase.Phrase{n.Defs}
	}
	return analyseDefsAndBodyWithEnv(items, n.Body, env)
}

// analyseDefsAndBodyWithEnv is analyseDefsAndBody but threading env's
// current Frame/Block as the outer scope explicitly (used by `let`,
// which — unlike a whole program — is nested inside an existing
// analysis context).
func analyseDefsAndBodyWithEnv(items []phrase.Phrase, body phrase.Phrase, env Environ) (meaning.Operation, error) {
	return analyseDefsAndBody(items, body, env)
}

func analyseDoIn(n *phrase.DoIn, env Environ) (meaning.Operation, error) {
	items := append(append([]phrase.Phrase{}, n.Actions...), n.Body)
	return analyseSequence(items, env)
}

func analyseSequence(items []phrase.Phrase, env Environ) (meaning.Operation, error) {
	if len(items) == 0 {
		return &meaning.Constant{Val: value.Missing}, nil
	}
	ops := make([]meaning.Operation, len(items))
	for i, it := range items {
		op, err := Analyse(it, env)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	return &meaning.CompoundOp{Items: ops[:len(ops)-1], Last: ops[len(ops)-1]}, nil
}

func analyseForIn(n *phrase.ForIn, env Environ, generate bool) (meaning.Operation, error) {
	seqOp, err := Analyse(n.Seq, env)
	if err != nil {
		return nil, err
	}
	forFrame := env.Frame
	forBlock := forFrame.PushBlock(env.Block)
	defer forFrame.SetTop(env.Block)
	forEnv := Environ{Frame: forFrame, Block: forBlock, System: env.System}
	pat, err := makePattern(n.Pattern, forEnv)
	if err != nil {
		return nil, err
	}
	bodyOp, err := Analyse(n.Body, forEnv)
	if err != nil {
		return nil, err
	}
	return &meaning.ForOp{Pat: pat, Seq: seqOp, Body: bodyOp, Generate: generate}, nil
}

func analyseAssign(n *phrase.AssignStmt, env Environ) (meaning.Operation, error) {
	valOp, err := Analyse(n.Right, env)
	if err != nil {
		return nil, err
	}
	root, indexPhrases := splitLocative(n.Left)
	id, ok := root.(*phrase.Ident)
	if !ok {
		return nil, fmt.Errorf("at %s: the left of := must be a variable, optionally indexed", n.Location())
	}
	kind, slot, ok := env.Block.Resolve(id.Name)
	if !ok {
		return nil, fmt.Errorf("at %s: %q is not an assignable variable", n.Location(), id.Name)
	}
	indexOps := make([]meaning.Operation, len(indexPhrases))
	for i, ip := range indexPhrases {
		op, err := Analyse(ip, env)
		if err != nil {
			return nil, err
		}
		indexOps[i] = op
	}
	return &meaning.AssignOp{Slot: slot, Nonlocal: kind == resNonlocal, Index: indexOps, Value: valOp}, nil
}

// splitLocative decomposes `a@i@j.field` into its root identifier and
// the ordered list of index/field phrases applied to it (§4.7).
func splitLocative(p phrase.Phrase) (phrase.Phrase, []phrase.Phrase) {
	var steps []phrase.Phrase
	for {
		switch n := p.(type) {
		case *phrase.IndexApply:
			steps = append([]phrase.Phrase{n.Index}, steps...)
			p = n.Arg
		case *phrase.DotExpr:
			steps = append([]phrase.Phrase{&phrase.SymbolLit{Name: n.Field}}, steps...)
			p = n.Arg
		default:
			return p, steps
		}
	}
}
