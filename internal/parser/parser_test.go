package parser

import (
	"testing"

	"github.com/curv-lang/curv/internal/phrase"
)

func mustParse(t *testing.T, src string) phrase.Phrase {
	t.Helper()
	ph, err := ParseString("test", src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return ph
}

func TestParseNumeral(t *testing.T) {
	ph := mustParse(t, "42")
	n, ok := ph.(*phrase.Numeral)
	if !ok {
		t.Fatalf("expected *phrase.Numeral, got %T", ph)
	}
	if n.Text != "42" {
		t.Errorf("Text = %q, want 42", n.Text)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	ph := mustParse(t, "1 + 2 * 3")
	bop, ok := ph.(*phrase.BinaryOp)
	if !ok || bop.Op != "+" {
		t.Fatalf("expected top-level +, got %#v", ph)
	}
	rhs, ok := bop.Right.(*phrase.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected right side to be *, got %#v", bop.Right)
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	ph := mustParse(t, "2 ^ 3 ^ 2")
	top, ok := ph.(*phrase.BinaryOp)
	if !ok || top.Op != "^" {
		t.Fatalf("expected ^, got %#v", ph)
	}
	if _, ok := top.Right.(*phrase.BinaryOp); !ok {
		t.Errorf("expected right-associative nesting on the right operand")
	}
	if _, ok := top.Left.(*phrase.Numeral); !ok {
		t.Errorf("expected left operand to be a bare numeral")
	}
}

func TestParseApplyIsLeftAssociative(t *testing.T) {
	ph := mustParse(t, "f x y")
	outer, ok := ph.(*phrase.Apply)
	if !ok {
		t.Fatalf("expected *phrase.Apply, got %T", ph)
	}
	inner, ok := outer.Fn.(*phrase.Apply)
	if !ok {
		t.Fatalf("expected nested Apply for fn, got %T", outer.Fn)
	}
	if id, ok := inner.Fn.(*phrase.Ident); !ok || id.Name != "f" {
		t.Errorf("expected innermost fn to be Ident(f), got %#v", inner.Fn)
	}
}

func TestParseLambda(t *testing.T) {
	ph := mustParse(t, "x -> x + 1")
	lam, ok := ph.(*phrase.Lambda)
	if !ok {
		t.Fatalf("expected *phrase.Lambda, got %T", ph)
	}
	if _, ok := lam.Pattern.(*phrase.Ident); !ok {
		t.Errorf("expected pattern to be a bare Ident, got %#v", lam.Pattern)
	}
}

func TestParseFuncDefSugar(t *testing.T) {
	ph := mustParse(t, "sq x = x * x")
	fd, ok := ph.(*phrase.FuncDef)
	if !ok {
		t.Fatalf("expected *phrase.FuncDef, got %T", ph)
	}
	if fd.Name != "sq" || len(fd.Params) != 1 {
		t.Errorf("got FuncDef(%s, %d params)", fd.Name, len(fd.Params))
	}
}

func TestParseDataDef(t *testing.T) {
	ph := mustParse(t, "x = 1")
	dd, ok := ph.(*phrase.DataDef)
	if !ok {
		t.Fatalf("expected *phrase.DataDef, got %T", ph)
	}
	if dd.IsVar {
		t.Errorf("expected IsVar=false")
	}
}

func TestParseVarDef(t *testing.T) {
	ph := mustParse(t, "var x = 1")
	dd, ok := ph.(*phrase.DataDef)
	if !ok || !dd.IsVar {
		t.Fatalf("expected var DataDef, got %#v", ph)
	}
}

func TestParseCompoundDef(t *testing.T) {
	ph := mustParse(t, "x = 1; y = 2")
	cd, ok := ph.(*phrase.CompoundDef)
	if !ok {
		t.Fatalf("expected *phrase.CompoundDef, got %T", ph)
	}
	if len(cd.Items) != 2 {
		t.Errorf("got %d items, want 2", len(cd.Items))
	}
}

func TestParseListLit(t *testing.T) {
	ph := mustParse(t, "[1, 2, 3]")
	ll, ok := ph.(*phrase.ListLit)
	if !ok {
		t.Fatalf("expected *phrase.ListLit, got %T", ph)
	}
	if len(ll.Elems) != 3 {
		t.Errorf("got %d elems, want 3", len(ll.Elems))
	}
}

func TestParseRecordLit(t *testing.T) {
	ph := mustParse(t, "{x: 1, y: 2}")
	rl, ok := ph.(*phrase.RecordLit)
	if !ok {
		t.Fatalf("expected *phrase.RecordLit, got %T", ph)
	}
	if len(rl.Fields) != 2 {
		t.Errorf("got %d fields, want 2", len(rl.Fields))
	}
	fd, ok := rl.Fields[0].(*phrase.FieldDef)
	if !ok || fd.Name != "x" {
		t.Errorf("expected first field named x, got %#v", rl.Fields[0])
	}
}

func TestParseIfElse(t *testing.T) {
	ph := mustParse(t, "if (x) 1 else 2")
	ie, ok := ph.(*phrase.IfElse)
	if !ok {
		t.Fatalf("expected *phrase.IfElse, got %T", ph)
	}
	if ie.Else == nil {
		t.Errorf("expected non-nil Else branch")
	}
}

func TestParseLetIn(t *testing.T) {
	ph := mustParse(t, "let x = 1 in x + 1")
	li, ok := ph.(*phrase.LetIn)
	if !ok {
		t.Fatalf("expected *phrase.LetIn, got %T", ph)
	}
	if _, ok := li.Defs.(*phrase.DataDef); !ok {
		t.Errorf("expected Defs to be a DataDef, got %#v", li.Defs)
	}
}

func TestParseForIn(t *testing.T) {
	ph := mustParse(t, "for (i in [1,2,3]) i")
	if _, ok := ph.(*phrase.ForIn); !ok {
		t.Fatalf("expected *phrase.ForIn, got %T", ph)
	}
}

func TestParseRange(t *testing.T) {
	ph := mustParse(t, "1 .. 10 by 2")
	r, ok := ph.(*phrase.RangeExpr)
	if !ok {
		t.Fatalf("expected *phrase.RangeExpr, got %T", ph)
	}
	if r.HalfOpen {
		t.Errorf("expected closed range for \"..\"")
	}
	if r.Step == nil {
		t.Errorf("expected non-nil Step")
	}
}

func TestParseDotAndIndex(t *testing.T) {
	ph := mustParse(t, "r.field@0")
	idx, ok := ph.(*phrase.IndexApply)
	if !ok {
		t.Fatalf("expected *phrase.IndexApply, got %T", ph)
	}
	if _, ok := idx.Arg.(*phrase.DotExpr); !ok {
		t.Errorf("expected dot-expr as the indexed arg, got %#v", idx.Arg)
	}
}

func TestParseStringLiteralPlain(t *testing.T) {
	ph := mustParse(t, `"hello"`)
	sl, ok := ph.(*phrase.StringLit)
	if !ok {
		t.Fatalf("expected *phrase.StringLit, got %T", ph)
	}
	if len(sl.Segments) != 1 || sl.Segments[0].Literal != "hello" {
		t.Errorf("got segments %#v", sl.Segments)
	}
}

func TestParseStringInterpolation(t *testing.T) {
	ph := mustParse(t, `"x is ${x+1}!"`)
	sl, ok := ph.(*phrase.StringLit)
	if !ok {
		t.Fatalf("expected *phrase.StringLit, got %T", ph)
	}
	foundExpr := false
	for _, seg := range sl.Segments {
		if seg.Expr != nil {
			foundExpr = true
			if _, ok := seg.Expr.(*phrase.BinaryOp); !ok {
				t.Errorf("expected interpolated expr to be a BinaryOp, got %#v", seg.Expr)
			}
		}
	}
	if !foundExpr {
		t.Errorf("expected at least one interpolated segment")
	}
}

func TestParseSymbolLit(t *testing.T) {
	ph := mustParse(t, "#foo")
	sym, ok := ph.(*phrase.SymbolLit)
	if !ok {
		t.Fatalf("expected *phrase.SymbolLit, got %T", ph)
	}
	if sym.Name != "foo" {
		t.Errorf("Name = %q, want foo", sym.Name)
	}
}

func TestParseLocalIncludeParametricTest(t *testing.T) {
	ph := mustParse(t, "local x = 1")
	if _, ok := ph.(*phrase.LocalDef); !ok {
		t.Fatalf("expected *phrase.LocalDef, got %T", ph)
	}

	ph = mustParse(t, "include lib.std")
	if _, ok := ph.(*phrase.IncludeDef); !ok {
		t.Fatalf("expected *phrase.IncludeDef, got %T", ph)
	}

	ph = mustParse(t, "parametric r -> {x: r}")
	if _, ok := ph.(*phrase.ParametricDef); !ok {
		t.Fatalf("expected *phrase.ParametricDef, got %T", ph)
	}

	ph = mustParse(t, "test basic_add = (1 + 1 == 2)")
	td, ok := ph.(*phrase.TestDef)
	if !ok {
		t.Fatalf("expected *phrase.TestDef, got %T", ph)
	}
	if td.Name != "basic_add" {
		t.Errorf("Name = %q, want basic_add", td.Name)
	}
}

func TestParseSyntaxErrorHasLocation(t *testing.T) {
	_, err := ParseString("test", "1 +")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T", err)
	}
	if perr.Loc.Source == nil {
		t.Errorf("expected a populated source location on the error")
	}
}
