package phrase

import (
	"fmt"
	"strings"
)

// Printer renders a Phrase tree as an indented debug dump, grounded on
// the teacher's pkg/visitors/debug_printer.go (a BaseVisitor-embedding
// strings.Builder walker). It shows what the parser produced without a
// full evaluation; nothing else in the module calls it.
type Printer struct {
	BaseVisitor
	out    strings.Builder
	indent int
}

func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) String() string { return p.out.String() }

func (p *Printer) line(format string, args ...any) {
	p.out.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.out, format, args...)
	p.out.WriteString("\n")
}

func (p *Printer) child(label string, child Phrase) {
	if child == nil {
		return
	}
	p.line("%s:", label)
	p.indent++
	child.Accept(p)
	p.indent--
}

func (p *Printer) VisitIdent(n *Ident) any       { p.line("Ident(%s)", n.Name); return nil }
func (p *Printer) VisitNumeral(n *Numeral) any   { p.line("Numeral(%s)", n.Text); return nil }
func (p *Printer) VisitHexNumeral(n *HexNumeral) any {
	p.line("HexNumeral(%s)", n.Text)
	return nil
}
func (p *Printer) VisitSymbolLit(n *SymbolLit) any { p.line("Symbol(#%s)", n.Name); return nil }
func (p *Printer) VisitCharEscape(n *CharEscape) any {
	p.line("CharEscape(%s)", n.Text)
	return nil
}

func (p *Printer) VisitStringLit(n *StringLit) any {
	p.line("StringLit:")
	p.indent++
	for _, seg := range n.Segments {
		if seg.Expr != nil {
			seg.Expr.Accept(p)
		} else {
			p.line("%q", seg.Literal)
		}
	}
	p.indent--
	return nil
}

func (p *Printer) VisitUnaryOp(n *UnaryOp) any {
	p.line("UnaryOp(%s)", n.Op)
	p.indent++
	n.Arg.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitBinaryOp(n *BinaryOp) any {
	p.line("BinaryOp(%s)", n.Op)
	p.indent++
	n.Left.Accept(p)
	n.Right.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitLambda(n *Lambda) any {
	p.line("Lambda:")
	p.indent++
	p.child("pattern", n.Pattern)
	p.child("body", n.Body)
	p.indent--
	return nil
}

func (p *Printer) VisitApply(n *Apply) any {
	p.line("Apply:")
	p.indent++
	p.child("fn", n.Fn)
	p.child("arg", n.Arg)
	p.indent--
	return nil
}

func (p *Printer) VisitIndexApply(n *IndexApply) any {
	p.line("IndexApply:")
	p.indent++
	p.child("arg", n.Arg)
	p.child("index", n.Index)
	p.indent--
	return nil
}

func (p *Printer) VisitDotExpr(n *DotExpr) any {
	p.line("DotExpr(.%s):", n.Field)
	p.indent++
	n.Arg.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitListLit(n *ListLit) any {
	p.line("ListLit:")
	p.indent++
	for _, e := range n.Elems {
		e.Accept(p)
	}
	p.indent--
	return nil
}

func (p *Printer) VisitParenExpr(n *ParenExpr) any {
	p.line("ParenExpr:")
	p.indent++
	n.Inner.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitRecordLit(n *RecordLit) any {
	p.line("RecordLit:")
	p.indent++
	for _, f := range n.Fields {
		f.Accept(p)
	}
	p.indent--
	return nil
}

func (p *Printer) VisitFieldDef(n *FieldDef) any {
	p.line("FieldDef(%s):", n.Name)
	p.indent++
	n.Value.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitIfElse(n *IfElse) any {
	p.line("IfElse:")
	p.indent++
	p.child("cond", n.Cond)
	p.child("then", n.Then)
	p.child("else", n.Else)
	p.indent--
	return nil
}

func (p *Printer) VisitLetIn(n *LetIn) any {
	p.line("LetIn:")
	p.indent++
	p.child("defs", n.Defs)
	p.child("body", n.Body)
	p.indent--
	return nil
}

func (p *Printer) VisitDoIn(n *DoIn) any {
	p.line("DoIn:")
	p.indent++
	for _, a := range n.Actions {
		a.Accept(p)
	}
	p.child("body", n.Body)
	p.indent--
	return nil
}

func (p *Printer) VisitForIn(n *ForIn) any {
	p.line("ForIn:")
	p.indent++
	p.child("pattern", n.Pattern)
	p.child("seq", n.Seq)
	p.child("body", n.Body)
	p.indent--
	return nil
}

func (p *Printer) VisitWhileDo(n *WhileDo) any {
	p.line("WhileDo:")
	p.indent++
	p.child("cond", n.Cond)
	p.child("body", n.Body)
	p.indent--
	return nil
}

func (p *Printer) VisitDataDef(n *DataDef) any {
	kw := ""
	if n.IsVar {
		kw = "var "
	}
	p.line("DataDef(%s):", kw)
	p.indent++
	p.child("pattern", n.Pattern)
	p.child("value", n.Value)
	p.indent--
	return nil
}

func (p *Printer) VisitFuncDef(n *FuncDef) any {
	p.line("FuncDef(%s):", n.Name)
	p.indent++
	for _, param := range n.Params {
		param.Accept(p)
	}
	p.child("value", n.Value)
	p.indent--
	return nil
}

func (p *Printer) VisitAssignStmt(n *AssignStmt) any {
	p.line("AssignStmt:")
	p.indent++
	p.child("left", n.Left)
	p.child("right", n.Right)
	p.indent--
	return nil
}

func (p *Printer) VisitLocalDef(n *LocalDef) any {
	p.line("LocalDef:")
	p.indent++
	n.Def.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitIncludeDef(n *IncludeDef) any {
	p.line("IncludeDef:")
	p.indent++
	n.Expr.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitParametricDef(n *ParametricDef) any {
	p.line("ParametricDef:")
	p.indent++
	p.child("pattern", n.Pattern)
	p.child("body", n.Body)
	p.indent--
	return nil
}

func (p *Printer) VisitTestDef(n *TestDef) any {
	p.line("TestDef(%s):", n.Name)
	p.indent++
	n.Value.Accept(p)
	p.indent--
	return nil
}

func (p *Printer) VisitCompoundDef(n *CompoundDef) any {
	p.line("CompoundDef:")
	p.indent++
	for _, item := range n.Items {
		item.Accept(p)
	}
	p.indent--
	return nil
}

func (p *Printer) VisitSequence(n *Sequence) any {
	p.line("Sequence:")
	p.indent++
	for _, item := range n.Items {
		item.Accept(p)
	}
	p.indent--
	return nil
}

func (p *Printer) VisitCommaList(n *CommaList) any {
	p.line("CommaList:")
	p.indent++
	for _, item := range n.Items {
		item.Accept(p)
	}
	p.indent--
	return nil
}

func (p *Printer) VisitRangeExpr(n *RangeExpr) any {
	p.line("RangeExpr(halfOpen=%v):", n.HalfOpen)
	p.indent++
	p.child("lo", n.Lo)
	p.child("hi", n.Hi)
	p.child("step", n.Step)
	p.indent--
	return nil
}
