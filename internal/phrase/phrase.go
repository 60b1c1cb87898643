// Package phrase defines the lossless parse tree the parser builds:
// every syntactic form of Curv source text as an immutable, shared-by-
// pointer node carrying its own source.SrcLoc (§3.2).
//
// The node-per-production shape and the one-method-per-node-type
// Visitor (visitor.go) are grounded on the teacher's pkg/ast/ast.go
// and pkg/ast/visitor.go; Curv's closed phrase-variant list replaces
// the teacher's Go-flavoured component grammar.
package phrase

import "github.com/curv-lang/curv/internal/source"

// Phrase is implemented by every parse-tree node. Phrases are
// immutable once built and may be shared by multiple parents (e.g. a
// deduplicated Src_Loc), so nodes must never be mutated after
// Parse returns.
type Phrase interface {
	Location() source.SrcLoc
	Accept(v Visitor) any
}

// base embeds the common Src_Loc every concrete phrase needs; it is
// not itself a Phrase (no Accept).
type base struct {
	Loc source.SrcLoc
}

func (b base) Location() source.SrcLoc { return b.Loc }

// ---- literals ----

type Ident struct {
	base
	Name string
}

func (n *Ident) Accept(v Visitor) any { return v.VisitIdent(n) }

type Numeral struct {
	base
	Text string
}

func (n *Numeral) Accept(v Visitor) any { return v.VisitNumeral(n) }

type HexNumeral struct {
	base
	Text string
}

func (n *HexNumeral) Accept(v Visitor) any { return v.VisitHexNumeral(n) }

type SymbolLit struct {
	base
	Name string
}

func (n *SymbolLit) Accept(v Visitor) any { return v.VisitSymbolLit(n) }

type CharEscape struct {
	base
	Text string // the raw "$x" / "$." / "$=" escape text
}

func (n *CharEscape) Accept(v Visitor) any { return v.VisitCharEscape(n) }

// StringLit is a sequence of literal segments and interpolated
// sub-phrases (§3.2, §4.2).
type StringLit struct {
	base
	Segments []StringSegment
}

func (n *StringLit) Accept(v Visitor) any { return v.VisitStringLit(n) }

// StringSegment is either a literal run of text or an interpolated
// phrase opened by ${...}, $(...), $[...] or a single-identifier $name.
type StringSegment struct {
	Literal string // non-empty only when Expr == nil
	Expr    Phrase
}

// ---- operators ----

type UnaryOp struct {
	base
	Op  string
	Arg Phrase
}

func (n *UnaryOp) Accept(v Visitor) any { return v.VisitUnaryOp(n) }

type BinaryOp struct {
	base
	Op          string
	Left, Right Phrase
}

func (n *BinaryOp) Accept(v Visitor) any { return v.VisitBinaryOp(n) }

// Lambda is `pattern -> body`.
type Lambda struct {
	base
	Pattern Phrase
	Body    Phrase
}

func (n *Lambda) Accept(v Visitor) any { return v.VisitLambda(n) }

// Apply is function application `f x`.
type Apply struct {
	base
	Fn, Arg Phrase
}

func (n *Apply) Accept(v Visitor) any { return v.VisitApply(n) }

// IndexApply is `a@i`.
type IndexApply struct {
	base
	Arg, Index Phrase
}

func (n *IndexApply) Accept(v Visitor) any { return v.VisitIndexApply(n) }

// DotExpr is `r.id`.
type DotExpr struct {
	base
	Arg   Phrase
	Field string
}

func (n *DotExpr) Accept(v Visitor) any { return v.VisitDotExpr(n) }

// ---- brackets ----

type ListLit struct {
	base
	Elems []Phrase
}

func (n *ListLit) Accept(v Visitor) any { return v.VisitListLit(n) }

type ParenExpr struct {
	base
	Inner Phrase
}

func (n *ParenExpr) Accept(v Visitor) any { return v.VisitParenExpr(n) }

type RecordLit struct {
	base
	Fields []Phrase // FieldDef phrases, or a nested compound definition
}

func (n *RecordLit) Accept(v Visitor) any { return v.VisitRecordLit(n) }

// FieldDef is `name : value` inside a record literal.
type FieldDef struct {
	base
	Name  string
	Value Phrase
}

func (n *FieldDef) Accept(v Visitor) any { return v.VisitFieldDef(n) }

// ---- control forms ----

type IfElse struct {
	base
	Cond, Then, Else Phrase // Else may be nil
}

func (n *IfElse) Accept(v Visitor) any { return v.VisitIfElse(n) }

// LetIn is `let defs in body`; Defs is whatever parseSemicolonList
// produced for the definitions clause (a single DataDef/FuncDef or a
// CompoundDef of several, §4.2).
type LetIn struct {
	base
	Defs Phrase
	Body Phrase
}

func (n *LetIn) Accept(v Visitor) any { return v.VisitLetIn(n) }

type DoIn struct {
	base
	Actions []Phrase
	Body    Phrase
}

func (n *DoIn) Accept(v Visitor) any { return v.VisitDoIn(n) }

type ForIn struct {
	base
	Pattern Phrase
	Seq     Phrase
	Body    Phrase
}

func (n *ForIn) Accept(v Visitor) any { return v.VisitForIn(n) }

type WhileDo struct {
	base
	Cond Phrase
	Body Phrase
}

func (n *WhileDo) Accept(v Visitor) any { return v.VisitWhileDo(n) }

// ---- definitions ----

// DataDef is `pattern = expr`; IsVar marks a `var pattern = expr`
// mutable-binding introduction.
type DataDef struct {
	base
	Pattern Phrase
	Value   Phrase
	IsVar   bool
}

func (n *DataDef) Accept(v Visitor) any { return v.VisitDataDef(n) }

// FuncDef is `f x = expr` sugar for `f = x -> expr`.
type FuncDef struct {
	base
	Name   string
	Params []Phrase
	Value  Phrase
}

func (n *FuncDef) Accept(v Visitor) any { return v.VisitFuncDef(n) }

// AssignStmt is `lhs := rhs`.
type AssignStmt struct {
	base
	Left, Right Phrase
}

func (n *AssignStmt) Accept(v Visitor) any { return v.VisitAssignStmt(n) }

type LocalDef struct {
	base
	Def Phrase
}

func (n *LocalDef) Accept(v Visitor) any { return v.VisitLocalDef(n) }

type IncludeDef struct {
	base
	Expr Phrase
}

func (n *IncludeDef) Accept(v Visitor) any { return v.VisitIncludeDef(n) }

// ParametricDef is `parametric pattern -> body`, a record whose fields
// are exposed as sliders/parameters to an external picker; the core
// only needs its value semantics (a module-returning call).
type ParametricDef struct {
	base
	Pattern Phrase
	Body    Phrase
}

func (n *ParametricDef) Accept(v Visitor) any { return v.VisitParametricDef(n) }

// TestDef is `test name = expr` (§C of SPEC_FULL.md): the analyser
// binds it as an ordinary module def named "test name", which the
// driver's RunTests picks out by that prefix and checks as an
// assertion.
type TestDef struct {
	base
	Name  string
	Value Phrase
}

func (n *TestDef) Accept(v Visitor) any { return v.VisitTestDef(n) }

// CompoundDef is `def1; def2; …`, at least one element a definition
// (§4.2).
type CompoundDef struct {
	base
	Items []Phrase
}

func (n *CompoundDef) Accept(v Visitor) any { return v.VisitCompoundDef(n) }

// Sequence is `a ; b ; c` in expression (action) position.
type Sequence struct {
	base
	Items []Phrase
}

func (n *Sequence) Accept(v Visitor) any { return v.VisitSequence(n) }

// CommaList is `a, b, c` (a list in expression position, a tuple
// pattern in pattern position — disambiguated by the analyser, not
// the parser, per §4.2).
type CommaList struct {
	base
	Items []Phrase
}

func (n *CommaList) Accept(v Visitor) any { return v.VisitCommaList(n) }

// RangeExpr is `lo .. hi` / `lo ..< hi` optionally `by step`.
type RangeExpr struct {
	base
	Lo, Hi, Step Phrase // Step may be nil
	HalfOpen     bool
}

func (n *RangeExpr) Accept(v Visitor) any { return v.VisitRangeExpr(n) }

// AsDefinition reports whether p can be interpreted as a definition
// unit, matching spec.md §4.2's "Phrase::as_definition" — the parser
// does not commit to definition-vs-expression until this question is
// asked of the parsed compound.
func AsDefinition(p Phrase) bool {
	switch p.(type) {
	case *DataDef, *FuncDef, *LocalDef, *IncludeDef, *ParametricDef, *TestDef, *CompoundDef:
		return true
	}
	return false
}
