package phrase

import "github.com/curv-lang/curv/internal/source"

// Constructor functions for every node kind, since `base` is
// unexported (other packages build phrases only through these, never
// via a struct literal naming the embedded field).

func NewIdent(loc source.SrcLoc, name string) *Ident { return &Ident{base{loc}, name} }
func NewNumeral(loc source.SrcLoc, text string) *Numeral { return &Numeral{base{loc}, text} }
func NewHexNumeral(loc source.SrcLoc, text string) *HexNumeral {
	return &HexNumeral{base{loc}, text}
}
func NewSymbolLit(loc source.SrcLoc, name string) *SymbolLit { return &SymbolLit{base{loc}, name} }
func NewCharEscape(loc source.SrcLoc, text string) *CharEscape {
	return &CharEscape{base{loc}, text}
}
func NewStringLit(loc source.SrcLoc, segs []StringSegment) *StringLit {
	return &StringLit{base{loc}, segs}
}
func NewUnaryOp(loc source.SrcLoc, op string, arg Phrase) *UnaryOp {
	return &UnaryOp{base{loc}, op, arg}
}
func NewBinaryOp(loc source.SrcLoc, op string, l, r Phrase) *BinaryOp {
	return &BinaryOp{base{loc}, op, l, r}
}
func NewLambda(loc source.SrcLoc, pat, body Phrase) *Lambda { return &Lambda{base{loc}, pat, body} }
func NewApply(loc source.SrcLoc, fn, arg Phrase) *Apply     { return &Apply{base{loc}, fn, arg} }
func NewIndexApply(loc source.SrcLoc, arg, idx Phrase) *IndexApply {
	return &IndexApply{base{loc}, arg, idx}
}
func NewDotExpr(loc source.SrcLoc, arg Phrase, field string) *DotExpr {
	return &DotExpr{base{loc}, arg, field}
}
func NewListLit(loc source.SrcLoc, elems []Phrase) *ListLit { return &ListLit{base{loc}, elems} }
func NewParenExpr(loc source.SrcLoc, inner Phrase) *ParenExpr {
	return &ParenExpr{base{loc}, inner}
}
func NewRecordLit(loc source.SrcLoc, fields []Phrase) *RecordLit {
	return &RecordLit{base{loc}, fields}
}
func NewFieldDef(loc source.SrcLoc, name string, val Phrase) *FieldDef {
	return &FieldDef{base{loc}, name, val}
}
func NewIfElse(loc source.SrcLoc, cond, then, els Phrase) *IfElse {
	return &IfElse{base{loc}, cond, then, els}
}
func NewLetIn(loc source.SrcLoc, defs, body Phrase) *LetIn {
	return &LetIn{base{loc}, defs, body}
}
func NewDoIn(loc source.SrcLoc, actions []Phrase, body Phrase) *DoIn {
	return &DoIn{base{loc}, actions, body}
}
func NewForIn(loc source.SrcLoc, pat, seq, body Phrase) *ForIn {
	return &ForIn{base{loc}, pat, seq, body}
}
func NewWhileDo(loc source.SrcLoc, cond, body Phrase) *WhileDo {
	return &WhileDo{base{loc}, cond, body}
}
func NewDataDef(loc source.SrcLoc, pat, val Phrase, isVar bool) *DataDef {
	return &DataDef{base{loc}, pat, val, isVar}
}
func NewFuncDef(loc source.SrcLoc, name string, params []Phrase, val Phrase) *FuncDef {
	return &FuncDef{base{loc}, name, params, val}
}
func NewAssignStmt(loc source.SrcLoc, l, r Phrase) *AssignStmt {
	return &AssignStmt{base{loc}, l, r}
}
func NewLocalDef(loc source.SrcLoc, def Phrase) *LocalDef { return &LocalDef{base{loc}, def} }
func NewIncludeDef(loc source.SrcLoc, expr Phrase) *IncludeDef {
	return &IncludeDef{base{loc}, expr}
}
func NewParametricDef(loc source.SrcLoc, pat, body Phrase) *ParametricDef {
	return &ParametricDef{base{loc}, pat, body}
}
func NewTestDef(loc source.SrcLoc, name string, val Phrase) *TestDef {
	return &TestDef{base{loc}, name, val}
}
func NewCompoundDef(loc source.SrcLoc, items []Phrase) *CompoundDef {
	return &CompoundDef{base{loc}, items}
}
func NewSequence(loc source.SrcLoc, items []Phrase) *Sequence { return &Sequence{base{loc}, items} }
func NewCommaList(loc source.SrcLoc, items []Phrase) *CommaList {
	return &CommaList{base{loc}, items}
}
func NewRangeExpr(loc source.SrcLoc, lo, hi, step Phrase, halfOpen bool) *RangeExpr {
	return &RangeExpr{base{loc}, lo, hi, step, halfOpen}
}
