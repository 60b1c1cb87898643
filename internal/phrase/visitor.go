package phrase

// Visitor is implemented by every pass that walks a Phrase tree
// (analyser, pretty-printer). Grounded on the teacher's
// pkg/ast/visitor.go one-method-per-node-type interface.
type Visitor interface {
	VisitIdent(*Ident) any
	VisitNumeral(*Numeral) any
	VisitHexNumeral(*HexNumeral) any
	VisitSymbolLit(*SymbolLit) any
	VisitCharEscape(*CharEscape) any
	VisitStringLit(*StringLit) any
	VisitUnaryOp(*UnaryOp) any
	VisitBinaryOp(*BinaryOp) any
	VisitLambda(*Lambda) any
	VisitApply(*Apply) any
	VisitIndexApply(*IndexApply) any
	VisitDotExpr(*DotExpr) any
	VisitListLit(*ListLit) any
	VisitParenExpr(*ParenExpr) any
	VisitRecordLit(*RecordLit) any
	VisitFieldDef(*FieldDef) any
	VisitIfElse(*IfElse) any
	VisitLetIn(*LetIn) any
	VisitDoIn(*DoIn) any
	VisitForIn(*ForIn) any
	VisitWhileDo(*WhileDo) any
	VisitDataDef(*DataDef) any
	VisitFuncDef(*FuncDef) any
	VisitAssignStmt(*AssignStmt) any
	VisitLocalDef(*LocalDef) any
	VisitIncludeDef(*IncludeDef) any
	VisitParametricDef(*ParametricDef) any
	VisitTestDef(*TestDef) any
	VisitCompoundDef(*CompoundDef) any
	VisitSequence(*Sequence) any
	VisitCommaList(*CommaList) any
	VisitRangeExpr(*RangeExpr) any
}

// BaseVisitor gives every method a no-op default so a pass that only
// cares about a handful of node kinds can embed BaseVisitor and
// override the rest, exactly as the teacher's pkg/ast/base_visitor.go
// does for its own node set.
type BaseVisitor struct{}

func (BaseVisitor) VisitIdent(*Ident) any             { return nil }
func (BaseVisitor) VisitNumeral(*Numeral) any         { return nil }
func (BaseVisitor) VisitHexNumeral(*HexNumeral) any   { return nil }
func (BaseVisitor) VisitSymbolLit(*SymbolLit) any     { return nil }
func (BaseVisitor) VisitCharEscape(*CharEscape) any   { return nil }
func (BaseVisitor) VisitStringLit(*StringLit) any     { return nil }
func (BaseVisitor) VisitUnaryOp(*UnaryOp) any         { return nil }
func (BaseVisitor) VisitBinaryOp(*BinaryOp) any       { return nil }
func (BaseVisitor) VisitLambda(*Lambda) any           { return nil }
func (BaseVisitor) VisitApply(*Apply) any             { return nil }
func (BaseVisitor) VisitIndexApply(*IndexApply) any   { return nil }
func (BaseVisitor) VisitDotExpr(*DotExpr) any         { return nil }
func (BaseVisitor) VisitListLit(*ListLit) any         { return nil }
func (BaseVisitor) VisitParenExpr(*ParenExpr) any     { return nil }
func (BaseVisitor) VisitRecordLit(*RecordLit) any     { return nil }
func (BaseVisitor) VisitFieldDef(*FieldDef) any       { return nil }
func (BaseVisitor) VisitIfElse(*IfElse) any           { return nil }
func (BaseVisitor) VisitLetIn(*LetIn) any             { return nil }
func (BaseVisitor) VisitDoIn(*DoIn) any               { return nil }
func (BaseVisitor) VisitForIn(*ForIn) any             { return nil }
func (BaseVisitor) VisitWhileDo(*WhileDo) any         { return nil }
func (BaseVisitor) VisitDataDef(*DataDef) any         { return nil }
func (BaseVisitor) VisitFuncDef(*FuncDef) any         { return nil }
func (BaseVisitor) VisitAssignStmt(*AssignStmt) any   { return nil }
func (BaseVisitor) VisitLocalDef(*LocalDef) any       { return nil }
func (BaseVisitor) VisitIncludeDef(*IncludeDef) any   { return nil }
func (BaseVisitor) VisitParametricDef(*ParametricDef) any { return nil }
func (BaseVisitor) VisitTestDef(*TestDef) any         { return nil }
func (BaseVisitor) VisitCompoundDef(*CompoundDef) any { return nil }
func (BaseVisitor) VisitSequence(*Sequence) any       { return nil }
func (BaseVisitor) VisitCommaList(*CommaList) any     { return nil }
func (BaseVisitor) VisitRangeExpr(*RangeExpr) any     { return nil }
