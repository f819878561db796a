// Package parse wires the token catalogue, grammar representation, and
// action catalogue into the concrete lumex grammar, and drives it with
// the table-driven predictive parser.
package parse

import (
	"github.com/dekarrin/lumex/internal/grammar"
	"github.com/dekarrin/lumex/internal/token"
)

// Nonterminal names, grouped by the construct they parse.
const (
	ntProgram  = "Program"
	ntStmtList = "StmtList"
	ntElseList = "ElseStmtList"
	ntStmt     = "Stmt"

	ntIfStmt      = "IfStmt"
	ntElsePart    = "ElsePart"
	ntElseTail    = "ElseTail"
	ntForStmt     = "ForStmt"
	ntForStep     = "ForStep"
	ntCommandStmt = "CommandStmt"
	ntParamList   = "ParamList"
	ntParamTail   = "ParamTail"

	ntExpr       = "Expr"
	ntOrExpr     = "OrExpr"
	ntOrTail     = "OrTail"
	ntAndExpr    = "AndExpr"
	ntAndTail    = "AndTail"
	ntCompExpr   = "CompExpr"
	ntCompTail   = "CompTail"
	ntAddExpr    = "AddExpr"
	ntAddTail    = "AddTail"
	ntMulExpr    = "MulExpr"
	ntMulTail    = "MulTail"
	ntUnaryExpr  = "UnaryExpr"
	ntAtom       = "Atom"
)

// t is shorthand for grammar.Term.
func t(cl token.Class) grammar.Symbol { return grammar.Term(cl) }

// nt is shorthand for grammar.NonTerm.
func nt(name string) grammar.Symbol { return grammar.NonTerm(name) }

// a is shorthand for grammar.Act.
func a(op string) grammar.Symbol { return grammar.Act(op) }

// New builds the concrete lumex grammar: the input language's statements
// (assignment, if/elif/else, for-range loops, break, top-level function
// declarations, and the FDTD scene-building commands) and its expression
// grammar (boolean or/and, comparison chains, +-, */, unary minus,
// parenthesization, literals, and variable references), with semantic
// actions inlined at the point each one should fire.
//
// The grammar is left-factored throughout into "X -> Y X'; X' -> op Y X'
// | ε" shape so every level is LL(1) without left recursion, mirroring
// the expression-grammar fixture in internal/ll1's tests.
func New() *grammar.Grammar {
	g := grammar.New(ntProgram)

	// Program -> @Imports @StoreToBody @CreateSelector @StoreToBody
	//            StmtList EndOfFile
	// The driver seeds the value stack with the root Module before
	// parsing begins, so Imports is the first action to run and finds
	// it waiting there.
	g.Append(ntProgram,
		a("Imports"), a("StoreToBody"),
		a("CreateSelector"), a("StoreToBody"),
		nt(ntStmtList), t(token.EndOfFile))

	buildStmtLists(g)
	buildStmt(g)
	buildIf(g)
	buildFor(g)
	buildCommand(g)
	buildExpr(g)

	return g
}

// buildStmtLists wires the two statement-list contexts: StmtList attaches
// each completed Stmt to the enclosing body via StoreToBody (used at
// Program top level and inside if/while/for blocks); ElseStmtList attaches
// via StoreToElse (used only while filling an If's orelse/elif chain).
func buildStmtLists(g *grammar.Grammar) {
	g.Append(ntStmtList, nt(ntStmt), a("StoreToBody"), nt(ntStmtList))
	g.AppendEpsilon(ntStmtList)

	g.Append(ntElseList, nt(ntStmt), a("StoreToElse"), nt(ntElseList))
	g.AppendEpsilon(ntElseList)
}

// buildStmt wires Stmt -> the assignment, control-flow, and command forms.
// Each alternative's FIRST token is distinct, so no left-factoring is
// needed at this level.
func buildStmt(g *grammar.Grammar) {
	// Stmt -> IDENTIFIER @StoreVariableName '=' Expr @AssignToVariable ';'
	g.Append(ntStmt,
		t(token.Identifier), a("StoreVariableName"),
		t(token.OpAssign), nt(ntExpr), a("AssignToVariable"),
		t(token.PunctSemi))

	// Stmt -> IfStmt
	g.Append(ntStmt, nt(ntIfStmt))

	// Stmt -> ForStmt
	g.Append(ntStmt, nt(ntForStmt))

	// Stmt -> KW_BREAK @Break ';'
	g.Append(ntStmt, t(token.KwBreak), a("Break"), t(token.PunctSemi))

	// Stmt -> '?' Expr @Print ';'
	g.Append(ntStmt,
		t(token.PunctQuestion), nt(ntExpr), a("Print"), t(token.PunctSemi))

	// Stmt -> KW_FUNCTION IDENTIFIER '(' ParamList ')' ';' @DeclareFunction
	// A forward-declared, bodyless procedure stub for the "function"
	// keyword.
	g.Append(ntStmt,
		t(token.KwFunction), t(token.Identifier), a("StoreFunctionName"),
		t(token.PunctParenOpen), nt(ntParamList), t(token.PunctParenClose),
		t(token.PunctSemi), a("DeclareFunction"))

	// Stmt -> CommandStmt
	g.Append(ntStmt, nt(ntCommandStmt))
}

// buildIf wires the if/elif/else chain. HandleElse appears in both
// ElseTail alternatives, just before the '{': when the plain-'{' alternative is taken
// nothing has been pushed since the If was created, so HandleElse's
// "next-older value is already an If" branch fires and it is a no-op;
// when the KW_IF alternative is taken, the freshly parsed elif condition
// is on top and HandleElse performs the chain rewrite.
func buildIf(g *grammar.Grammar) {
	// IfStmt -> KW_IF '(' Expr ')' @If '{' StmtList '}' ElsePart
	g.Append(ntIfStmt,
		t(token.KwIf), t(token.PunctParenOpen), nt(ntExpr), t(token.PunctParenClose),
		a("If"),
		t(token.PunctBraceOpen), nt(ntStmtList), t(token.PunctBraceClose),
		nt(ntElsePart))

	// ElsePart -> KW_ELSE ElseTail | ε
	g.Append(ntElsePart, t(token.KwElse), nt(ntElseTail))
	g.AppendEpsilon(ntElsePart)

	// ElseTail -> KW_IF '(' Expr ')' @HandleElse '{' ElseStmtList '}' ElsePart @CleanUpElse
	g.Append(ntElseTail,
		t(token.KwIf), t(token.PunctParenOpen), nt(ntExpr), t(token.PunctParenClose),
		a("HandleElse"),
		t(token.PunctBraceOpen), nt(ntElseList), t(token.PunctBraceClose),
		nt(ntElsePart), a("CleanUpElse"))

	// ElseTail -> @HandleElse '{' ElseStmtList '}' @CleanUpElse
	g.Append(ntElseTail,
		a("HandleElse"),
		t(token.PunctBraceOpen), nt(ntElseList), t(token.PunctBraceClose),
		a("CleanUpElse"))
}

// buildFor wires the `for(x=start:end) {...}` and `for(x=start:step:end)
// {...}` range-loop forms into While-based desugaring (CreateRangeCondition
// / ExtendRangeCondition / HandleAllLoops).
func buildFor(g *grammar.Grammar) {
	// ForStmt -> KW_FOR '(' IDENTIFIER @StoreVariableName '=' Expr
	//            @AssignToVariable @CreateEmptyWhile ':' Expr ForStep ')'
	//            '{' StmtList '}' @HandleAllLoops
	g.Append(ntForStmt,
		t(token.KwFor), t(token.PunctParenOpen),
		t(token.Identifier), a("StoreVariableName"),
		t(token.OpAssign), nt(ntExpr), a("AssignToVariable"),
		a("CreateEmptyWhile"),
		t(token.PunctColon), nt(ntExpr), nt(ntForStep),
		t(token.PunctParenClose),
		t(token.PunctBraceOpen), nt(ntStmtList), t(token.PunctBraceClose),
		a("HandleAllLoops"))

	// ForStep -> @CreateRangeCondition
	//          | ':' Expr @ExtendRangeCondition
	// The first alternative (no further colon) finalizes the simple
	// `start:end` form by building the While test/increment directly from
	// the expression already parsed; the second extends it for the
	// `start:step:end` form, where the previously-parsed expression turns
	// out to have been the step rather than the end.
	g.Append(ntForStep, a("CreateRangeCondition"))
	g.Append(ntForStep, t(token.PunctColon), nt(ntExpr), a("ExtendRangeCondition"))
}

// buildCommand wires the scene-building command statements: the
// zero/one-argument domain keywords plus the generic `set(name, value)`
// property setter.
func buildCommand(g *grammar.Grammar) {
	// CommandStmt -> KW_ADDFDTD @AddFDTD ';'
	g.Append(ntCommandStmt, t(token.KwAddFDTD), a("AddFDTD"), t(token.PunctSemi))
	// CommandStmt -> KW_ADDRECT @AddRect ';'
	g.Append(ntCommandStmt, t(token.KwAddRect), a("AddRect"), t(token.PunctSemi))
	// CommandStmt -> KW_ADDSPHERE @AddSphere ';'
	g.Append(ntCommandStmt, t(token.KwAddSphere), a("AddSphere"), t(token.PunctSemi))
	// CommandStmt -> KW_ADDPLANE @AddPlane ';'
	g.Append(ntCommandStmt, t(token.KwAddPlane), a("AddPlane"), t(token.PunctSemi))
	// CommandStmt -> KW_ADDDFTMONITOR @AddDFTMonitor ';'
	g.Append(ntCommandStmt, t(token.KwAddDFTMonitor), a("AddDFTMonitor"), t(token.PunctSemi))
	// CommandStmt -> KW_SELECTALL @SelectAll ';'
	g.Append(ntCommandStmt, t(token.KwSelectAll), a("SelectAll"), t(token.PunctSemi))
	// CommandStmt -> KW_UNSELECTALL @UnselectAll ';'
	g.Append(ntCommandStmt, t(token.KwUnselectAll), a("UnselectAll"), t(token.PunctSemi))
	// CommandStmt -> KW_SELECT '(' STRING @StoreLiteralStr ')' @Select ';'
	g.Append(ntCommandStmt,
		t(token.KwSelect), t(token.PunctParenOpen),
		t(token.String), a("StoreLiteralStr"),
		t(token.PunctParenClose), a("Select"), t(token.PunctSemi))
	// CommandStmt -> KW_SHIFTSELECT '(' STRING @StoreLiteralStr ')' @ShiftSelect ';'
	g.Append(ntCommandStmt,
		t(token.KwShiftSelect), t(token.PunctParenOpen),
		t(token.String), a("StoreLiteralStr"),
		t(token.PunctParenClose), a("ShiftSelect"), t(token.PunctSemi))
	// CommandStmt -> KW_SET '(' STRING @StoreLiteralStr ',' Expr ')' @SetProperty ';'
	g.Append(ntCommandStmt,
		t(token.KwSet), t(token.PunctParenOpen),
		t(token.String), a("StoreLiteralStr"), t(token.PunctComma),
		nt(ntExpr), t(token.PunctParenClose), a("SetProperty"), t(token.PunctSemi))

	// ParamList -> IDENTIFIER @StoreParamName ParamTail | ε
	g.Append(ntParamList, t(token.Identifier), a("StoreParamName"), nt(ntParamTail))
	g.AppendEpsilon(ntParamList)
	// ParamTail -> ',' IDENTIFIER @StoreParamName ParamTail | ε
	g.Append(ntParamTail, t(token.PunctComma), t(token.Identifier), a("StoreParamName"), nt(ntParamTail))
	g.AppendEpsilon(ntParamTail)
}

// buildExpr wires the expression grammar, precedence-climbing from
// boolean-or at the loosest level down to atoms, left-factored to avoid
// left recursion: OrExpr -> AndExpr OrTail; OrTail -> KW_OR AndExpr
// @LogicOperationOr OrTail | ε; and so on through AndExpr, CompExpr
// (chained comparisons), AddExpr, MulExpr, UnaryExpr, and Atom.
func buildExpr(g *grammar.Grammar) {
	g.Append(ntExpr, nt(ntOrExpr))

	g.Append(ntOrExpr, nt(ntAndExpr), nt(ntOrTail))
	g.Append(ntOrTail, t(token.OpOr), nt(ntAndExpr), a("LogicOperationOr"), nt(ntOrTail))
	g.AppendEpsilon(ntOrTail)

	g.Append(ntAndExpr, nt(ntCompExpr), nt(ntAndTail))
	g.Append(ntAndTail, t(token.OpAnd), nt(ntCompExpr), a("LogicOperationAnd"), nt(ntAndTail))
	g.AppendEpsilon(ntAndTail)

	g.Append(ntCompExpr, nt(ntAddExpr), nt(ntCompTail))
	g.Append(ntCompTail, t(token.OpEq), nt(ntAddExpr), a("ComparisonEq"), nt(ntCompTail))
	g.Append(ntCompTail, t(token.OpNotEq), nt(ntAddExpr), a("ComparisonNotEq"), nt(ntCompTail))
	g.Append(ntCompTail, t(token.OpLT), nt(ntAddExpr), a("ComparisonLt"), nt(ntCompTail))
	g.Append(ntCompTail, t(token.OpLTE), nt(ntAddExpr), a("ComparisonLtE"), nt(ntCompTail))
	g.Append(ntCompTail, t(token.OpGT), nt(ntAddExpr), a("ComparisonGt"), nt(ntCompTail))
	g.Append(ntCompTail, t(token.OpGTE), nt(ntAddExpr), a("ComparisonGtE"), nt(ntCompTail))
	g.AppendEpsilon(ntCompTail)

	g.Append(ntAddExpr, nt(ntMulExpr), nt(ntAddTail))
	g.Append(ntAddTail, t(token.OpPlus), nt(ntMulExpr), a("BinaryOperationAdd"), nt(ntAddTail))
	g.Append(ntAddTail, t(token.OpMinus), nt(ntMulExpr), a("BinaryOperationSub"), nt(ntAddTail))
	g.AppendEpsilon(ntAddTail)

	g.Append(ntMulExpr, nt(ntUnaryExpr), nt(ntMulTail))
	g.Append(ntMulTail, t(token.OpStar), nt(ntUnaryExpr), a("BinaryOperationMult"), nt(ntMulTail))
	g.Append(ntMulTail, t(token.OpSlash), nt(ntUnaryExpr), a("BinaryOperationDiv"), nt(ntMulTail))
	g.AppendEpsilon(ntMulTail)

	// UnaryExpr -> '-' UnaryExpr @UnarySubtract | Atom
	g.Append(ntUnaryExpr, t(token.OpMinus), nt(ntUnaryExpr), a("UnarySubtract"))
	g.Append(ntUnaryExpr, nt(ntAtom))

	// Atom -> INTEGER @StoreLiteralInt
	g.Append(ntAtom, t(token.Integer), a("StoreLiteralInt"))
	// Atom -> FLOAT @StoreLiteralFloat
	g.Append(ntAtom, t(token.Float), a("StoreLiteralFloat"))
	// Atom -> STRING @StoreLiteralStr
	g.Append(ntAtom, t(token.String), a("StoreLiteralStr"))
	// Atom -> IDENTIFIER @StoreVariableName
	g.Append(ntAtom, t(token.Identifier), a("StoreVariableName"))
	// Atom -> '(' Expr ')'
	g.Append(ntAtom, t(token.PunctParenOpen), nt(ntExpr), t(token.PunctParenClose))
}
