// Package action implements the semantic-action catalogue: the named
// operations referenced by Act() symbols in the concrete grammar, each
// popping/pushing the value stack (pyast.Node) and token stack
// (token.Token) via a call(value_stack, token_stack) contract.
package action

import (
	"strconv"
	"strings"

	"github.com/dekarrin/lumex/internal/config"
	"github.com/dekarrin/lumex/internal/diag"
	"github.com/dekarrin/lumex/internal/pyast"
	"github.com/dekarrin/lumex/internal/runtime"
	"github.com/dekarrin/lumex/internal/token"
	"github.com/dekarrin/lumex/internal/util"
)

// Stacks bundles the two stacks an action operates on, plus the sink for
// non-fatal diagnostics (SetProperty's "unrecognized property" notice is
// the only action that uses Warnings today).
type Stacks struct {
	Values   *util.Stack[pyast.Node]
	Tokens   *util.Stack[token.Token]
	Warnings *[]diag.Warning
}

func (s *Stacks) warn(pos diag.Position, msg string) {
	*s.Warnings = append(*s.Warnings, diag.Warning{Pos: pos, Message: msg})
}

// Func is the signature every catalogued action implements.
type Func func(s *Stacks) error

func (s *Stacks) popValue(action string) (pyast.Node, error) {
	if s.Values.Empty() {
		return nil, &diag.ActionError{Action: action, Message: "value stack underflow"}
	}
	return s.Values.Pop(), nil
}

func (s *Stacks) popToken(action string) (token.Token, error) {
	if s.Tokens.Empty() {
		return token.Token{}, &diag.ActionError{Action: action, Message: "token stack underflow"}
	}
	return s.Tokens.Pop(), nil
}

func posOf(t token.Token) diag.Position {
	return diag.Position{Line: t.Line, Col: t.Col, FullLine: t.FullLine}
}

// body is the minimal shape shared by Module/If/While/For/FunctionDef: a
// mutable statement list a StoreToBody-family action appends to.
type body interface {
	appendBody(n pyast.Node)
}

func asBody(n pyast.Node) (body, bool) {
	switch v := n.(type) {
	case *pyast.Module:
		return moduleBody{v}, true
	case *pyast.If:
		return ifBody{v}, true
	case *pyast.While:
		return whileBody{v}, true
	case *pyast.For:
		return forBody{v}, true
	case *pyast.FunctionDef:
		return funcBody{v}, true
	default:
		return nil, false
	}
}

type moduleBody struct{ m *pyast.Module }

func (b moduleBody) appendBody(n pyast.Node) { b.m.Body = append(b.m.Body, n) }

type ifBody struct{ i *pyast.If }

func (b ifBody) appendBody(n pyast.Node) { b.i.Body = append(b.i.Body, n) }

type whileBody struct{ w *pyast.While }

func (b whileBody) appendBody(n pyast.Node) { b.w.Body = append(b.w.Body, n) }

type forBody struct{ f *pyast.For }

func (b forBody) appendBody(n pyast.Node) { b.f.Body = append(b.f.Body, n) }

type funcBody struct{ fn *pyast.FunctionDef }

func (b funcBody) appendBody(n pyast.Node) { b.fn.Body = append(b.fn.Body, n) }

// StoreToBody pops a completed statement, pops the container beneath it,
// appends the statement to the container's Body, and pushes the container
// back. It is the general-purpose "attach this statement to its enclosing
// block" action used by nearly every statement production.
func StoreToBody(s *Stacks) error {
	stmt, err := s.popValue("StoreToBody")
	if err != nil {
		return err
	}
	container, err := s.popValue("StoreToBody")
	if err != nil {
		return err
	}
	b, ok := asBody(container)
	if !ok {
		return &diag.ActionError{Action: "StoreToBody", Message: "value beneath statement is not a body-bearing node"}
	}
	b.appendBody(stmt)
	s.Values.Push(container)
	return nil
}

// StoreToElse pops a completed statement and appends it either to the
// Orelse of the last link of the If chain beneath it (the terminal else
// block, which HandleElse marks open with a non-nil Orelse), or -- if
// HandleElse installed a pending elif as that last link -- to that elif's
// Body.
func StoreToElse(s *Stacks) error {
	stmt, err := s.popValue("StoreToElse")
	if err != nil {
		return err
	}
	container, err := s.popValue("StoreToElse")
	if err != nil {
		return err
	}
	ifNode, ok := container.(*pyast.If)
	if !ok {
		return &diag.ActionError{Action: "StoreToElse", Message: "value beneath statement is not an If"}
	}

	deepest := deepestOrelseIf(ifNode)
	if deepest != ifNode && deepest.Orelse == nil {
		// A pending elif installed by HandleElse: the statement fills
		// that elif's own body, not an orelse.
		deepest.Body = append(deepest.Body, stmt)
	} else {
		// The terminal else block's own statement.
		deepest.Orelse = append(deepest.Orelse, stmt)
	}
	s.Values.Push(ifNode)
	return nil
}

// deepestOrelseIf walks an If's Orelse chain to the last link (the
// "pending elif" installed by HandleElse) or returns n itself if Orelse
// isn't a single-If chain.
func deepestOrelseIf(n *pyast.If) *pyast.If {
	if len(n.Orelse) == 1 {
		if chained, ok := n.Orelse[0].(*pyast.If); ok {
			return deepestOrelseIf(chained)
		}
	}
	return n
}

// StoreLiteral pops a token and converts its lexeme to a value of kind,
// pushing a Constant. kind is one of "int", "float", "str".
func StoreLiteral(kind string) Func {
	return func(s *Stacks) error {
		tok, err := s.popToken("StoreLiteral")
		if err != nil {
			return err
		}
		var val interface{}
		switch kind {
		case "int":
			n, convErr := strconv.ParseInt(tok.Lexeme, 10, 64)
			if convErr != nil {
				return &diag.ConversionError{Kind: kind, Lexeme: tok.Lexeme, Pos: posOf(tok)}
			}
			val = n
		case "float":
			f, convErr := strconv.ParseFloat(tok.Lexeme, 64)
			if convErr != nil {
				return &diag.ConversionError{Kind: kind, Lexeme: tok.Lexeme, Pos: posOf(tok)}
			}
			val = f
		case "str":
			val = strings.Trim(tok.Lexeme, `"`)
		default:
			return &diag.ActionError{Action: "StoreLiteral", Pos: posOf(tok), Message: "unknown literal kind " + kind}
		}
		s.Values.Push(pyast.Constant{Value: val})
		return nil
	}
}

// StoreVariableName pops an identifier token and pushes a Name(Load).
func StoreVariableName(s *Stacks) error {
	tok, err := s.popToken("StoreVariableName")
	if err != nil {
		return err
	}
	s.Values.Push(pyast.Name{ID: tok.Lexeme, Ctx: pyast.Load})
	return nil
}

// AssignToVariable pops a value expression and a Name, rewrites the Name's
// Ctx to Store, and pushes Assign([Name], value).
func AssignToVariable(s *Stacks) error {
	value, err := s.popValue("AssignToVariable")
	if err != nil {
		return err
	}
	target, err := s.popValue("AssignToVariable")
	if err != nil {
		return err
	}
	name, ok := target.(pyast.Name)
	if !ok {
		return &diag.ActionError{Action: "AssignToVariable", Message: "assignment target is not a Name"}
	}
	name.Ctx = pyast.Store
	s.Values.Push(pyast.Assign{Targets: []pyast.Node{name}, Value: value})
	return nil
}

// BinaryOperation pops right, pops left, pushes BinOp(left, op, right).
func BinaryOperation(op pyast.BinOperator) Func {
	return func(s *Stacks) error {
		right, err := s.popValue("BinaryOperation")
		if err != nil {
			return err
		}
		left, err := s.popValue("BinaryOperation")
		if err != nil {
			return err
		}
		s.Values.Push(pyast.BinOp{Left: left, Op: op, Right: right})
		return nil
	}
}

// UnarySubtract pops operand, pushes UnaryOp(USub, operand).
func UnarySubtract(s *Stacks) error {
	operand, err := s.popValue("UnarySubtract")
	if err != nil {
		return err
	}
	s.Values.Push(pyast.UnaryOp{Op: pyast.USub, Operand: operand})
	return nil
}

// Comparison pops right, pops left, folds into a Compare, extending an
// existing chained Compare on top of left if present (so `a < b < c`
// becomes one Compare with two ops/comparators rather than nested nodes).
func Comparison(op pyast.CmpOperator) Func {
	return func(s *Stacks) error {
		right, err := s.popValue("Comparison")
		if err != nil {
			return err
		}
		left, err := s.popValue("Comparison")
		if err != nil {
			return err
		}
		if chain, ok := left.(pyast.Compare); ok {
			chain.Ops = append(chain.Ops, op)
			chain.Comparators = append(chain.Comparators, right)
			s.Values.Push(chain)
			return nil
		}
		s.Values.Push(pyast.Compare{Left: left, Ops: []pyast.CmpOperator{op}, Comparators: []pyast.Node{right}})
		return nil
	}
}

// LogicOperation pops right, pops left, folds into a BoolOp(op, ...),
// extending an existing BoolOp on top of left with the same operator
// rather than nesting (so `a and b and c` is one BoolOp with three
// Values).
func LogicOperation(op pyast.BoolOperator) Func {
	return func(s *Stacks) error {
		right, err := s.popValue("LogicOperation")
		if err != nil {
			return err
		}
		left, err := s.popValue("LogicOperation")
		if err != nil {
			return err
		}
		if chain, ok := left.(pyast.BoolOp); ok && chain.Op == op {
			chain.Values = append(chain.Values, right)
			s.Values.Push(chain)
			return nil
		}
		s.Values.Push(pyast.BoolOp{Op: op, Values: []pyast.Node{left, right}})
		return nil
	}
}

// If pops a test expression, pushes If{Test: test, Body: nil, Orelse: nil}.
func If(s *Stacks) error {
	test, err := s.popValue("If")
	if err != nil {
		return err
	}
	s.Values.Push(&pyast.If{Test: test})
	return nil
}

// HandleElse handles the elif/else branch: if the top of the stack is
// already an *If (a plain else), the If stays on top and the last link of
// its chain gets a non-nil, empty Orelse so StoreToElse fills that else
// block. If instead it's an expression (an "else if <expr>" condition)
// followed by an *If further down, it rewrites the deepest Orelse of that
// If chain to [If{Test: expr, Body: nil}] and leaves (expr, ifChain) ready
// for CleanUpElse to collapse once the elif's body has been filled in.
func HandleElse(s *Stacks) error {
	top, err := s.popValue("HandleElse")
	if err != nil {
		return err
	}
	if ifNode, ok := top.(*pyast.If); ok {
		if deepest := deepestOrelseIf(ifNode); deepest.Orelse == nil {
			deepest.Orelse = []pyast.Node{}
		}
		s.Values.Push(ifNode)
		return nil
	}

	// top is the elif condition expression; the chain is beneath it.
	chainVal, err := s.popValue("HandleElse")
	if err != nil {
		return err
	}
	chain, ok := chainVal.(*pyast.If)
	if !ok {
		return &diag.ActionError{Action: "HandleElse", Message: "expected If beneath elif condition"}
	}

	deepest := deepestOrelseIf(chain)
	elif := &pyast.If{Test: top}
	deepest.Orelse = []pyast.Node{elif}

	s.Values.Push(top)
	s.Values.Push(chain)
	return nil
}

// CleanUpElse normalizes the stack after an else/elif body has been
// attached via StoreToElse, dropping the stranded condition expression
// HandleElse left beneath the chain so that exactly the originating If
// remains on top.
func CleanUpElse(s *Stacks) error {
	ifNode, err := s.popValue("CleanUpElse")
	if err != nil {
		return err
	}
	chain, ok := ifNode.(*pyast.If)
	if !ok {
		return &diag.ActionError{Action: "CleanUpElse", Message: "expected If on top of stack"}
	}
	if !s.Values.Empty() {
		if _, isBody := asBody(s.Values.Peek()); !isBody {
			s.Values.Pop()
		}
	}
	s.Values.Push(chain)
	return nil
}

// CreateEmptyWhile pushes While{Test: nil, Body: nil} as a placeholder;
// CreateRangeCondition patches its Test once the loop variable and bound
// are known.
func CreateEmptyWhile(s *Stacks) error {
	s.Values.Push(&pyast.While{})
	return nil
}

// CreateRangeCondition pops an end expression, the placeholder While
// CreateEmptyWhile left beneath it, and the loop's initial Assign beneath
// that (the push order left by the ForStmt production: Assign, then
// While, then the end expression), reads the loop variable from
// Assign.Targets[0], sets the placeholder While's Test to `target <=
// end`, constructs a default AugAssign(target, Add, 1) increment, and
// re-stacks as (Assign, Increment, While) ready for HandleAllLoops.
func CreateRangeCondition(s *Stacks) error {
	end, err := s.popValue("CreateRangeCondition")
	if err != nil {
		return err
	}
	whileVal, err := s.popValue("CreateRangeCondition")
	if err != nil {
		return err
	}
	assignVal, err := s.popValue("CreateRangeCondition")
	if err != nil {
		return err
	}
	whileNode, ok := whileVal.(*pyast.While)
	if !ok {
		return &diag.ActionError{Action: "CreateRangeCondition", Message: "expected placeholder While beneath end expression"}
	}
	assign, ok := assignVal.(pyast.Assign)
	if !ok || len(assign.Targets) == 0 {
		return &diag.ActionError{Action: "CreateRangeCondition", Message: "expected Assign with a target beneath While"}
	}

	target := assign.Targets[0]
	whileNode.Test = pyast.Compare{
		Left:        asLoadName(target),
		Ops:         []pyast.CmpOperator{pyast.LtE},
		Comparators: []pyast.Node{end},
	}
	increment := pyast.AugAssign{Target: asLoadName(target), Op: pyast.Add, Value: pyast.Constant{Value: int64(1)}}

	s.Values.Push(assign)
	s.Values.Push(increment)
	s.Values.Push(whileNode)
	return nil
}

func asLoadName(n pyast.Node) pyast.Node {
	if name, ok := n.(pyast.Name); ok {
		name.Ctx = pyast.Load
		return name
	}
	return n
}

// ExtendRangeCondition handles the `start:step:end` loop form. ForStep's
// second alternative is taken instead of its first, so CreateRangeCondition
// never runs for this loop at all -- ExtendRangeCondition does its job
// directly, from the same (Assign, While, firstExpr) stack shape
// CreateRangeCondition would have consumed, plus the second Expr parsed
// after the loop's second colon (the real end; firstExpr turns out to have
// been the step). A literal positive step keeps the <= comparator; a
// literal negative step flips it to >=, keying strictly off the step's
// sign when the step is a numeric literal and defaulting to <= otherwise
// (a non-literal step's sign isn't known until the emitted script runs).
func ExtendRangeCondition(s *Stacks) error {
	realEnd, err := s.popValue("ExtendRangeCondition")
	if err != nil {
		return err
	}
	step, err := s.popValue("ExtendRangeCondition")
	if err != nil {
		return err
	}
	whileVal, err := s.popValue("ExtendRangeCondition")
	if err != nil {
		return err
	}
	assignVal, err := s.popValue("ExtendRangeCondition")
	if err != nil {
		return err
	}

	whileNode, ok := whileVal.(*pyast.While)
	if !ok {
		return &diag.ActionError{Action: "ExtendRangeCondition", Message: "expected placeholder While beneath step expression"}
	}
	assign, ok := assignVal.(pyast.Assign)
	if !ok || len(assign.Targets) == 0 {
		return &diag.ActionError{Action: "ExtendRangeCondition", Message: "expected Assign with a target beneath While"}
	}

	target := assign.Targets[0]
	op := pyast.LtE
	if stepIsNegative(step) {
		op = pyast.GtE
	}
	whileNode.Test = pyast.Compare{
		Left:        asLoadName(target),
		Ops:         []pyast.CmpOperator{op},
		Comparators: []pyast.Node{realEnd},
	}
	increment := pyast.AugAssign{Target: asLoadName(target), Op: pyast.Add, Value: step}

	s.Values.Push(assign)
	s.Values.Push(increment)
	s.Values.Push(whileNode)
	return nil
}

func negative(v interface{}) bool {
	switch n := v.(type) {
	case int64:
		return n < 0
	case float64:
		return n < 0
	default:
		return false
	}
}

// stepIsNegative reports whether step is a literal negative number. A
// negative literal never lexes as a single token -- "-2" is OP_MINUS
// INTEGER, so UnaryExpr's @UnarySubtract wraps it as UnaryOp(USub,
// Constant(2)) rather than handing ExtendRangeCondition a Constant holding
// a negative value directly.
func stepIsNegative(step pyast.Node) bool {
	switch n := step.(type) {
	case pyast.Constant:
		return negative(n.Value)
	case pyast.UnaryOp:
		_, isConst := n.Operand.(pyast.Constant)
		return n.Op == pyast.USub && isConst
	default:
		return false
	}
}

// HandleAllLoops closes a for-loop construction: pops While, Increment,
// Assign (in that order, as left by CreateRangeCondition/
// ExtendRangeCondition), appends the increment inside the While's body,
// attaches the initial Assign to the enclosing container directly (the
// same split Imports uses for its own two-statement attach), and leaves
// the While as the single pending statement for the Stmt -> ForStmt
// alternative's own @StoreToBody (in StmtList) to attach in turn.
func HandleAllLoops(s *Stacks) error {
	whileVal, err := s.popValue("HandleAllLoops")
	if err != nil {
		return err
	}
	whileNode, ok := whileVal.(*pyast.While)
	if !ok {
		return &diag.ActionError{Action: "HandleAllLoops", Message: "expected While on top of stack"}
	}

	incrementVal, err := s.popValue("HandleAllLoops")
	if err != nil {
		return err
	}
	whileNode.Body = append(whileNode.Body, incrementVal)

	assignVal, err := s.popValue("HandleAllLoops")
	if err != nil {
		return err
	}

	container, err := s.popValue("HandleAllLoops")
	if err != nil {
		return err
	}
	b, ok := asBody(container)
	if !ok {
		return &diag.ActionError{Action: "HandleAllLoops", Message: "enclosing value is not a body-bearing node"}
	}
	b.appendBody(assignVal)
	s.Values.Push(container)
	s.Values.Push(whileNode)
	return nil
}

// Break pushes a bare Break statement.
func Break(s *Stacks) error {
	s.Values.Push(pyast.Break{})
	return nil
}

// Print pops an expression and pushes Expr{Call(Name("print"), [expr])}.
func Print(s *Stacks) error {
	arg, err := s.popValue("Print")
	if err != nil {
		return err
	}
	s.Values.Push(pyast.Expr{Value: pyast.Call{
		Func: pyast.Name{ID: "print", Ctx: pyast.Load},
		Args: []pyast.Node{arg},
	}})
	return nil
}

// importsAction produces Import([alias("meep",alias)]), attaches it to the
// Module via the same rule StoreToBody uses, then produces
// ImportFrom("runtime", [Selector, Record], level=0) and leaves it on the
// stack for the caller to attach.
func importsAction(alias string) Func {
	return func(s *Stacks) error {
		module, err := s.popValue("Imports")
		if err != nil {
			return err
		}
		b, ok := asBody(module)
		if !ok {
			return &diag.ActionError{Action: "Imports", Message: "expected Module beneath the program"}
		}
		asName := alias
		if asName == "meep" {
			asName = ""
		}
		b.appendBody(pyast.Import{Names: []pyast.Alias{{Name: "meep", AsName: asName}}})
		s.Values.Push(module)
		s.Values.Push(pyast.ImportFrom{
			Module: runtime.ModuleName,
			Names:  []pyast.Alias{{Name: "Selector"}, {Name: "Record"}},
			Level:  0,
		})
		return nil
	}
}

// Imports is importsAction under the default configuration (meep bound to
// the alias "mp").
var Imports = importsAction("mp")

// StoreFunctionName pops an identifier token and pushes Constant(name),
// which doubles as the boundary DeclareFunction pops down to once every
// parameter Name above it has been collected.
func StoreFunctionName(s *Stacks) error {
	tok, err := s.popToken("StoreFunctionName")
	if err != nil {
		return err
	}
	s.Values.Push(pyast.Constant{Value: tok.Lexeme})
	return nil
}

// StoreParamName pops an identifier token and pushes Name(id=lexeme,
// Load), one entry of the parameter list DeclareFunction collects.
func StoreParamName(s *Stacks) error {
	tok, err := s.popToken("StoreParamName")
	if err != nil {
		return err
	}
	s.Values.Push(pyast.Name{ID: tok.Lexeme, Ctx: pyast.Load})
	return nil
}

// DeclareFunction pops every parameter Name pushed by StoreParamName
// (collecting them back into declaration order), then the function-name
// Constant StoreFunctionName left beneath them, and pushes a bodyless
// FunctionDef -- a forward-declared procedure stub for the grammar's
// "function" keyword.
func DeclareFunction(s *Stacks) error {
	var args []string
	for {
		if s.Values.Empty() {
			return &diag.ActionError{Action: "DeclareFunction", Message: "value stack underflow scanning parameter list"}
		}
		if name, ok := s.Values.Peek().(pyast.Name); ok {
			s.Values.Pop()
			args = append(args, name.ID)
			continue
		}
		break
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}

	nameVal, err := s.popValue("DeclareFunction")
	if err != nil {
		return err
	}
	nameConst, ok := nameVal.(pyast.Constant)
	if !ok {
		return &diag.ActionError{Action: "DeclareFunction", Message: "expected function-name Constant beneath parameter list"}
	}
	name, _ := nameConst.Value.(string)

	s.Values.Push(&pyast.FunctionDef{Name: name, Args: args})
	return nil
}

// CreateSelector pushes Assign([Name("selector",Store)], Call(Name("Selector"))).
func CreateSelector(s *Stacks) error {
	s.Values.Push(pyast.Assign{
		Targets: []pyast.Node{pyast.Name{ID: "selector", Ctx: pyast.Store}},
		Value:   pyast.Call{Func: pyast.Name{ID: "Selector", Ctx: pyast.Load}},
	})
	return nil
}

// selectedRecordsLoop builds the
// `for record in selector.getSelected(): <single-stmt body>` wrapper that
// every property-setter and shape-adder action uses.
func selectedRecordsLoop(bodyStmt pyast.Node) *pyast.For {
	return &pyast.For{
		Target: pyast.Name{ID: "record", Ctx: pyast.Store},
		Iter: pyast.Call{
			Func: pyast.Attribute{Value: pyast.Name{ID: "selector", Ctx: pyast.Load}, Attr: "getSelected", Ctx: pyast.Load},
		},
		Body: []pyast.Node{bodyStmt},
	}
}

func recordAttr(attr string) pyast.Node {
	return pyast.Attribute{Value: pyast.Name{ID: "record", Ctx: pyast.Load}, Attr: attr, Ctx: pyast.Load}
}

// vector3Assign builds `record.<attr> = mp.Vector3(...)`, setting axis to
// value and preserving the other two axes by reading them back off the
// record's current `<attr>`.
func vector3Assign(attr, axis string, value pyast.Node) pyast.Node {
	args := make([]pyast.Node, 3)
	for i, a := range []string{"x", "y", "z"} {
		if a == axis {
			args[i] = value
		} else {
			args[i] = pyast.Attribute{Value: recordAttr(attr), Attr: a, Ctx: pyast.Load}
		}
	}
	target := pyast.Attribute{Value: pyast.Name{ID: "record", Ctx: pyast.Load}, Attr: attr, Ctx: pyast.Store}
	return pyast.Assign{
		Targets: []pyast.Node{target},
		Value:   pyast.Call{Func: pyast.Attribute{Value: pyast.Name{ID: "mp", Ctx: pyast.Load}, Attr: "Vector3", Ctx: pyast.Load}, Args: args},
	}
}

// SetProperty pops a value, pops a property-name constant, and emits the
// selected-records loop whose body sets the matching Record attribute:
// "name" sets record.name directly; "x"/"y"/"z" sets record.center via a
// freshly built mp.Vector3 that preserves the other two axes; "x span"/
// "y span"/"z span" does the same against record.size; anything else is
// a Pass plus a diagnostics warning.
func SetProperty(s *Stacks) error {
	value, err := s.popValue("SetProperty")
	if err != nil {
		return err
	}
	nameVal, err := s.popValue("SetProperty")
	if err != nil {
		return err
	}
	nameConst, ok := nameVal.(pyast.Constant)
	if !ok {
		return &diag.ActionError{Action: "SetProperty", Message: "property name is not a literal"}
	}
	propName, _ := nameConst.Value.(string)

	var loopBody pyast.Node
	switch {
	case propName == "name":
		loopBody = pyast.Assign{
			Targets: []pyast.Node{pyast.Attribute{Value: pyast.Name{ID: "record", Ctx: pyast.Load}, Attr: "name", Ctx: pyast.Store}},
			Value:   value,
		}
	case propName == "x" || propName == "y" || propName == "z":
		loopBody = vector3Assign("center", propName, value)
	case strings.HasSuffix(propName, " span") && len(strings.Fields(propName)) == 2 &&
		(strings.HasPrefix(propName, "x") || strings.HasPrefix(propName, "y") || strings.HasPrefix(propName, "z")):
		axis := strings.Fields(propName)[0]
		loopBody = vector3Assign("size", axis, value)
	default:
		loopBody = pyast.Pass{}
		known := util.MakeTextList([]string{"name", "x", "y", "z", "x span", "y span", "z span"})
		s.warn(diag.Position{}, "unrecognized property "+strconv.Quote(propName)+"; expected one of "+known)
	}

	s.Values.Push(selectedRecordsLoop(loopBody))
	return nil
}

func mpAttr(alias, name string) pyast.Node {
	return pyast.Attribute{Value: pyast.Name{ID: alias, Ctx: pyast.Load}, Attr: name, Ctx: pyast.Load}
}

// numConstant renders v as an int literal when it has no fractional part
// (so the common size-1 default prints "1", not "1.0"), else a float.
func numConstant(v float64) pyast.Node {
	if v == float64(int64(v)) {
		return pyast.Constant{Value: int64(v)}
	}
	return pyast.Constant{Value: v}
}

func axisOrDefault(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func vector3Node(alias string, d config.ShapeDefaults) pyast.Node {
	return pyast.Call{
		Func: mpAttr(alias, "Vector3"),
		Args: []pyast.Node{
			numConstant(axisOrDefault(d.SizeX)),
			numConstant(axisOrDefault(d.SizeY)),
			numConstant(axisOrDefault(d.SizeZ)),
		},
	}
}

// shapeAdder is shared plumbing for AddRect/AddFDTD/AddPlane/AddDFTMonitor:
// each emits `selector.add(Record(<type-name>, <alias>.<ctor>(<kwarg>=<alias>.Vector3(...)), True))`
// sized from cfg's per-shape ShapeDefaults (falling back to 1,1,1 for any
// unset axis).
func shapeAdder(alias, typeName, ctor, sizeKwarg string, sizeNode pyast.Node) Func {
	return func(s *Stacks) error {
		call := pyast.Call{Func: mpAttr(alias, ctor)}
		if sizeKwarg != "" {
			call.Keywords = []pyast.Keyword{{Arg: sizeKwarg, Value: sizeNode}}
		}
		record := pyast.Call{
			Func: pyast.Name{ID: "Record", Ctx: pyast.Load},
			Args: []pyast.Node{pyast.Constant{Value: typeName}, call, pyast.Constant{Value: true}},
		}
		s.Values.Push(pyast.Expr{Value: pyast.Call{
			Func: pyast.Attribute{Value: pyast.Name{ID: "selector", Ctx: pyast.Load}, Attr: "add", Ctx: pyast.Load},
			Args: []pyast.Node{record},
		}})
		return nil
	}
}

// sphereAdder mirrors shapeAdder for AddSphere, whose meep constructor
// takes a scalar `radius` kwarg rather than a Vector3 `size`.
func sphereAdder(alias string, radius float64) Func {
	return func(s *Stacks) error {
		record := pyast.Call{
			Func: pyast.Name{ID: "Record", Ctx: pyast.Load},
			Args: []pyast.Node{
				pyast.Constant{Value: "Sphere"},
				pyast.Call{Func: mpAttr(alias, "Sphere"), Keywords: []pyast.Keyword{{Arg: "radius", Value: numConstant(radius)}}},
				pyast.Constant{Value: true},
			},
		}
		s.Values.Push(pyast.Expr{Value: pyast.Call{
			Func: pyast.Attribute{Value: pyast.Name{ID: "selector", Ctx: pyast.Load}, Attr: "add", Ctx: pyast.Load},
			Args: []pyast.Node{record},
		}})
		return nil
	}
}

// AddRect emits selector.add(Record('Rectangle', mp.Block(size=mp.Vector3(1,1,1)), True))
// under the default configuration.
var AddRect = shapeAdder("mp", "Rectangle", "Block", "size", vector3Node("mp", config.ShapeDefaults{}))

// AddFDTD emits selector.add(Record('Simulation', mp.Simulation(cell_size=mp.Vector3(1,1,1)), True)).
var AddFDTD = shapeAdder("mp", "Simulation", "Simulation", "cell_size", vector3Node("mp", config.ShapeDefaults{}))

// AddSphere emits selector.add(Record('Sphere', mp.Sphere(radius=1), True)).
var AddSphere = sphereAdder("mp", 1)

// AddPlane emits selector.add(Record('Plane', mp.Block(size=mp.Vector3(1,1,1)), True)),
// a default-sized Block standing in for a plane since meep has no
// dedicated primitive for one.
var AddPlane = shapeAdder("mp", "Plane", "Block", "size", vector3Node("mp", config.ShapeDefaults{}))

// AddDFTMonitor emits selector.add(Record('DftMonitor', mp.DftObj(), True)).
var AddDFTMonitor = shapeAdder("mp", "DftMonitor", "DftObj", "", nil)

// SelectAll emits selector.selectAll() as an Expr statement.
func SelectAll(s *Stacks) error {
	s.Values.Push(selectorCall("selectAll"))
	return nil
}

// UnselectAll emits selector.unselectAll() as an Expr statement.
func UnselectAll(s *Stacks) error {
	s.Values.Push(selectorCall("unselectAll"))
	return nil
}

func selectorCall(method string, args ...pyast.Node) pyast.Expr {
	return pyast.Expr{Value: pyast.Call{
		Func: pyast.Attribute{Value: pyast.Name{ID: "selector", Ctx: pyast.Load}, Attr: method, Ctx: pyast.Load},
		Args: args,
	}}
}

// Select pops a string constant, emits selector.select(name).
func Select(s *Stacks) error {
	name, err := s.popValue("Select")
	if err != nil {
		return err
	}
	s.Values.Push(selectorCall("select", name))
	return nil
}

// ShiftSelect pops a string constant, emits selector.shiftSelect(name).
func ShiftSelect(s *Stacks) error {
	name, err := s.popValue("ShiftSelect")
	if err != nil {
		return err
	}
	s.Values.Push(selectorCall("shiftSelect", name))
	return nil
}

// Catalogue maps every action name usable in a grammar.Act() symbol to its
// implementation, used by the parser driver to resolve an action symbol
// it pops off the parse stack.
var Catalogue = map[string]Func{
	"StoreFunctionName":     StoreFunctionName,
	"StoreParamName":        StoreParamName,
	"DeclareFunction":       DeclareFunction,
	"StoreToBody":           StoreToBody,
	"StoreToElse":           StoreToElse,
	"StoreLiteralInt":       StoreLiteral("int"),
	"StoreLiteralFloat":     StoreLiteral("float"),
	"StoreLiteralStr":       StoreLiteral("str"),
	"StoreVariableName":     StoreVariableName,
	"AssignToVariable":      AssignToVariable,
	"BinaryOperationAdd":    BinaryOperation(pyast.Add),
	"BinaryOperationSub":    BinaryOperation(pyast.Sub),
	"BinaryOperationMult":   BinaryOperation(pyast.Mult),
	"BinaryOperationDiv":    BinaryOperation(pyast.Div),
	"UnarySubtract":         UnarySubtract,
	"ComparisonEq":          Comparison(pyast.Eq),
	"ComparisonNotEq":       Comparison(pyast.NotEq),
	"ComparisonLt":          Comparison(pyast.Lt),
	"ComparisonLtE":         Comparison(pyast.LtE),
	"ComparisonGt":          Comparison(pyast.Gt),
	"ComparisonGtE":         Comparison(pyast.GtE),
	"LogicOperationAnd":     LogicOperation(pyast.And),
	"LogicOperationOr":      LogicOperation(pyast.Or),
	"If":                    If,
	"HandleElse":            HandleElse,
	"CleanUpElse":           CleanUpElse,
	"CreateEmptyWhile":      CreateEmptyWhile,
	"CreateRangeCondition":  CreateRangeCondition,
	"ExtendRangeCondition":  ExtendRangeCondition,
	"HandleAllLoops":        HandleAllLoops,
	"Break":                 Break,
	"Print":                 Print,
	"Imports":               Imports,
	"CreateSelector":        CreateSelector,
	"SetProperty":           SetProperty,
	"AddRect":               AddRect,
	"AddFDTD":               AddFDTD,
	"AddSphere":             AddSphere,
	"AddPlane":              AddPlane,
	"AddDFTMonitor":         AddDFTMonitor,
	"SelectAll":             SelectAll,
	"UnselectAll":           UnselectAll,
	"Select":                Select,
	"ShiftSelect":           ShiftSelect,
}

// Build constructs a catalogue like Catalogue, but with the meep import
// alias and the AddRect/AddFDTD/AddSphere/AddPlane shape defaults drawn
// from cfg (internal/config) instead of the package defaults. AddDFTMonitor
// takes no size kwarg, so only the alias applies to it; cfg.DFTMonitor is
// not read.
func Build(cfg config.Config) map[string]Func {
	alias := cfg.MeepAlias
	if alias == "" {
		alias = "mp"
	}

	built := make(map[string]Func, len(Catalogue))
	for name, fn := range Catalogue {
		built[name] = fn
	}

	built["Imports"] = importsAction(alias)
	built["AddRect"] = shapeAdder(alias, "Rectangle", "Block", "size", vector3Node(alias, cfg.Rect))
	built["AddFDTD"] = shapeAdder(alias, "Simulation", "Simulation", "cell_size", vector3Node(alias, cfg.FDTD))
	built["AddSphere"] = sphereAdder(alias, axisOrDefault(cfg.Sphere.Radius))
	built["AddPlane"] = shapeAdder(alias, "Plane", "Block", "size", vector3Node(alias, cfg.Plane))
	built["AddDFTMonitor"] = shapeAdder(alias, "DftMonitor", "DftObj", "", nil)

	return built
}
