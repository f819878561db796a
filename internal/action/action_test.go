package action

import (
	"testing"

	"github.com/dekarrin/lumex/internal/config"
	"github.com/dekarrin/lumex/internal/diag"
	"github.com/dekarrin/lumex/internal/pyast"
	"github.com/dekarrin/lumex/internal/token"
	"github.com/dekarrin/lumex/internal/util"
	"github.com/stretchr/testify/assert"
)

func newStacks() *Stacks {
	return &Stacks{
		Values:   &util.Stack[pyast.Node]{},
		Tokens:   &util.Stack[token.Token]{},
		Warnings: &[]diag.Warning{},
	}
}

// assignNode builds the Assign a for-loop's initial "x = start;" leaves on
// the value stack, the same shape AssignToVariable produces.
func assignNode(target string, start int64) pyast.Assign {
	return pyast.Assign{
		Targets: []pyast.Node{pyast.Name{ID: target, Ctx: pyast.Store}},
		Value:   pyast.Constant{Value: start},
	}
}

func Test_CreateRangeCondition(t *testing.T) {
	testCases := []struct {
		name        string
		assign      pyast.Assign
		end         pyast.Node
		expectOp    pyast.CmpOperator
		expectIncOp pyast.BinOperator
	}{
		{
			name:        "for x=0:10",
			assign:      assignNode("x", 0),
			end:         pyast.Constant{Value: int64(10)},
			expectOp:    pyast.LtE,
			expectIncOp: pyast.Add,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := newStacks()
			// Push order mirrors ForStmt's production: Assign, then the
			// placeholder While from CreateEmptyWhile, then the end Expr.
			s.Values.Push(tc.assign)
			s.Values.Push(&pyast.While{})
			s.Values.Push(tc.end)

			err := CreateRangeCondition(s)
			assert.NoError(err)

			// Stack should now be (bottom to top) Assign, Increment, While.
			assert.Equal(3, s.Values.Len())
			whileNode, ok := s.Values.Pop().(*pyast.While)
			assert.True(ok, "top of stack should be *pyast.While")
			if ok {
				cmp, ok := whileNode.Test.(pyast.Compare)
				assert.True(ok, "While.Test should be a Compare")
				if ok {
					assert.Equal([]pyast.CmpOperator{tc.expectOp}, cmp.Ops)
				}
			}

			increment, ok := s.Values.Pop().(pyast.AugAssign)
			assert.True(ok, "second-from-top should be the increment AugAssign")
			if ok {
				assert.Equal(tc.expectIncOp, increment.Op)
			}

			assignBack, ok := s.Values.Pop().(pyast.Assign)
			assert.True(ok, "bottom should be the original Assign")
			if ok {
				assert.Equal(tc.assign, assignBack)
			}
		})
	}
}

func Test_ExtendRangeCondition(t *testing.T) {
	testCases := []struct {
		name     string
		step     pyast.Node
		expectOp pyast.CmpOperator
	}{
		{
			name:     "positive step uses <=",
			step:     pyast.Constant{Value: int64(2)},
			expectOp: pyast.LtE,
		},
		{
			name:     "negative literal step uses >=",
			step:     pyast.UnaryOp{Op: pyast.USub, Operand: pyast.Constant{Value: int64(1)}},
			expectOp: pyast.GtE,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			s := newStacks()
			assign := assignNode("i", 0)
			// Push order mirrors the start:step:end ForStep alternative:
			// Assign, placeholder While, step Expr, end Expr. Note
			// CreateRangeCondition never runs on this path.
			s.Values.Push(assign)
			s.Values.Push(&pyast.While{})
			s.Values.Push(tc.step)
			s.Values.Push(pyast.Constant{Value: int64(10)})

			err := ExtendRangeCondition(s)
			assert.NoError(err)
			assert.Equal(3, s.Values.Len())

			whileNode, ok := s.Values.Pop().(*pyast.While)
			assert.True(ok, "top of stack should be *pyast.While")
			if ok {
				cmp, ok := whileNode.Test.(pyast.Compare)
				assert.True(ok)
				if ok {
					assert.Equal([]pyast.CmpOperator{tc.expectOp}, cmp.Ops)
				}
			}

			increment, ok := s.Values.Pop().(pyast.AugAssign)
			assert.True(ok, "second-from-top should be the increment AugAssign")
			if ok {
				assert.Equal(tc.step, increment.Value)
			}

			assignBack, ok := s.Values.Pop().(pyast.Assign)
			assert.True(ok, "bottom should be the original Assign")
			if ok {
				assert.Equal(assign, assignBack)
			}
		})
	}
}

func Test_HandleAllLoops(t *testing.T) {
	assert := assert.New(t)

	s := newStacks()
	module := &pyast.Module{}
	assign := assignNode("x", 0)
	increment := pyast.AugAssign{
		Target: pyast.Name{ID: "x", Ctx: pyast.Load},
		Op:     pyast.Add,
		Value:  pyast.Constant{Value: int64(1)},
	}
	whileNode := &pyast.While{Test: pyast.Compare{
		Left:        pyast.Name{ID: "x", Ctx: pyast.Load},
		Ops:         []pyast.CmpOperator{pyast.LtE},
		Comparators: []pyast.Node{pyast.Constant{Value: int64(10)}},
	}}

	// Push order: the enclosing container, then the Assign, Increment,
	// While left by CreateRangeCondition/ExtendRangeCondition (While on
	// top), matching what the ForStmt production leaves once its body has
	// parsed.
	s.Values.Push(module)
	s.Values.Push(assign)
	s.Values.Push(increment)
	s.Values.Push(whileNode)

	err := HandleAllLoops(s)
	assert.NoError(err)

	// Exactly one pending statement (the While) should remain, ready for
	// the enclosing StmtList's StoreToBody to attach it alongside the
	// container it already appended the Assign to.
	assert.Equal(2, s.Values.Len())

	pending, ok := s.Values.Pop().(*pyast.While)
	assert.True(ok, "top of stack should be the While, pending attachment")
	if ok {
		assert.Len(pending.Body, 1, "increment should have been folded into the While body")
	}

	containerBack, ok := s.Values.Pop().(*pyast.Module)
	assert.True(ok, "container should be pushed back beneath the pending While")
	if ok {
		assert.Equal([]pyast.Node{assign}, containerBack.Body, "Assign should already be attached to the container")
	}
}

func Test_StoreToBody(t *testing.T) {
	assert := assert.New(t)

	s := newStacks()
	module := &pyast.Module{}
	stmt := pyast.Expr{Value: pyast.Constant{Value: int64(1)}}

	s.Values.Push(module)
	s.Values.Push(stmt)

	err := StoreToBody(s)
	assert.NoError(err)
	assert.Equal(1, s.Values.Len())

	back, ok := s.Values.Pop().(*pyast.Module)
	assert.True(ok)
	if ok {
		assert.Equal([]pyast.Node{stmt}, back.Body)
	}
}

func Test_Print(t *testing.T) {
	assert := assert.New(t)

	s := newStacks()
	s.Values.Push(pyast.Name{ID: "x", Ctx: pyast.Load})

	err := Print(s)
	assert.NoError(err)
	assert.Equal(1, s.Values.Len())

	stmt, ok := s.Values.Pop().(pyast.Expr)
	assert.True(ok)
	if ok {
		call, ok := stmt.Value.(pyast.Call)
		assert.True(ok)
		if ok {
			assert.Equal(pyast.Name{ID: "print", Ctx: pyast.Load}, call.Func)
			assert.Equal([]pyast.Node{pyast.Name{ID: "x", Ctx: pyast.Load}}, call.Args)
		}
	}
}

func Test_DeclareFunction(t *testing.T) {
	assert := assert.New(t)

	s := newStacks()
	s.Values.Push(pyast.Constant{Value: "doThing"})
	s.Values.Push(pyast.Name{ID: "a", Ctx: pyast.Load})
	s.Values.Push(pyast.Name{ID: "b", Ctx: pyast.Load})

	err := DeclareFunction(s)
	assert.NoError(err)
	assert.Equal(1, s.Values.Len())

	fn, ok := s.Values.Pop().(*pyast.FunctionDef)
	assert.True(ok)
	if ok {
		assert.Equal("doThing", fn.Name)
		assert.Equal([]string{"a", "b"}, fn.Args)
	}
}

func Test_Comparison_ChainsSameNode(t *testing.T) {
	assert := assert.New(t)

	s := newStacks()
	s.Values.Push(pyast.Name{ID: "a", Ctx: pyast.Load})
	s.Values.Push(pyast.Name{ID: "b", Ctx: pyast.Load})
	assert.NoError(Comparison(pyast.Lt)(s))

	s.Values.Push(pyast.Name{ID: "c", Ctx: pyast.Load})
	assert.NoError(Comparison(pyast.Lt)(s))

	chain, ok := s.Values.Pop().(pyast.Compare)
	assert.True(ok)
	if ok {
		assert.Equal([]pyast.CmpOperator{pyast.Lt, pyast.Lt}, chain.Ops)
		assert.Len(chain.Comparators, 2)
	}
}

func Test_SetProperty_UnrecognizedWarns(t *testing.T) {
	assert := assert.New(t)

	s := newStacks()
	s.Values.Push(pyast.Constant{Value: "bogus"})
	s.Values.Push(pyast.Constant{Value: int64(5)})

	err := SetProperty(s)
	assert.NoError(err)
	assert.Len(*s.Warnings, 1)

	loop, ok := s.Values.Pop().(*pyast.For)
	assert.True(ok)
	if ok {
		_, isPass := loop.Body[0].(pyast.Pass)
		assert.True(isPass)
	}
}

func Test_Build_UsesConfiguredAlias(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.MeepAlias = "meep"
	built := Build(cfg)

	s := newStacks()
	s.Values.Push(&pyast.Module{})
	assert.NoError(built["AddFDTD"](s))

	stmt, ok := s.Values.Pop().(pyast.Expr)
	assert.True(ok)
	if ok {
		call, ok := stmt.Value.(pyast.Call)
		assert.True(ok)
		if ok {
			record, ok := call.Args[0].(pyast.Call)
			assert.True(ok)
			if ok {
				sim, ok := record.Args[1].(pyast.Call)
				assert.True(ok)
				if ok {
					attr, ok := sim.Func.(pyast.Attribute)
					assert.True(ok)
					if ok {
						name, ok := attr.Value.(pyast.Name)
						assert.True(ok)
						if ok {
							assert.Equal("meep", name.ID)
						}
					}
				}
			}
		}
	}
}
