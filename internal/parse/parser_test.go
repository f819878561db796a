package parse

import (
	"testing"

	"github.com/dekarrin/lumex/internal/action"
	"github.com/dekarrin/lumex/internal/ll1"
	"github.com/dekarrin/lumex/internal/lex"
	"github.com/dekarrin/lumex/internal/pyast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// translate lexes and parses src with a fresh grammar/table/catalogue,
// failing the test immediately on any error, and returns only the body
// statements that follow the fixed three-statement prologue (the
// `import meep as mp`, `from runtime import Selector, Record`, and
// `selector = Selector()` lines every Module starts with).
func translate(t *testing.T, src string) []pyast.Node {
	t.Helper()

	g := New()
	table, err := ll1.Analyze(g)
	require.NoError(t, err)

	p := Parser{grammar: g, table: table, actions: action.Catalogue}
	stream, err := lex.Tokenize(src)
	require.NoError(t, err)

	module, _, err := p.Parse(stream)
	require.NoError(t, err)
	require.True(t, len(module.Body) >= 3, "expected the 3-statement import/selector prologue")

	return module.Body[3:]
}

func Test_Parser_Prologue(t *testing.T) {
	assert := assert.New(t)

	body := translate(t, "")
	assert.Empty(body, "empty input should parse to just the prologue")
}

func Test_Parser_Assignment(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{name: "positive literal", src: "x = 1;", want: "x = 1"},
		{name: "negative literal", src: "x = -5;", want: "x = -5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			body := translate(t, tc.src)
			assert.Len(body, 1)
			if len(body) == 1 {
				assert.Equal(tc.want, pyast.Print(&pyast.Module{Body: body}))
			}
		})
	}
}

func Test_Parser_IfElifElse(t *testing.T) {
	assert := assert.New(t)

	src := `if (x == 1) {x = 2;} else if (x == 2) {x = 0;} else {x = 1;}`
	want := "if x == 1:\n    x = 2\nelif x == 2:\n    x = 0\nelse:\n    x = 1"

	body := translate(t, src)
	assert.Len(body, 1)
	if len(body) == 1 {
		assert.Equal(want, pyast.Print(&pyast.Module{Body: body}))
	}
}

func Test_Parser_ForLoop_TwoPart(t *testing.T) {
	assert := assert.New(t)

	src := `for(x=1:10) {y=1;}`
	want := "x = 1\nwhile x <= 10:\n    y = 1\n    x += 1"

	body := translate(t, src)
	assert.Equal(want, pyast.Print(&pyast.Module{Body: body}))
}

func Test_Parser_ForLoop_ThreePart_NegativeStep(t *testing.T) {
	assert := assert.New(t)

	src := `for(x=-1:-2:-10) {y=1;}`
	want := "x = -1\nwhile x >= -10:\n    y = 1\n    x += -2"

	body := translate(t, src)
	assert.Equal(want, pyast.Print(&pyast.Module{Body: body}))
}

func Test_Parser_ForLoop_ThreePart_PositiveStep(t *testing.T) {
	assert := assert.New(t)

	src := `for(x=0:2:10) {y=1;}`
	want := "x = 0\nwhile x <= 10:\n    y = 1\n    x += 2"

	body := translate(t, src)
	assert.Equal(want, pyast.Print(&pyast.Module{Body: body}))
}

func Test_Parser_ShapesAndProperties(t *testing.T) {
	assert := assert.New(t)

	src := `addfdtd;
addrect;
set("name","block");
set("x",5);`

	want := `selector.add(Record("Simulation", mp.Simulation(cell_size=mp.Vector3(1, 1, 1)), True))` + "\n" +
		`selector.add(Record("Rectangle", mp.Block(size=mp.Vector3(1, 1, 1)), True))` + "\n" +
		"for record in selector.getSelected():\n" + `    record.name = "block"` + "\n" +
		"for record in selector.getSelected():\n    record.center = mp.Vector3(5, record.center.y, record.center.z)"

	body := translate(t, src)
	assert.Equal(want, pyast.Print(&pyast.Module{Body: body}))
}

func Test_Parser_ChainedComparison(t *testing.T) {
	assert := assert.New(t)

	src := `x = 1 <= 4 < 5 == 2 > 1 >= 1;`

	body := translate(t, src)
	assert.Len(body, 1)
	if len(body) != 1 {
		return
	}
	assign, ok := body[0].(pyast.Assign)
	require.True(t, ok)
	cmp, ok := assign.Value.(pyast.Compare)
	require.True(t, ok)

	assert.Equal([]pyast.CmpOperator{pyast.LtE, pyast.Lt, pyast.Eq, pyast.Gt, pyast.GtE}, cmp.Ops)
	assert.Len(cmp.Comparators, 5)
}

func Test_Parser_FunctionDeclaration(t *testing.T) {
	assert := assert.New(t)

	src := `function doThing(a, b);`

	body := translate(t, src)
	assert.Len(body, 1)
	if len(body) == 1 {
		fn, ok := body[0].(*pyast.FunctionDef)
		require.True(t, ok)
		assert.Equal("doThing", fn.Name)
		assert.Equal([]string{"a", "b"}, fn.Args)
		assert.Empty(fn.Body)
	}
}

func Test_Parser_PrintStatement(t *testing.T) {
	assert := assert.New(t)

	src := "x = 3 + 1;\n?x;"

	body := translate(t, src)
	assert.Len(body, 2)
	if len(body) == 2 {
		assert.Equal("print(x)", pyast.Print(&pyast.Module{Body: body[1:]}))
	}
}

func Test_Parser_MissingTableError(t *testing.T) {
	g := New()
	table, err := ll1.Analyze(g)
	require.NoError(t, err)

	p := Parser{grammar: g, table: table, actions: action.Catalogue}
	stream, err := lex.Tokenize(")")
	require.NoError(t, err)

	_, _, err = p.Parse(stream)
	assert.Error(t, err)
}
