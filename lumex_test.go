package lumex

import (
	"testing"

	"github.com/dekarrin/lumex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Translate_SimpleAssignment(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGrammar("")
	require.NoError(t, err)

	result, err := Translate("x = 1;", g, config.Default())
	require.NoError(t, err)

	assert.Contains(result.Code, "x = 1")
	assert.Contains(result.Code, "import meep as mp")
	assert.NotEmpty(result.Runtime)
	assert.Empty(result.Warnings)
}

func Test_Translate_RespectsConfiguredAlias(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGrammar("")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.MeepAlias = "meep"
	cfg.WriteRuntime = false

	result, err := Translate("addfdtd;", g, cfg)
	require.NoError(t, err)

	assert.Contains(result.Code, "import meep")
	assert.Contains(result.Code, "meep.Simulation")
	assert.Empty(result.Runtime)
}

func Test_Translate_LexicalError(t *testing.T) {
	g, err := NewGrammar("")
	require.NoError(t, err)

	_, err = Translate("x = @;", g, config.Default())
	assert.Error(t, err)
}

func Test_Translate_UnrecognizedPropertyWarns(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGrammar("")
	require.NoError(t, err)

	result, err := Translate(`set("bogus", 1);`, g, config.Default())
	require.NoError(t, err)
	assert.Len(result.Warnings, 1)
}
