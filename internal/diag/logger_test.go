package diag

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Logger_Warn(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	orig := log.Writer()
	origFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(orig)
		log.SetFlags(origFlags)
	}()

	l := NewLogger(false)
	l.Warn([]Warning{{Pos: Position{Line: 3}, Message: "unrecognized property \"bogus\""}})

	assert.Contains(buf.String(), "WARN  ")
	assert.Contains(buf.String(), "line 3")
}

func Test_Logger_DebugSuppressedWhenNotVerbose(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	l := NewLogger(false)
	l.Debugf("should not appear")

	assert.Empty(buf.String())
}
