package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJSONCarriesAppField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json")
	log.Info().Msg("refresh complete")
	assert.Contains(t, buf.String(), `"app":"opsdash"`)
	assert.Contains(t, buf.String(), `"message":"refresh complete"`)
}

func TestNewConsoleIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text")
	log.Info().Msg("refresh complete")
	out := buf.String()
	assert.Contains(t, out, "refresh complete")
	assert.NotContains(t, out, `"message"`)
}
