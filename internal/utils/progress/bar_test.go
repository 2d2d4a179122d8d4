package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_NonInteractivePrintsCompletedTablesOnly(t *testing.T) {
	var out bytes.Buffer
	b := New(&out, false)

	b.Update("transactions", 100, 250)
	b.Update("transactions", 250, 250)
	b.Update("transaction_items", 0, 0)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "transactions")
	assert.Contains(t, lines[0], "100% (250/250)")
}

func TestBar_InteractiveRedrawsInPlace(t *testing.T) {
	var out bytes.Buffer
	b := New(&out, true)

	b.Update("transactions", 50, 100)
	b.Update("transactions", 100, 100)

	assert.Equal(t, 2, strings.Count(out.String(), "\r"))
	assert.True(t, strings.HasSuffix(out.String(), "(100/100)\n"))
}

func TestRender(t *testing.T) {
	line := render("items", 1, 4, 8)
	assert.Contains(t, line, "[██░░░░░░]")
	assert.Contains(t, line, " 25% (1/4)")
}
