package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_KeepsText(t *testing.T) {
	out := Render("# Loops\n\nUse `for` to repeat code.")

	assert.Contains(t, out, "Loops")
	assert.Contains(t, out, "repeat code")
}

