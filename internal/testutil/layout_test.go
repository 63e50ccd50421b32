package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLayout(t *testing.T) {
	l := ParseLayout(t,
		"B..",
		"AAB",
	)

	assert.Equal(t, 3, l.Width)
	assert.Equal(t, 2, l.Height)

	// Bottom row is read first, so A gets id 1.
	assert.Equal(t, 1, l.ID('A'))
	assert.Equal(t, 2, l.ID('B'))
	assert.Equal(t, -1, l.ID('Z'))

	assert.Equal(t, 1, l.Owner(0, 0))
	assert.Equal(t, 2, l.Owner(2, 0))
	assert.Equal(t, 2, l.Owner(0, 1))
	assert.Equal(t, -1, l.Owner(1, 1))

	assert.Equal(t, [][2]int{{0, 0}, {1, 0}}, l.Cells('A'))
	assert.Equal(t, [][2]int{{2, 0}, {0, 1}}, l.Cells('B'))
	assert.Equal(t, []rune{'A', 'B'}, l.Labels())
}
