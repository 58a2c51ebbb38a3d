package safety

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenConfirmer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "yes\n", want: true},
		{name: "y", input: "y\n", want: true},
		{name: "Upper case", input: "YES\n", want: true},
		{name: "Padded", input: "  yes  \n", want: true},
		{name: "No newline before EOF", input: "yes", want: true},
		{name: "no", input: "no\n", want: false},
		{name: "Empty line", input: "\n", want: false},
		{name: "EOF", input: "", want: false},
		{name: "Prefix is not enough", input: "yess\n", want: false},
		{name: "Sentence", input: "yes please\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &TokenConfirmer{In: strings.NewReader(tt.input), Out: &out}
			got, err := c.Confirm("Delete 3 subvolumes?")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Delete 3 subvolumes? [yes/N]: ", out.String())
		})
	}
}

func TestTokenConfirmer_CustomTokens(t *testing.T) {
	c := &TokenConfirmer{In: strings.NewReader("DELETE\n"), Tokens: []string{"delete"}}
	ok, err := c.Confirm("Type delete to continue")
	assert.NoError(t, err)
	assert.True(t, ok)

	c = &TokenConfirmer{In: strings.NewReader("yes\n"), Tokens: []string{"delete"}}
	ok, _ = c.Confirm("Type delete to continue")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	assert.IsType(t, AutoConfirmer{}, New(Options{Yes: true}, strings.NewReader(""), nil))
	assert.IsType(t, &TokenConfirmer{}, New(Options{}, strings.NewReader(""), nil))
}

func TestStatic(t *testing.T) {
	s := &Static{Answer: true}
	ok, err := s.Confirm("q1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"q1"}, s.Asked)
}
