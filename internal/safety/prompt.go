package safety

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Confirmer asks the operator to approve an irreversible action.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Options carries the global safety flags.
type Options struct {
	DryRun bool
	Yes    bool
}

// DefaultTokens are the answers accepted as affirmative.
var DefaultTokens = []string{"yes", "y"}

// TokenConfirmer reads one line from In and approves only when it exactly
// matches one of Tokens (case-insensitive, surrounding space ignored).
// EOF without an answer is a refusal.
type TokenConfirmer struct {
	In     io.Reader
	Out    io.Writer
	Tokens []string
}

func (c *TokenConfirmer) Confirm(question string) (bool, error) {
	tokens := c.Tokens
	if len(tokens) == 0 {
		tokens = DefaultTokens
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s [%s/N]: ", strings.TrimSpace(question), tokens[0])
	}
	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	ans := strings.TrimSpace(strings.ToLower(line))
	for _, tok := range tokens {
		if ans == strings.ToLower(tok) {
			return true, nil
		}
	}
	return false, nil
}

// InteractiveConfirmer shows a single-key y/N prompt on a terminal.
type InteractiveConfirmer struct{}

func (InteractiveConfirmer) Confirm(question string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(strings.TrimSpace(question))
}

// AutoConfirmer approves everything. Selected by --yes.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) (bool, error) {
	return true, nil
}

// Static answers every question with Answer. Meant for tests and scripted runs.
type Static struct {
	Answer bool
	Asked  []string
}

func (s *Static) Confirm(question string) (bool, error) {
	s.Asked = append(s.Asked, question)
	return s.Answer, nil
}

// New picks the confirmer for the given options: --yes approves without
// asking, a terminal gets the interactive prompt, anything else must type a token.
func New(opts Options, in io.Reader, out io.Writer) Confirmer {
	if opts.Yes {
		return AutoConfirmer{}
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return InteractiveConfirmer{}
	}
	return &TokenConfirmer{In: in, Out: out}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
