package lifecycle

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/melih-ucgun/shopsnap/internal/core"
	"github.com/melih-ucgun/shopsnap/internal/state"
)

// printer writes pterm-styled status lines to the context's stdout.
type printer struct {
	w io.Writer
}

func out(ctx *core.SystemContext) printer {
	if ctx.Stdout == nil {
		return printer{w: os.Stdout}
	}
	return printer{w: ctx.Stdout}
}

func (p printer) Info(format string, args ...any) {
	fmt.Fprint(p.w, pterm.Info.Sprintfln(format, args...))
}

func (p printer) Success(format string, args ...any) {
	fmt.Fprint(p.w, pterm.Success.Sprintfln(format, args...))
}

func (p printer) Warn(format string, args ...any) {
	fmt.Fprint(p.w, pterm.Warning.Sprintfln(format, args...))
}

func (p printer) Error(format string, args ...any) {
	fmt.Fprint(p.w, pterm.Error.Sprintfln(format, args...))
}

// DryRun prints an action that would have been executed.
func (p printer) DryRun(format string, args ...any) {
	fmt.Fprintln(p.w, pterm.FgGray.Sprint("[dry-run] ")+fmt.Sprintf(format, args...))
}

func (p printer) Table(data [][]string) {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return
	}
	fmt.Fprintln(p.w, s)
}

// record persists tx unless running dry. A journal failure never fails the command.
func record(ctx *core.SystemContext, h *state.HistoryManager, tx state.Transaction) {
	if ctx.DryRun || !h.Enabled() {
		return
	}
	if err := h.AddTransaction(tx); err != nil {
		out(ctx).Warn("could not write history: %v", err)
	}
}
