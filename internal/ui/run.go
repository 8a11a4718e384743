package ui

import (
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by
// probing stdout, stderr, and stdin, then falling back to the COLUMNS
// environment variable. If detection fails completely it returns generous
// defaults (120, 24) so non-TTY environments still get a usable layout.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// RunModel starts the Bubble Tea picker over the given tables and blocks
// until the user confirms or cancels. Width/height of 0 auto-detect the
// terminal size. Extra ProgramOptions (e.g. custom IO) can be provided to
// mirror tea.NewProgram.
func RunModel(configs []TableConfig, width, height int, noColor bool, configure func(*Model), opts ...tea.ProgramOption) (*Model, error) {
	m := NewModel(configs, noColor)

	if configure != nil {
		configure(m)
	}

	runW := width
	runH := height
	if runW <= 0 || runH <= 0 {
		w, h := DetectTerminalSize()
		if runW <= 0 {
			runW = w
		}
		if runH <= 0 {
			runH = h
		}
	}
	m.width = runW
	m.height = runH
	m.relayout()
	opts = append(opts, tea.WithWindowSize(runW, runH))

	prog := tea.NewProgram(m, opts...)
	finalModel, err := prog.Run()
	if err != nil {
		return nil, err
	}
	fm, ok := finalModel.(*Model)
	if !ok || fm == nil {
		return m, nil
	}
	return fm, nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
