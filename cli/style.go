package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	colorAccent = lipgloss.Color("#7D56F4")
	colorWarn   = lipgloss.Color("#E06C75")
	colorOK     = lipgloss.Color("#98C379")
	colorDim    = lipgloss.Color("#5C6370")
)

// palette renders styled text when the output is a terminal and plain text otherwise.
type palette struct {
	color    bool
	renderer *lipgloss.Renderer
}

func newPalette(app *App, out io.Writer) palette {
	color := isTerminal(out)
	if app.Color != nil {
		color = *app.Color
	}
	return palette{color: color, renderer: lipgloss.NewRenderer(out)}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p palette) render(s string, style func(lipgloss.Style) lipgloss.Style) string {
	if !p.color {
		return s
	}
	return style(p.renderer.NewStyle()).Render(s)
}

func (p palette) header(s string) string {
	return p.render(s, func(st lipgloss.Style) lipgloss.Style { return st.Bold(true).Foreground(colorAccent) })
}

func (p palette) warn(s string) string {
	return p.render(s, func(st lipgloss.Style) lipgloss.Style { return st.Foreground(colorWarn) })
}

func (p palette) ok(s string) string {
	return p.render(s, func(st lipgloss.Style) lipgloss.Style { return st.Foreground(colorOK) })
}

func (p palette) dim(s string) string {
	return p.render(s, func(st lipgloss.Style) lipgloss.Style { return st.Foreground(colorDim) })
}
