// Package output renders command results for terminals, markdown consumers
// and machines.
//
// ModeAuto picks styled text when stdout is a terminal and markdown
// otherwise, so piped output stays free of ANSI escape codes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists the accepted mode names.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeYAML)}
}

// Renderer writes results to an output stream and notices to an error stream.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	mode    Mode
	isTTY   bool
	styles  *Styles
	printer *message.Printer
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	lr := lipgloss.NewRenderer(out)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:     out,
		errOut:  errOut,
		mode:    mode,
		isTTY:   isTTY,
		styles:  NewStyles(lr),
		printer: message.NewPrinter(language.English),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Header writes a heading: styled in text mode, "#" prefixed otherwise.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		style := r.styles.Header
		if level > 1 {
			style = r.styles.Subheader
		}
		r.Println(style.Render(text))
		return
	}
	r.Println(FormatHeader(level, text))
	r.Println()
}

// KeyValue writes one labelled value.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeText {
		r.Println("  " + r.styles.Key.Render(key+":") + " " + value)
		return
	}
	r.Println(FormatKeyValue(key, value))
}

// Muted writes de-emphasized text.
func (r *Renderer) Muted(text string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Muted.Render(text))
		return
	}
	r.Println("_" + text + "_")
}

// Success writes a notice to the error stream.
func (r *Renderer) Success(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Success.Render(text))
}

// Warning writes a warning to the error stream.
func (r *Renderer) Warning(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render(text))
}

// Table writes rows under a header: a box-drawn table in text mode, a
// markdown table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
		return
	}
	r.Println(t.RenderMarkdown())
	r.Println()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Int formats n with thousands separators.
func (r *Renderer) Int(n int) string {
	return r.printer.Sprintf("%d", n)
}

// Float formats f with thousands separators and the given decimals.
func (r *Renderer) Float(f float64, decimals int) string {
	return r.printer.Sprintf("%.*f", decimals, f)
}
