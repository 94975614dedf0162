package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/xpbridge/dispatch"
	"github.com/wippyai/xpbridge/schema"
	"github.com/wippyai/xpbridge/value"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)
)

// printer writes results, styling them only when w is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.styled = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) value(name string, v value.Value) {
	fmt.Fprintf(p.w, "%s = %s\n", p.render(mutedStyle, name), p.render(successStyle, v.String()))
}

func (p *printer) result(res *dispatch.Result) {
	if res.HasReturn {
		p.value("return", res.Return)
	}
	for i, name := range res.Names {
		p.value(name, res.Outputs[i].Value)
	}
	if !res.HasReturn && len(res.Names) == 0 {
		fmt.Fprintln(p.w, p.render(mutedStyle, "ok"))
	}
}

// members lists every interface in the chains of ifaces, most derived
// first.
func (p *printer) members(r *schema.Resolver, ifaces []string) {
	seen := make(map[string]bool)
	for _, name := range ifaces {
		for iface, ok := r.Interface(name); ok && !seen[iface.Name]; iface, ok = r.Interface(iface.Parent) {
			seen[iface.Name] = true
			p.iface(iface)
		}
	}
}

func (p *printer) iface(iface *schema.Interface) {
	header := p.render(titleStyle, iface.Name) + " " + p.render(mutedStyle, "{"+iface.IID.String()+"}")
	if iface.Parent != "" {
		header += p.render(mutedStyle, " : "+iface.Parent)
	}
	fmt.Fprintln(p.w, header)

	for _, name := range slices.Sorted(slices.Values(iface.ConstantNames())) {
		c, _ := iface.Constant(name)
		fmt.Fprintf(p.w, "  const %s %s = %v\n", c.Type, name, c.Value)
	}
	for _, name := range slices.Sorted(slices.Values(iface.AttributeNames())) {
		a, _ := iface.Attribute(name)
		prefix := "attr"
		if a.ReadOnly {
			prefix = "readonly attr"
		}
		fmt.Fprintf(p.w, "  %s %s %s\n", prefix, a.Type, name)
	}
	for _, name := range slices.Sorted(slices.Values(iface.MethodNames())) {
		sig, _ := iface.Method(name)
		fmt.Fprintf(p.w, "  %s\n", formatSignature(sig))
	}
}

func formatSignature(sig *schema.Signature) string {
	var b strings.Builder
	ret := "void"
	b.WriteString(sig.Name)
	b.WriteByte('(')
	first := true
	for i, p := range sig.Params {
		if p.Retval {
			ret = p.Type.String()
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		if p.Optional {
			b.WriteString("[optional] ")
		}
		if sig.IsSize(i) {
			b.WriteString("[size] ")
		}
		fmt.Fprintf(&b, "%s %s %s", p.Direction, p.Type, p.Name)
	}
	b.WriteString(") -> ")
	b.WriteString(ret)
	return b.String()
}
