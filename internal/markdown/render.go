// Package markdown renders markdown documents for the terminal in the colors
// and direction of a resolved theme.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/iiroan/prism/internal/theme"
)

const defaultWidth = 80

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap width. Values below 20 are raised to 20.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		r.width = max(width, 20)
	}
}

// WithNoColor renders with text attributes only.
func WithNoColor(noColor bool) Option {
	return func(r *Renderer) {
		r.noColor = noColor
	}
}

// Renderer turns markdown into styled terminal text.
type Renderer struct {
	md      goldmark.Markdown
	theme   theme.Resolved
	width   int
	noColor bool
	styles  styles
}

type styles struct {
	h1, h2, h3, h4, h5 lipgloss.Style
	body               lipgloss.Style
	code               lipgloss.Style
	codeBlock          lipgloss.Style
	quote              lipgloss.Style
	marker             lipgloss.Style
	link               lipgloss.Style
	rule               lipgloss.Style
}

// NewRenderer returns a renderer for resolved.
func NewRenderer(resolved theme.Resolved, opts ...Option) *Renderer {
	r := &Renderer{
		md:    goldmark.New(),
		theme: resolved,
		width: defaultWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.styles = newStyles(resolved.Colors, r.noColor)
	return r
}

func newStyles(s theme.Swatch, noColor bool) styles {
	fg := func(style lipgloss.Style, c lipgloss.Color) lipgloss.Style {
		if noColor {
			return style
		}
		return style.Foreground(c)
	}
	return styles{
		// Heading levels follow the typography scale: title, subtitle,
		// heading, caption, then bold body text.
		h1:   fg(lipgloss.NewStyle().Bold(true), s.Primary),
		h2:   fg(lipgloss.NewStyle().Italic(true), s.Secondary),
		h3:   fg(lipgloss.NewStyle().Bold(true), s.Accent),
		h4:   fg(lipgloss.NewStyle().Faint(true), s.Muted),
		h5:   fg(lipgloss.NewStyle().Bold(true), s.Foreground),
		body: fg(lipgloss.NewStyle(), s.Foreground),
		code: fg(lipgloss.NewStyle(), s.Info),
		codeBlock: fg(lipgloss.NewStyle(), s.Info).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(s.Border).
			PaddingLeft(1),
		quote: fg(lipgloss.NewStyle().Italic(true), s.Muted).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(s.Accent).
			PaddingLeft(1),
		marker: fg(lipgloss.NewStyle(), s.Accent),
		link:   fg(lipgloss.NewStyle().Underline(true), s.Highlight),
		rule:   fg(lipgloss.NewStyle(), s.Border),
	}
}

// Render renders src. Blocks are separated by blank lines and start at the
// theme's start edge.
func (r *Renderer) Render(src []byte) string {
	doc := r.md.Parser().Parse(text.NewReader(src))
	blocks := r.blocks(doc, src, r.width)
	for i, block := range blocks {
		blocks[i] = r.align(block)
	}
	return strings.Join(blocks, "\n\n")
}

func (r *Renderer) align(block string) string {
	if r.theme.AlignStart == lipgloss.Left {
		return block
	}
	return lipgloss.NewStyle().Width(r.width).Align(r.theme.AlignStart).Render(block)
}

func (r *Renderer) blocks(parent ast.Node, src []byte, width int) []string {
	var out []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s, ok := r.block(c, src, width); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *Renderer) block(n ast.Node, src []byte, width int) (string, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		return ansi.Wordwrap(r.inline(v, src, r.headingStyle(v.Level)), width, ""), true
	case *ast.Paragraph, *ast.TextBlock:
		return ansi.Wordwrap(r.inline(n, src, r.styles.body), width, ""), true
	case *ast.List:
		return r.list(v, src, width), true
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return r.styles.codeBlock.Render(codeText(n, src)), true
	case *ast.Blockquote:
		inner := r.blocks(v, src, max(width-2, 10))
		return r.styles.quote.Render(strings.Join(inner, "\n\n")), true
	case *ast.ThematicBreak:
		return r.styles.rule.Render(strings.Repeat("─", width)), true
	}
	return "", false
}

func (r *Renderer) headingStyle(level int) lipgloss.Style {
	switch level {
	case 1:
		return r.styles.h1
	case 2:
		return r.styles.h2
	case 3:
		return r.styles.h3
	case 4:
		return r.styles.h4
	default:
		return r.styles.h5
	}
}

func (r *Renderer) list(l *ast.List, src []byte, width int) string {
	var items []string
	i := 0
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "•"
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d.", l.Start+i)
		}
		indent := ansi.StringWidth(marker) + 1
		body := strings.Join(r.blocks(c, src, max(width-indent, 10)), "\n")

		lines := strings.Split(body, "\n")
		for j, line := range lines {
			switch {
			case j == 0:
				lines[j] = r.styles.marker.Render(marker) + " " + line
			case line != "":
				lines[j] = strings.Repeat(" ", indent) + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
		i++
	}
	sep := "\n"
	if !l.IsTight {
		sep = "\n\n"
	}
	return strings.Join(items, sep)
}

func (r *Renderer) inline(n ast.Node, src []byte, base lipgloss.Style) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.WriteString(base.Render(string(v.Segment.Value(src))))
			switch {
			case v.HardLineBreak():
				b.WriteString("\n")
			case v.SoftLineBreak():
				b.WriteString(" ")
			}
		case *ast.String:
			b.WriteString(base.Render(string(v.Value)))
		case *ast.CodeSpan:
			b.WriteString(r.styles.code.Render(plainText(v, src)))
		case *ast.Emphasis:
			style := base.Italic(true)
			if v.Level >= 2 {
				style = base.Bold(true)
			}
			b.WriteString(r.inline(v, src, style))
		case *ast.Link:
			b.WriteString(r.inline(v, src, r.styles.link))
		case *ast.AutoLink:
			b.WriteString(r.styles.link.Render(string(v.URL(src))))
		case *ast.RawHTML:
		default:
			b.WriteString(r.inline(c, src, base))
		}
	}
	return b.String()
}

func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
		case *ast.String:
			b.Write(v.Value)
		default:
			b.WriteString(plainText(c, src))
		}
	}
	return b.String()
}

func codeText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Title returns the text of the first level-one heading, or "".
func Title(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = plainText(h, src)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
