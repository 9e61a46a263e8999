package mapeditor

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

// insightPanel holds the last insight result and its rendering.
type insightPanel struct {
	loading bool
	result  *insights.Result

	// rendered caches the markdown for one wrap width.
	rendered      string
	renderedWidth int
	renderedDark  bool
}

func (p *insightPanel) set(r insights.Result) {
	p.loading = false
	p.result = &r
	p.rendered, p.renderedWidth = "", 0
}

// markdown is the panel body before rendering. Errors are shown as-is.
func (p *insightPanel) markdown() string {
	if p.result == nil {
		return ""
	}
	if p.result.Err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.result.Text)
	if t := p.result.Technique; t != nil {
		b.WriteString("\n\n")
		b.WriteString(t.Markdown())
	}
	return b.String()
}

// view renders the result for width, falling back to plain text if the
// markdown renderer fails.
func (p *insightPanel) view(width int) string {
	if p.result == nil {
		return ""
	}
	if p.result.Err != nil {
		return theme.Danger.Render(p.result.Err.Error())
	}
	if p.rendered != "" && p.renderedWidth == width && p.renderedDark == theme.IsDark() {
		return p.rendered
	}

	md := p.markdown()
	style := "light"
	if theme.IsDark() {
		style = "dark"
	}
	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(20, width)),
	)
	if err == nil {
		if s, err := r.Render(md); err == nil {
			out = strings.Trim(s, "\n")
		}
	}
	p.rendered, p.renderedWidth, p.renderedDark = out, width, theme.IsDark()
	return out
}
