package mapeditor

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/questionbank"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/scoring"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeLabel
	modeDescription
	modeRename
	modeLink
)

const (
	moveStep  = 20.0
	panStep   = 40.0
	scoreStep = 5
	sideWidth = 34
)

// EditorScreen edits one focus map on a character canvas.
type EditorScreen struct {
	deps   *screen.Deps
	editor *focusmap.Editor
	report *scoring.Report
	view   focusmap.Viewport

	mode     mode
	input    components.Field
	linkFrom string

	saving       bool
	confirmLeave bool
	notice       string

	insight insightPanel
	spinner spinner.Model
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)
var _ screen.InputCapturer = (*EditorScreen)(nil)

// New opens m for editing. A nil map is generated from rep, or blank
// when rep is nil too.
func New(deps *screen.Deps, m *focusmap.Map, rep *scoring.Report, opts ...focusmap.EditorOption) *EditorScreen {
	if m == nil {
		if rep != nil {
			m = focusmap.Generate(rep)
		} else {
			m = focusmap.Blank()
		}
	}
	s := &EditorScreen{
		deps:    deps,
		editor:  focusmap.NewEditor(m, opts...),
		report:  rep,
		view:    focusmap.NewViewport(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.editor.Select(focusmap.CenterID)
	return s
}

func (s *EditorScreen) Init() tea.Cmd {
	if s.report != nil {
		return nil
	}
	uid := s.deps.UID()
	return func() tea.Msg {
		return reportLoadedMsg{Report: s.deps.Store.Read(context.Background(), uid)}
	}
}

func (s *EditorScreen) Title() string {
	name := s.editor.Map().Name
	if s.editor.Dirty() {
		name += " •"
	}
	return name
}

func (s *EditorScreen) RequiresAuth() bool { return true }

func (s *EditorScreen) CapturingInput() bool {
	return s.mode == modeLabel || s.mode == modeDescription || s.mode == modeRename
}

// Editor exposes the editing state.
func (s *EditorScreen) Editor() *focusmap.Editor { return s.editor }

func (s *EditorScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeLabel, modeDescription, modeRename:
		return []layout.KeyHint{{Key: "Enter", Description: "Apply"}, {Key: "Esc", Description: "Cancel"}}
	case modeLink:
		return []layout.KeyHint{{Key: "Tab", Description: "Pick node"}, {Key: "Enter", Description: "Toggle link"}, {Key: "Esc", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Select"},
		{Key: "←↑↓→", Description: "Move"},
		{Key: "a", Description: "Add"},
		{Key: "e/d", Description: "Label/Desc"},
		{Key: "l", Description: "Link"},
		{Key: "s", Description: "Save"},
		{Key: "i", Description: "Insights"},
		{Key: "?", Description: "More"},
	}
}

func (s *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if s.report == nil {
			s.report = msg.Report
		}
		return s, nil

	case savedMsg:
		s.saving = false
		if msg.Err != nil {
			s.notice = "Save failed: " + msg.Err.Error()
			return s, nil
		}
		s.editor.MarkSaved(msg.ID, msg.At, msg.Rev)
		s.notice = ""
		return s, screen.Status("Map saved")

	case insightMsg:
		s.insight.set(msg.Result)
		return s, nil

	case spinner.TickMsg:
		if !s.insight.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch s.mode {
		case modeLabel, modeDescription, modeRename:
			return s, s.updateInput(msg)
		case modeLink:
			return s, s.updateLink(msg)
		}
		return s.updateNormal(msg)
	}

	if s.CapturingInput() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *EditorScreen) updateNormal(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key != "esc" {
		s.confirmLeave = false
	}
	s.notice = ""

	switch key {
	case "esc":
		if s.insight.result != nil || s.insight.loading {
			s.insight = insightPanel{}
			return s, nil
		}
		if s.editor.Dirty() && !s.confirmLeave {
			s.confirmLeave = true
			s.notice = "Unsaved changes. Press esc again to leave."
			return s, nil
		}
		return s, router.Pop()
	case "tab":
		s.cycle(1)
	case "shift+tab":
		s.cycle(-1)
	case "up":
		s.move(0, -moveStep)
	case "down":
		s.move(0, moveStep)
	case "left":
		s.move(-moveStep, 0)
	case "right":
		s.move(moveStep, 0)
	case "H":
		s.view.Pan(panStep, 0)
	case "L":
		s.view.Pan(-panStep, 0)
	case "K":
		s.view.Pan(0, panStep)
	case "J":
		s.view.Pan(0, -panStep)
	case "+", "=":
		s.view.ZoomIn()
	case "-":
		s.view.ZoomOut()
	case "0":
		s.view.Reset()
	case "a":
		_, _ = s.editor.AddNode(focusmap.KindTask)
	case "t":
		s.cycleKind()
	case "c":
		s.cycleCategory()
	case "[":
		s.adjustScore(-scoreStep)
	case "]":
		s.adjustScore(scoreStep)
	case "x", "delete":
		if n := s.editor.Selected(); n != nil {
			_ = s.editor.DeleteNode(n.ID)
		}
	case "e":
		return s, s.startInput(modeLabel)
	case "d":
		return s, s.startInput(modeDescription)
	case "r":
		return s, s.startInput(modeRename)
	case "l":
		if n := s.editor.Selected(); n != nil {
			s.mode = modeLink
			s.linkFrom = n.ID
			s.cycle(1)
		}
	case "s", "ctrl+s":
		return s, s.save()
	case "i":
		return s, s.requestInsight()
	case "?":
		s.notice = "H/J/K/L pan  +/- zoom  0 reset  t kind  c category  [ ] score  x delete  r rename"
	}
	return s, nil
}

// cycle moves the selection through nodes in map order.
func (s *EditorScreen) cycle(dir int) {
	nodes := s.editor.Map().Nodes
	if len(nodes) == 0 {
		return
	}
	idx := -1
	for i, n := range nodes {
		if n.ID == s.editor.SelectedID() {
			idx = i
			break
		}
	}
	next := (idx + dir + len(nodes)) % len(nodes)
	if idx < 0 && dir < 0 {
		next = len(nodes) - 1
	}
	if nodes[next].ID != s.editor.SelectedID() {
		s.editor.Select(nodes[next].ID)
	}
}

func (s *EditorScreen) move(dx, dy float64) {
	n := s.editor.Selected()
	if n == nil {
		return
	}
	pos := focusmap.Position{X: n.Position.X + dx, Y: n.Position.Y + dy}
	if err := s.editor.MoveNode(n.ID, pos); err != nil {
		s.notice = "The center node cannot be moved."
	}
}

func (s *EditorScreen) cycleKind() {
	n := s.editor.Selected()
	if n == nil {
		return
	}
	kinds := focusmap.AllKinds()
	next := kinds[0]
	for i, k := range kinds {
		if k == n.Kind {
			next = kinds[(i+1)%len(kinds)]
		}
	}
	_ = s.editor.UpdateNode(n.ID, focusmap.NodePatch{Kind: &next})
}

// cycleCategory steps through none and the five categories.
func (s *EditorScreen) cycleCategory() {
	n := s.editor.Selected()
	if n == nil {
		return
	}
	options := append([]questionbank.Category{""}, questionbank.AllCategories()...)
	next := options[0]
	for i, c := range options {
		if c == n.Category {
			next = options[(i+1)%len(options)]
		}
	}
	_ = s.editor.UpdateNode(n.ID, focusmap.NodePatch{Category: &next})
}

func (s *EditorScreen) adjustScore(delta int) {
	n := s.editor.Selected()
	if n == nil {
		return
	}
	if !n.EditableScore {
		s.notice = "This node has no score."
		return
	}
	v := delta
	if n.Score != nil {
		v += *n.Score
	}
	_ = s.editor.UpdateNode(n.ID, focusmap.NodePatch{Score: &v})
}

func (s *EditorScreen) startInput(m mode) tea.Cmd {
	var label, value string
	switch m {
	case modeRename:
		label, value = "Map name", s.editor.Map().Name
	case modeLabel, modeDescription:
		n := s.editor.Selected()
		if n == nil {
			return nil
		}
		label, value = "Label", n.Label
		if m == modeDescription {
			label, value = "Description", n.Description
		}
	}
	s.mode = m
	s.input = components.NewField(label, "", false, 200)
	s.input.SetValue(value)
	return s.input.Focus()
}

func (s *EditorScreen) updateInput(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.mode = modeNormal
		return nil
	case "enter":
		v := strings.TrimSpace(s.input.Value())
		switch s.mode {
		case modeRename:
			if v != "" {
				s.editor.Rename(v)
			}
		case modeLabel:
			if n := s.editor.Selected(); n != nil && v != "" {
				_ = s.editor.UpdateNode(n.ID, focusmap.NodePatch{Label: &v})
			}
		case modeDescription:
			if n := s.editor.Selected(); n != nil {
				_ = s.editor.UpdateNode(n.ID, focusmap.NodePatch{Description: &v})
			}
		}
		s.mode = modeNormal
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *EditorScreen) updateLink(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if s.editor.SelectedID() != s.linkFrom {
			s.editor.Select(s.linkFrom)
		}
		s.mode, s.linkFrom = modeNormal, ""
	case "tab":
		s.cycle(1)
	case "shift+tab":
		s.cycle(-1)
	case "enter", "l":
		target := s.editor.SelectedID()
		added, err := s.editor.ToggleConnection(s.linkFrom, target)
		switch {
		case err != nil:
			s.notice = "Pick a different node."
			return nil
		case added:
			s.notice = "Connected."
		default:
			s.notice = "Connection removed."
		}
		s.mode, s.linkFrom = modeNormal, ""
	}
	return nil
}

func (s *EditorScreen) save() tea.Cmd {
	if s.saving {
		return nil
	}
	if !s.editor.Dirty() {
		s.notice = "No changes to save."
		return nil
	}
	s.saving = true
	snap, rev := s.editor.Snapshot()
	uid := s.deps.UID()
	return func() tea.Msg {
		ctx := context.Background()
		at := s.deps.Clock()
		if snap.ID == "" {
			id, err := s.deps.Store.SaveMap(ctx, uid, snap)
			return savedMsg{ID: id, At: at, Rev: rev, Err: err}
		}
		err := s.deps.Store.UpdateMap(ctx, uid, snap.ID, snap)
		return savedMsg{ID: snap.ID, At: at, Rev: rev, Err: err}
	}
}

func (s *EditorScreen) requestInsight() tea.Cmd {
	if s.insight.loading || s.deps.Insights == nil {
		return nil
	}
	s.insight = insightPanel{loading: true}
	prompt := insights.BuildPrompt(s.report, s.editor.Map().Clone())
	req := s.deps.Insights
	log := s.deps.Log
	ask := func() tea.Msg {
		res := req.Complete(context.Background(), prompt)
		if res.Err != nil && log != nil {
			log.Warn("insight", zap.Error(res.Err))
		}
		return insightMsg{Result: res}
	}
	return tea.Batch(s.spinner.Tick, ask)
}

func (s *EditorScreen) View(width, height int) string {
	canvasW := width
	showSide := !layout.IsCompactWidth(width)
	if showSide {
		canvasW = width - sideWidth - 1
	}

	bottom := s.bottomView(canvasW)
	canvasH := max(4, height-lipgloss.Height(bottom))
	if bottom == "" {
		canvasH = height
	}

	cv := renderCanvas(s.editor.Map(), s.view, s.editor.SelectedID(), s.linkFrom, canvasW, canvasH)
	left := cv
	if bottom != "" {
		left = cv + "\n" + bottom
	}
	if !showSide {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", s.sideView(height))
}

func (s *EditorScreen) bottomView(width int) string {
	var parts []string
	if s.CapturingInput() {
		parts = append(parts, s.input.View(min(60, width-4)))
	}
	if s.notice != "" {
		parts = append(parts, theme.Hint.Render(s.notice))
	}
	switch {
	case s.insight.loading:
		parts = append(parts, s.spinner.View()+theme.Muted.Render(" Asking for insights..."))
	case s.insight.result != nil:
		body := s.insight.view(width - 4)
		parts = append(parts, components.Panel("Insights", clampLines(body, 12), width-2))
	}
	return strings.Join(parts, "\n")
}

func (s *EditorScreen) sideView(height int) string {
	m := s.editor.Map()
	var b strings.Builder

	saveLabel := "Saved"
	switch {
	case s.saving:
		saveLabel = "Saving..."
	case s.editor.Dirty():
		saveLabel = "Save (s)"
	}
	b.WriteString(components.Button(saveLabel, s.editor.Dirty() && !s.saving) + "\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("Zoom %.0f%%  Nodes %d  Links %d", s.view.Zoom*100, len(m.Nodes), len(m.Connections))) + "\n\n")

	n := s.editor.Selected()
	if n == nil {
		b.WriteString(theme.Hint.Render("No node selected. Tab to select."))
		return components.Panel("Node", b.String(), sideWidth)
	}

	row := func(k, v string) {
		b.WriteString(theme.Muted.Render(k+": ") + theme.Body.Render(v) + "\n")
	}
	row("Label", n.Label)
	row("Kind", n.Kind.Title())
	cat := "none"
	if n.Category != "" {
		cat = theme.CategoryStyle(n.Color).Render(n.Category.Label())
	}
	row("Category", cat)
	if n.Score != nil {
		bar := components.NewProgressBar("", float64(*n.Score)/100, true, sideWidth-6)
		if n.Color != "" {
			bar.Color = lipgloss.Color(n.Color)
		}
		b.WriteString(theme.Muted.Render("Score") + "\n" + bar.View() + "\n")
	}
	if n.Description != "" {
		b.WriteString(theme.Muted.Render("Description") + "\n" + theme.Body.Width(sideWidth-4).Render(n.Description) + "\n")
	}

	b.WriteString("\n" + theme.Muted.Render("Connections") + "\n")
	linked := 0
	for _, c := range m.Connections {
		if !c.Touches(n.ID) {
			continue
		}
		other := c.Target
		if other == n.ID {
			other = c.Source
		}
		if o := m.Node(other); o != nil {
			b.WriteString("  – " + o.Label + "\n")
			linked++
		}
	}
	if linked == 0 {
		b.WriteString(theme.Hint.Render("  none") + "\n")
	}
	if s.mode == modeLink {
		from := m.Node(s.linkFrom)
		if from != nil {
			b.WriteString("\n" + theme.Selected.Render("Linking from "+from.Label))
		}
	}
	return components.Panel("Node", clampLines(b.String(), height-3), sideWidth)
}

func clampLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
