package maps

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/focusmap"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/screens/mapeditor"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

const listLimit = 50

type mapsLoadedMsg struct {
	Maps []*focusmap.Map
	Err  error
}

type mapDeletedMsg struct {
	ID  string
	Err error
}

type mapOpenedMsg struct {
	Map *focusmap.Map
	Err error
}

// MapsScreen lists the user's saved maps, most recently updated first.
type MapsScreen struct {
	deps     *screen.Deps
	maps     []*focusmap.Map
	selected int
	loaded   bool
	confirm  string
}

var _ screen.Screen = (*MapsScreen)(nil)
var _ screen.KeyHintProvider = (*MapsScreen)(nil)

func New(deps *screen.Deps) *MapsScreen {
	return &MapsScreen{deps: deps}
}

func (s *MapsScreen) Init() tea.Cmd {
	uid := s.deps.UID()
	return func() tea.Msg {
		ms, err := s.deps.Store.ListMaps(context.Background(), uid, listLimit)
		return mapsLoadedMsg{Maps: ms, Err: err}
	}
}

// Resume reloads the list after returning from the editor.
func (s *MapsScreen) Resume() tea.Cmd {
	return s.Init()
}

func (s *MapsScreen) Title() string {
	return "Saved Maps"
}

func (s *MapsScreen) RequiresAuth() bool { return true }

func (s *MapsScreen) KeyHints() []layout.KeyHint {
	if s.confirm != "" {
		return []layout.KeyHint{
			{Key: "x", Description: "Confirm delete"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "n", Description: "New"},
		{Key: "x", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MapsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case mapsLoadedMsg:
		s.loaded = true
		// A failed read is logged by the store and shown as an empty list.
		s.maps = msg.Maps
		if msg.Err != nil {
			s.maps = nil
		}
		s.selected = min(s.selected, max(0, len(s.maps)-1))
		return s, nil

	case mapDeletedMsg:
		if msg.Err != nil {
			return s, screen.Status("Delete failed: " + msg.Err.Error())
		}
		return s, tea.Batch(s.Init(), screen.Status("Map deleted"))

	case mapOpenedMsg:
		if msg.Err != nil {
			return s, screen.Status("Could not open map: " + msg.Err.Error())
		}
		return s, router.Push(mapeditor.New(s.deps, msg.Map, nil))

	case tea.KeyPressMsg:
		key := msg.String()
		if s.confirm != "" {
			id := s.confirm
			s.confirm = ""
			if key == "x" {
				return s, s.delete(id)
			}
			return s, nil
		}
		switch key {
		case "esc":
			return s, router.Pop()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.maps)-1 {
				s.selected++
			}
		case "n":
			return s, router.Push(mapeditor.New(s.deps, nil, nil))
		case "enter":
			if m := s.current(); m != nil {
				return s, s.open(m.ID)
			}
		case "x", "delete":
			if m := s.current(); m != nil {
				s.confirm = m.ID
			}
		}
	}
	return s, nil
}

func (s *MapsScreen) current() *focusmap.Map {
	if s.selected < 0 || s.selected >= len(s.maps) {
		return nil
	}
	return s.maps[s.selected]
}

// open reloads the map so the editor starts from the stored copy.
func (s *MapsScreen) open(id string) tea.Cmd {
	uid := s.deps.UID()
	return func() tea.Msg {
		m, err := s.deps.Store.LoadMap(context.Background(), uid, id)
		return mapOpenedMsg{Map: m, Err: err}
	}
}

func (s *MapsScreen) delete(id string) tea.Cmd {
	uid := s.deps.UID()
	return func() tea.Msg {
		return mapDeletedMsg{ID: id, Err: s.deps.Store.DeleteMap(context.Background(), uid, id)}
	}
}

func (s *MapsScreen) View(width, height int) string {
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading maps...")
	}
	if len(s.maps) == 0 {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"\n\n  No saved maps yet. Press n to create one.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, m := range s.maps {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%-28s  %s  %d nodes  %d links",
			prefix, truncate(m.Name, 28), m.UpdatedAt.Local().Format("Jan 02, 2006 15:04"),
			len(m.Nodes), len(m.Connections))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	if s.confirm != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.Danger, "Press x again to delete this map."))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
