package screen

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/persistence"
	"github.com/optimapped/optimapped/internal/store"
	"github.com/optimapped/optimapped/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Protected is implemented by screens that need a signed-in user. The
// app leaves them for the sign-in screen when the session ends.
type Protected interface {
	RequiresAuth() bool
}

// Resumer is implemented by screens that refresh when they become
// active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// InputCapturer is implemented by screens that are editing text, so
// global keys like esc and q are left to them.
type InputCapturer interface {
	CapturingInput() bool
}

// StatusMsg shows a short notice in the footer.
type StatusMsg struct {
	Text string
}

// Status returns a command that emits a StatusMsg.
func Status(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// Deps are the services screens call into.
type Deps struct {
	Auth  *auth.Service
	Store *persistence.Adapter
	// Insights answers with an error when no LLM provider is configured.
	Insights *insights.Requestor
	Log      *zap.Logger
	Now      func() time.Time
}

// User returns the signed-in user, or nil.
func (d *Deps) User() *auth.User {
	return d.Auth.Session().Current()
}

// UID returns the signed-in user's ID, or "".
func (d *Deps) UID() string {
	if u := d.User(); u != nil {
		return u.UID
	}
	return ""
}

func (d *Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// SettingsMsg tells the app that the user's settings changed.
type SettingsMsg struct {
	Settings store.Settings
}
