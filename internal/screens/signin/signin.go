package signin

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/optimapped/optimapped/internal/auth"
	"github.com/optimapped/optimapped/internal/router"
	"github.com/optimapped/optimapped/internal/screen"
	"github.com/optimapped/optimapped/internal/ui/components"
	"github.com/optimapped/optimapped/internal/ui/layout"
	"github.com/optimapped/optimapped/internal/ui/theme"
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

// Focus targets after the text fields.
const (
	actionSubmit = iota
	actionToggle
	actionGoogle
)

type doneMsg struct {
	Err error
}

// SignInScreen is the email/password form with an optional Google
// sign-in button.
type SignInScreen struct {
	deps    *screen.Deps
	mode    Mode
	name    components.Field
	email   components.Field
	pass    components.Field
	focus   int
	busy    bool
	errText string
	spinner spinner.Model

	// cancel aborts a pending Google sign-in.
	cancel context.CancelFunc
}

var _ screen.Screen = (*SignInScreen)(nil)
var _ screen.KeyHintProvider = (*SignInScreen)(nil)
var _ screen.InputCapturer = (*SignInScreen)(nil)

func New(deps *screen.Deps, mode Mode) *SignInScreen {
	s := &SignInScreen{
		deps:    deps,
		mode:    mode,
		name:    components.NewField("Name", "Your name", false, 80),
		email:   components.NewField("Email", "you@example.com", false, 120),
		pass:    components.NewField("Password", "At least 6 characters", true, 128),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	return s
}

func (s *SignInScreen) Init() tea.Cmd {
	return s.setFocus(0)
}

func (s *SignInScreen) Title() string {
	if s.mode == ModeSignUp {
		return "Create Account"
	}
	return "Sign In"
}

func (s *SignInScreen) CapturingInput() bool {
	return s.focus < len(s.fields())
}

func (s *SignInScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

// fields returns the visible text fields in tab order.
func (s *SignInScreen) fields() []*components.Field {
	if s.mode == ModeSignUp {
		return []*components.Field{&s.name, &s.email, &s.pass}
	}
	return []*components.Field{&s.email, &s.pass}
}

// actions returns the buttons below the fields in tab order.
func (s *SignInScreen) actions() []int {
	out := []int{actionSubmit, actionToggle}
	if s.deps.Auth.GoogleEnabled() {
		out = append(out, actionGoogle)
	}
	return out
}

func (s *SignInScreen) stops() int {
	return len(s.fields()) + len(s.actions())
}

func (s *SignInScreen) setFocus(i int) tea.Cmd {
	n := s.stops()
	s.focus = (i%n + n) % n
	var cmd tea.Cmd
	for idx, f := range s.fields() {
		if idx == s.focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (s *SignInScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		s.busy = false
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		if msg.Err != nil {
			s.errText = message(msg.Err)
			if errors.Is(msg.Err, auth.ErrInvalidCredentials) {
				s.pass.SetValue("")
				return s, s.setFocus(len(s.fields()) - 1)
			}
		}
		return s, nil

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.busy {
			if msg.String() == "esc" && s.cancel != nil {
				s.cancel()
			}
			return s, nil
		}
		switch msg.String() {
		case "esc":
			return s, router.Pop()
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			return s, s.activate()
		}
	}

	fields := s.fields()
	if s.focus < len(fields) {
		var cmd tea.Cmd
		*fields[s.focus], cmd = fields[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SignInScreen) activate() tea.Cmd {
	fields := s.fields()
	if s.focus < len(fields)-1 {
		return s.setFocus(s.focus + 1)
	}
	if s.focus == len(fields)-1 {
		return s.submit()
	}
	switch s.actions()[s.focus-len(fields)] {
	case actionToggle:
		return s.toggle()
	case actionGoogle:
		return s.google()
	}
	return s.submit()
}

func (s *SignInScreen) toggle() tea.Cmd {
	if s.mode == ModeSignIn {
		s.mode = ModeSignUp
	} else {
		s.mode = ModeSignIn
	}
	s.errText = ""
	return s.setFocus(0)
}

func (s *SignInScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	pass := s.pass.Value()
	if email == "" || pass == "" {
		s.errText = "Enter your email and password."
		return nil
	}
	s.busy = true
	s.errText = ""
	mode, name := s.mode, strings.TrimSpace(s.name.Value())
	a := s.deps.Auth
	run := func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == ModeSignUp {
			_, err = a.SignUp(ctx, name, email, pass)
		} else {
			_, err = a.SignIn(ctx, email, pass)
		}
		return doneMsg{Err: err}
	}
	return tea.Batch(s.spinner.Tick, run)
}

func (s *SignInScreen) google() tea.Cmd {
	s.busy = true
	s.errText = ""
	a := s.deps.Auth
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	run := func() tea.Msg {
		_, err := a.SignInWithGoogle(ctx)
		return doneMsg{Err: err}
	}
	return tea.Batch(s.spinner.Tick, run)
}

// message turns an auth error into form text.
func message(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, auth.ErrEmailTaken):
		return "An account with this email already exists."
	case errors.Is(err, auth.ErrWeakPassword):
		return "Password must be at least 6 characters."
	case errors.Is(err, auth.ErrInvalidEmail):
		return "Enter a valid email address."
	case errors.Is(err, auth.ErrGoogleTimeout):
		return "Google sign-in timed out. Try again."
	case errors.Is(err, context.Canceled):
		return "Google sign-in cancelled."
	}
	return err.Error()
}

func (s *SignInScreen) View(width, height int) string {
	cw := min(56, components.ContentWidth(width))

	var b strings.Builder
	heading := "Welcome back"
	sub := "Sign in to continue planning your focus."
	if s.mode == ModeSignUp {
		heading = "Create your account"
		sub = "Start mapping how you focus."
	}
	b.WriteString(theme.Title.Render(heading) + "\n")
	b.WriteString(theme.Subtitle.Render(sub) + "\n\n")

	for _, f := range s.fields() {
		b.WriteString(f.View(cw-4) + "\n\n")
	}

	if s.errText != "" {
		b.WriteString(theme.Danger.Render(s.errText) + "\n\n")
	}

	fields := len(s.fields())
	for i, a := range s.actions() {
		focused := s.focus == fields+i
		switch a {
		case actionSubmit:
			label := "Sign In"
			if s.mode == ModeSignUp {
				label = "Sign Up"
			}
			b.WriteString(components.Button(label, focused) + "\n")
		case actionToggle:
			label := "No account? Create one"
			if s.mode == ModeSignUp {
				label = "Have an account? Sign in"
			}
			style := theme.Hint
			if focused {
				style = theme.Selected
			}
			b.WriteString(style.Render(label) + "\n")
		case actionGoogle:
			b.WriteString("\n" + components.Button("Continue with Google", focused) + "\n")
		}
	}

	if s.busy {
		b.WriteString("\n" + s.spinner.View() + theme.Muted.Render(" Signing in..."))
		if s.cancel != nil {
			b.WriteString("\n" + theme.Hint.Render("Finish in your browser, or press esc to cancel."))
		}
	}

	card := components.Panel("", strings.TrimRight(b.String(), "\n"), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
