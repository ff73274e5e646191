// Package tui is a terminal front end for the completion wizard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobportal/internal/wizard"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 20 * time.Second

// field is one labelled input of a dialog.
type field struct {
	label string
	input textinput.Model
}

// snapshot is the part of the machine the UI renders. It is captured on the
// goroutine that ran the action, so the UI loop never reads the machine.
type snapshot struct {
	state    wizard.State
	target   string
	message  string
	profile  *wizard.Profile
	terminal bool
	delay    time.Duration
}

func snapshotOf(machine *wizard.Machine) snapshot {
	return snapshot{
		state:    machine.State(),
		target:   machine.Target(),
		message:  machine.Message(),
		profile:  machine.Profile(),
		terminal: machine.Terminal(),
		delay:    machine.RedirectDelay(),
	}
}

// stepDoneMsg reports that a machine action finished.
type stepDoneMsg struct {
	err  error
	snap snapshot
}

// redirectMsg fires when a terminal screen has been shown long enough.
type redirectMsg struct{}

// Model is the bubbletea model wrapping a wizard.Machine.
type Model struct {
	machine     *wizard.Machine
	callback    *wizard.Callback
	frontendURL string

	spinner spinner.Model
	fields  []field
	focus   int
	busy    bool
	shown   wizard.State
	snap    snapshot
	err     string
}

// New creates the model. frontendURL prefixes the final redirect target.
func New(machine *wizard.Machine, cb *wizard.Callback, frontendURL string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		machine:     machine,
		callback:    cb,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		spinner:     sp,
		busy:        true,
		shown:       wizard.StateLoading,
		snap:        snapshot{state: wizard.StateLoading},
	}
}

// Target is the absolute URL the wizard finished on, empty if it was aborted.
func (m Model) Target() string {
	if !m.snap.terminal {
		return ""
	}
	return m.frontendURL + m.snap.target
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(func(ctx context.Context) error {
		m.machine.Start(ctx, m.callback)
		return nil
	}))
}

// run executes one machine action off the UI loop. Only one action runs at a
// time: callers set busy first and input is ignored until stepDoneMsg arrives.
func (m Model) run(action func(ctx context.Context) error) tea.Cmd {
	machine := m.machine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := action(ctx)
		return stepDoneMsg{err: err, snap: snapshotOf(machine)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.busy || m.snap.terminal || len(m.fields) == 0 {
			return m, nil
		}
		return m.handleKey(msg)

	case stepDoneMsg:
		m.busy = false
		m.snap = msg.snap
		m.err = ""
		if msg.err != nil {
			m.err = m.snap.message
		}
		return m.enter()

	case redirectMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

// enter syncs the dialog with the machine after an action.
func (m Model) enter() (tea.Model, tea.Cmd) {
	state := m.snap.state
	if m.err == "" && m.snap.message != "" && state != wizard.StateSuccess {
		m.err = m.snap.message
	}
	if state == m.shown {
		return m, nil
	}
	m.shown = state

	switch state {
	case wizard.StatePasswordSetup:
		m.fields = passwordFields()
	case wizard.StateProfileSetup:
		form := wizard.ProfileForm{}
		if p := m.snap.profile; p != nil {
			form = wizard.FormFromProfile(p)
		}
		m.fields = profileFields(form)
	default:
		m.fields = nil
		return m, tea.Tick(m.snap.delay, func(time.Time) tea.Msg { return redirectMsg{} })
	}
	m.focus = 0
	return m, m.focusCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
		return m, m.focusCmd()
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
		return m, m.focusCmd()
	case "ctrl+s":
		if m.shown == wizard.StatePasswordSetup {
			m.busy = true
			m.err = ""
			return m, m.run(m.machine.Skip)
		}
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.focus++
			return m, m.focusCmd()
		}
		return m.submit()
	}
	return m.updateInputs(msg)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	values := make([]string, len(m.fields))
	for i, f := range m.fields {
		values[i] = f.input.Value()
	}

	switch m.shown {
	case wizard.StatePasswordSetup:
		// Policy violations are shown without a round trip.
		if err := wizard.ValidatePassword(values[0], values[1]); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.busy = true
		m.err = ""
		return m, m.run(func(ctx context.Context) error {
			return m.machine.SubmitPassword(ctx, values[0], values[1])
		})
	case wizard.StateProfileSetup:
		form := formFromValues(values)
		if _, err := form.Update(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.busy = true
		m.err = ""
		return m, m.run(func(ctx context.Context) error {
			return m.machine.SubmitProfile(ctx, form)
		})
	}
	return m, nil
}

func (m Model) focusCmd() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.fields))
	for i := range m.fields {
		if i == m.focus {
			cmds[i] = m.fields[i].input.Focus()
			m.fields[i].input.PromptStyle = focusedStyle
			continue
		}
		m.fields[i].input.Blur()
		m.fields[i].input.PromptStyle = labelStyle
	}
	return tea.Batch(cmds...)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.fields))
	for i := range m.fields {
		m.fields[i].input, cmds[i] = m.fields[i].input.Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Finish setting up your account"))
	b.WriteString("\n\n")

	switch {
	case m.busy:
		fmt.Fprintf(&b, "%s Working...\n", m.spinner.View())
	case m.shown == wizard.StateSuccess:
		b.WriteString(successStyle.Render("All set!"))
		fmt.Fprintf(&b, "\nTaking you to %s\n", m.frontendURL+m.snap.target)
	case m.shown == wizard.StateError:
		b.WriteString(errorStyle.Render(m.snap.message))
		fmt.Fprintf(&b, "\nRedirecting to %s\n", m.frontendURL+m.snap.target)
	default:
		b.WriteString(m.dialog())
	}

	if m.err != "" && !m.busy && !m.snap.terminal {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}
	return boxStyle.Render(b.String()) + "\n"
}

func (m Model) dialog() string {
	var b strings.Builder
	help := "tab: next • enter: submit • esc: quit"
	if m.shown == wizard.StatePasswordSetup {
		b.WriteString("Choose a password so you can also sign in with your email.\n\n")
		help = "tab: next • enter: submit • ctrl+s: skip for now • esc: quit"
	} else {
		b.WriteString("Tell employers a little about yourself. Name and phone are required.\n\n")
	}
	for i, f := range m.fields {
		label := labelStyle.Render(f.label)
		if i == m.focus {
			label = focusedStyle.Render(f.label)
		}
		fmt.Fprintf(&b, "%s\n%s\n", label, f.input.View())
	}
	b.WriteString("\n" + helpStyle.Render(help))
	return b.String()
}
