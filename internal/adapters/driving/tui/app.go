package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/tui/components/list"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/tui/components/status"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/tui/keymap"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/tui/styles"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// defaultSearchLimit is the number of matches requested per search.
const defaultSearchLimit = 10

// mode identifies which part of the single search screen has focus.
type mode int

const (
	modeInput mode = iota
	modeResults
	modeHelp
)

// searchDoneMsg carries the outcome of an asynchronous search.
type searchDoneMsg struct {
	query   string
	matches []domain.ChunkMatch
	err     error
}

// capabilityMsg carries the startup capability report.
type capabilityMsg struct {
	report domain.CapabilityReport
}

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input     textinput.Model
	results   *list.ResultList
	detail    viewport.Model
	statusBar *status.Bar

	mode     mode
	prevMode mode
	query    string
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	input := textinput.New()
	input.Placeholder = "Search indexed chunks..."
	input.CharLimit = 256
	input.Width = 60
	input.Focus()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		input:     input,
		results:   list.NewResultList(s),
		detail:    viewport.New(78, 6),
		statusBar: status.NewBar(s, km),
		mode:      modeInput,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.fetchCapability())
}

// Update handles incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.results.SetDimensions(msg.Width, msg.Height-14)
		a.detail.Width = msg.Width - 4
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case capabilityMsg:
		a.statusBar.SetDegraded(msg.report.Mode == domain.ModeDegraded)
		return a, nil

	case searchDoneMsg:
		return a.handleSearchDone(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keymap.Quit) {
		return a, tea.Quit
	}

	if keymap.Matches(msg.String(), a.keymap.Help) && a.mode != modeInput {
		a.toggleHelp()
		return a, nil
	}

	switch a.mode {
	case modeInput:
		return a.handleInputKey(msg)
	case modeResults:
		return a.handleResultsKey(msg)
	case modeHelp:
		if keymap.Matches(msg.String(), a.keymap.Back) {
			a.toggleHelp()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keymap.Search) {
		query := strings.TrimSpace(a.input.Value())
		if query == "" {
			return a, nil
		}
		a.query = query
		a.err = nil
		a.statusBar.SetState(status.StateSearching)
		return a, a.search(query)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), a.keymap.NewSearch),
		keymap.Matches(msg.String(), a.keymap.Back):
		a.mode = modeInput
		a.input.SetValue("")
		a.input.Focus()
		a.statusBar.Clear()
		a.statusBar.SetState(status.StateReady)
		return a, textinput.Blink

	case keymap.Matches(msg.String(), a.keymap.Up):
		a.results.MoveUp()
		a.syncDetail()
		return a, nil

	case keymap.Matches(msg.String(), a.keymap.Down):
		a.results.MoveDown()
		a.syncDetail()
		return a, nil
	}
	return a, nil
}

// syncDetail mirrors the selected match into the detail pane.
func (a *App) syncDetail() {
	if m := a.results.SelectedMatch(); m != nil {
		a.detail.SetContent(m.Text)
	} else {
		a.detail.SetContent("")
	}
	a.detail.GotoTop()
}

func (a *App) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	// Discard stale results from an abandoned query.
	if msg.query != a.query {
		return a, nil
	}

	if msg.err != nil {
		a.err = msg.err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.err.Error())
		return a, nil
	}

	a.results.SetMatches(msg.matches)
	a.syncDetail()
	a.mode = modeResults
	a.input.Blur()
	a.statusBar.SetState(status.StateResults)
	a.statusBar.SetResultCount(len(msg.matches))
	return a, nil
}

func (a *App) toggleHelp() {
	if a.mode == modeHelp {
		a.mode = a.prevMode
		a.statusBar.SetState(status.StateResults)
		if a.mode == modeInput {
			a.statusBar.SetState(status.StateReady)
		}
		return
	}
	a.prevMode = a.mode
	a.mode = modeHelp
	a.statusBar.SetState(status.StateHelp)
}

// search runs a query against the index off the update loop.
func (a *App) search(query string) tea.Cmd {
	return func() tea.Msg {
		matches, err := a.ports.Index.SearchText(a.ctx, query, defaultSearchLimit)
		return searchDoneMsg{query: query, matches: matches, err: err}
	}
}

// fetchCapability loads the capability report for the status bar.
func (a *App) fetchCapability() tea.Cmd {
	return func() tea.Msg {
		return capabilityMsg{report: a.ports.Status.Report(a.ctx)}
	}
}

// View renders the application.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("quarry"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n\n")

	switch a.mode {
	case modeHelp:
		b.WriteString(a.helpView())
	case modeResults:
		b.WriteString(a.results.View())
		if !a.results.IsEmpty() {
			b.WriteString("\n\n")
			b.WriteString(a.styles.Border.Render(a.detail.View()))
		}
	case modeInput:
		if a.err != nil {
			b.WriteString(a.styles.Error.Render(a.err.Error()))
		} else {
			b.WriteString(a.styles.Muted.Render("Type a query and press enter."))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(a.statusBar.View())

	return b.String()
}

// helpView renders the full keybinding reference.
func (a *App) helpView() string {
	lines := []string{a.styles.Subtitle.Render("Keybindings"), ""}
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			lines = append(lines, fmt.Sprintf("  %-8s %s",
				a.styles.Normal.Render(h.Key), a.styles.Muted.Render(h.Desc)))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Query returns the last submitted query.
func (a *App) Query() string {
	return a.query
}

// Err returns the last error, if any.
func (a *App) Err() error {
	return a.err
}
