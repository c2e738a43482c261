package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"foldersearch/internal/config"
	"foldersearch/internal/domain"
	"foldersearch/internal/eventbus"
	"foldersearch/internal/export"
	"foldersearch/internal/ui/handlers"
	"foldersearch/internal/ui/input"
	inputtypes "foldersearch/internal/ui/input/types"
	"foldersearch/internal/ui/logic"
	"foldersearch/internal/ui/state"
	"foldersearch/internal/ui/views"
)

// Searcher is the part of the search service the UI drives
type Searcher interface {
	StartSearch(ctx context.Context, req domain.SearchRequest) (string, error)
	CancelSearch()
	ClearResults()
	RemoveResult(path string) bool
}

// Options configures a Model
type Options struct {
	Context       context.Context
	Bus           eventbus.EventBus
	Search        Searcher
	Config        *config.Config
	ConfigService config.ConfigService // nil disables saving on quit
	Logger        hclog.Logger
}

// Model represents the UI state
type Model struct {
	ctx    context.Context
	bus    eventbus.EventBus
	search Searcher
	config *config.Config
	cfgSvc config.ConfigService
	logger hclog.Logger
	state  *state.AppState // centralized state

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	inPagerMode bool // tracks if we're currently in pager mode

	// Handlers
	navigator    *logic.Navigator       // navigation and viewport handler
	renderer     *views.Renderer        // view renderer
	eventHandler *handlers.EventHandler // event processing handler
	inputHandler *input.Handler         // input handling
	helpRenderer *HelpRenderer
	pager        *Pager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model seeded from the configuration
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	appState := state.NewAppState()
	appState.StartDir = cfg.StartDir
	appState.Mode = cfg.Search.Mode
	appState.CaseSensitive = cfg.Search.CaseSensitive
	appState.Recursive = cfg.Search.Recursive
	appState.IgnoreExtension = cfg.Search.IgnoreExtension

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:          ctx,
		bus:          opts.Bus,
		search:       opts.Search,
		config:       cfg,
		cfgSvc:       opts.ConfigService,
		logger:       logger.Named("ui"),
		state:        appState,
		help:         help.New(),
		spinner:      sp,
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UI.ShowSizes, cfg.UI.HighlightMatches),
		eventHandler: handlers.NewEventHandler(appState),
		inputHandler: input.New(),
		pager:        NewPager(),
	}
	m.helpRenderer = NewHelpRenderer(m.inputHandler.Keys())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// State exposes the application state
func (m *Model) State() *state.AppState {
	return m.state
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		if m.state.ShowHelp {
			return m, m.handleHelpKey(msg)
		}

		ctx := &input.ModelContext{State: m.state}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		// text input blink and paste messages
		inputCmd := m.inputHandler.Update(msg)
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(inputCmd, cmd)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	textInput := ""
	if ti := m.inputHandler.TextInput(); ti != nil {
		textInput = m.inputHandler.Prompt() + ti.View()
	}

	vs := views.ViewState{
		Width:           m.width,
		Height:          m.height,
		Results:         m.state.Results,
		SelectedIndex:   m.state.SelectedIndex,
		ViewportOffset:  m.state.ViewportOffset,
		ViewportHeight:  m.state.ViewportHeight,
		StartDir:        m.state.StartDir,
		Query:           m.state.Query,
		Mode:            m.state.Mode,
		CaseSensitive:   m.state.CaseSensitive,
		Recursive:       m.state.Recursive,
		IgnoreExtension: m.state.IgnoreExtension,
		Sort:            m.state.Sort.String(),
		RunState:        m.state.RunState,
		Progress:        m.state.Progress,
		LastError:       m.state.LastError,
		StatusMessage:   m.state.StatusMessage,
		Spinner:         m.spinner.View(),
		ShowHelp:        m.state.ShowHelp,
		TextInput:       textInput,
		ConfirmClear:    m.inputHandler.CurrentMode() == inputtypes.ModeClearConfirm,
		HelpModel:       m.help,
		Keys:            m.inputHandler.Keys(),
	}
	if m.state.ShowHelp {
		vs.HelpContent = m.helpRenderer.Window(m.height, m.state.HelpScrollOffset)
	}
	return m.renderer.Render(vs)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	m.logger.Trace("processAction", "action", action.Type())
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.syncNavigatorState()
		switch a.Direction {
		case "up":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(-1)
		case "down":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(1)
		case "pageup":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Page(false)
		case "pagedown":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Page(true)
		case "home":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Home()
		case "end":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.End()
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeQuery:
			m.state.Query = a.Text
			return m.startSearch()
		case inputtypes.ModeStartDir:
			dir, err := expandPath(a.Text)
			if err != nil {
				m.state.StatusMessage = fmt.Sprintf("Invalid folder: %v", err)
				return nil
			}
			m.state.StartDir = dir
			m.state.StatusMessage = fmt.Sprintf("Start folder: %s", dir)
		case inputtypes.ModeExport:
			return m.exportResults(a.Text)
		}

	case inputtypes.StartSearchAction:
		return m.startSearch()

	case inputtypes.CancelSearchAction:
		m.search.CancelSearch()
		m.state.StatusMessage = "Cancelling search..."

	case inputtypes.CycleSearchModeAction:
		m.state.Mode = m.state.Mode.Next()
		m.state.StatusMessage = fmt.Sprintf("Search mode: %s", m.state.Mode)

	case inputtypes.ToggleOptionAction:
		switch a.Option {
		case inputtypes.OptionCaseSensitive:
			m.state.CaseSensitive = !m.state.CaseSensitive
		case inputtypes.OptionRecursive:
			m.state.Recursive = !m.state.Recursive
		case inputtypes.OptionIgnoreExtension:
			m.state.IgnoreExtension = !m.state.IgnoreExtension
		}

	case inputtypes.RemoveResultAction:
		if !m.search.RemoveResult(a.Path) {
			// not in the sink any more, drop it from the list anyway
			m.state.RemoveResult(a.Path)
		}
		m.ensureSelectedVisible()

	case inputtypes.ClearResultsAction:
		m.search.ClearResults()
		m.state.StatusMessage = "Results cleared"

	case inputtypes.PreviewAction:
		return m.fetchPreviewPager(a.Path)

	case inputtypes.CycleSortAction:
		m.state.SetSort(m.state.Sort.Next())
		m.ensureSelectedVisible()
		m.state.StatusMessage = fmt.Sprintf("Sorting by %s", m.state.Sort)

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp
		m.state.HelpScrollOffset = 0

	case inputtypes.QuitAction:
		return func() tea.Msg { return quitMsg{saveConfig: true} }
	}

	return nil
}

// handleHelpKey scrolls and closes the help popup
func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return func() tea.Msg { return quitMsg{saveConfig: true} }
	case "esc", "?", "q":
		m.state.ShowHelp = false
		m.state.HelpScrollOffset = 0
	case "up", "k":
		if m.state.HelpScrollOffset > 0 {
			m.state.HelpScrollOffset--
		}
	case "down", "j":
		m.state.HelpScrollOffset++
	case "p":
		m.state.ShowHelp = false
		return m.fetchHelpPager(m.helpRenderer.Content())
	}
	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		cmd := m.eventHandler.HandleEvent(msg.Event)
		m.ensureSelectedVisible()
		return m, cmd

	case spinner.TickMsg:
		// Don't keep ticking while the pager owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchStartedMsg:
		if msg.err != nil {
			m.state.StatusMessage = fmt.Sprintf("Cannot start search: %v", msg.err)
			return m, nil
		}
		m.logger.Debug("search started", "run", msg.runID)
		return m, nil

	case exportDoneMsg:
		m.eventHandler.HandleEvent(eventbus.ExportCompletedEvent{Dir: msg.dir, Copied: msg.copied, Err: msg.err})
		return m, nil

	case previewPagerMsg:
		if msg.err != nil {
			m.logger.Warn("preview pager failed", "path", msg.path, "error", msg.err)
			m.state.StatusMessage = fmt.Sprintf("Cannot preview %s: %v", msg.path, msg.err)
		}
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed, fall back to the popup
			m.logger.Warn("help pager failed", "error", msg.err)
			m.state.ShowHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	case clearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil

	case quitMsg:
		m.search.CancelSearch()
		if msg.saveConfig {
			m.saveConfig()
		}
		return m, tea.Quit
	}

	return m, nil
}

// startSearch returns a command that starts a search with the current form
func (m *Model) startSearch() tea.Cmd {
	if strings.TrimSpace(m.state.Query) == "" {
		m.state.StatusMessage = "Enter a query first (press /)"
		return nil
	}
	req := m.state.Request()
	return func() tea.Msg {
		runID, err := m.search.StartSearch(m.ctx, req)
		return searchStartedMsg{runID: runID, err: err}
	}
}

// exportResults returns a command that copies the listed files into dir
func (m *Model) exportResults(dir string) tea.Cmd {
	dir, err := expandPath(dir)
	if err != nil {
		m.state.StatusMessage = fmt.Sprintf("Invalid folder: %v", err)
		return nil
	}
	if m.state.Exporting {
		m.state.StatusMessage = "An export is already running"
		return nil
	}

	results := append([]domain.MatchResult(nil), m.state.Results...)
	m.state.Exporting = true
	m.state.StatusMessage = fmt.Sprintf("Copying files to %s...", dir)
	return func() tea.Msg {
		copied, err := export.CopyToFolder(m.ctx, results, dir)
		if m.bus != nil {
			m.bus.Publish(eventbus.ExportCompletedEvent{Dir: dir, Copied: copied, Err: err})
		}
		return exportDoneMsg{dir: dir, copied: copied, err: err}
	}
}

// fetchPreviewPager returns a command that pages a file with ov
func (m *Model) fetchPreviewPager(path string) tea.Cmd {
	if m.program == nil {
		m.state.StatusMessage = "Preview is not available"
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.ShowFile(path)
		m.program.Send(resumeRenderingMsg{})
		return previewPagerMsg{path: path, err: err}
	}
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg { return helpPagerMsg{err: fmt.Errorf("program not set")} }
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.ShowText(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// saveConfig stores the current form as the defaults for the next session
func (m *Model) saveConfig() {
	if m.cfgSvc == nil {
		return
	}
	m.config.StartDir = m.state.StartDir
	m.config.Search.Mode = m.state.Mode
	m.config.Search.CaseSensitive = m.state.CaseSensitive
	m.config.Search.Recursive = m.state.Recursive
	m.config.Search.IgnoreExtension = m.state.IgnoreExtension
	if err := m.cfgSvc.Save(m.config); err != nil {
		m.logger.Error("failed to save config", "error", err)
	}
}

// syncNavigatorState updates the navigator with current model state
func (m *Model) syncNavigatorState() {
	m.navigator.UpdateState(
		m.state.SelectedIndex,
		m.state.ViewportOffset,
		m.state.ViewportHeight,
		len(m.state.Results),
	)
}

// ensureSelectedVisible ensures the selected item is visible in the viewport
func (m *Model) ensureSelectedVisible() {
	m.syncNavigatorState()
	m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.state.SelectedIndex)
}

// updateViewportHeight fits the result list between the form and the footer
func (m *Model) updateViewportHeight() {
	// padding 2, title 2, form 3, input 2, footer 3
	height := m.height - 12
	if height < 3 {
		height = 3
	}
	m.state.ViewportHeight = height
	m.ensureSelectedVisible()
}

// expandPath resolves "~" and makes path absolute
func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
