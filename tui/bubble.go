// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/constant"
	"github.com/ytap-cli/ytap/internal/ui"
	"github.com/ytap-cli/ytap/key"
	"github.com/ytap-cli/ytap/player"
	"github.com/ytap-cli/ytap/session"
	"github.com/ytap-cli/ytap/style"
	"github.com/ytap-cli/ytap/util"
	"github.com/ytap-cli/ytap/worker"
)

// statefulBubble encapsulates the comprehensive application state: the session
// coordinator, worker pool, playback controller and all component models.
// Its Update method is the single serialized consumer of worker results and
// playback events; nothing else mutates the session.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// core
	session    *session.Session
	dispatcher *worker.Dispatcher
	controller *player.Controller

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	resultsC  list.Model
	progressC progress.Model
	helpC     help.Model

	// playback presentation
	elapsed float64
	total   float64
	paused  bool

	lastError        error
	width, height    int
	searchSuggestion mo.Option[string]
	notifier         *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates an idempotent transition to a target state, recording the
// previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != loadingState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	styledWidth := width - x
	styledHeight := height - y

	listWidth := width - xx
	listHeight := height - yy

	// Reserve rows for the player bar below the result list.
	listHeight -= playerBarHeight
	if listHeight < 0 {
		listHeight = 0
	}

	if viper.GetBool(key.TUIThumbnails) {
		listWidth -= thumbnailWidth + thumbnailGap
		if listWidth < 0 {
			listWidth = 0
		}
	}

	b.resultsC.SetSize(listWidth, listHeight)
	b.resultsC.Help.Width = listWidth

	b.progressC.Width = listWidth

	b.width = styledWidth
	b.height = styledHeight
	b.helpC.Width = listWidth
}

// startLoading enters a concurrent loading state, initializing visual indicators.
func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return tea.Batch(b.spinnerC.Tick, b.resultsC.StartSpinner())
}

// stopLoading exits the loading state and synchronizes visual indicators.
func (b *statefulBubble) stopLoading() tea.Cmd {
	b.loading = false
	b.resultsC.StopSpinner()
	return nil
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		session:    session.New(),
		dispatcher: worker.New(0),
		controller: player.NewController(nil),

		notifier: &ui.Model{},
		options:  options,
	}

	makeList := func(title string, titleStyle lipgloss.Style) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = true
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = titleStyle
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetFilteringEnabled(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search YouTube (v%s)", constant.Version)
	bubble.inputC.CharLimit = 100
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	bubble.resultsC = makeList("Results",
		lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1))
	bubble.resultsC.SetStatusBarItemName("track", "tracks")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return &bubble
}
