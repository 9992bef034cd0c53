// Package tui is the interactive front end: a home screen to add and
// clear items, a total screen and a "where to buy" directory.
//
// Every ledger call is made from Update, so units of work are issued one
// at a time, in key-press order, and the screen only shows an item after
// the store has confirmed it.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/equipt/internal/ledger"
	"github.com/idilsaglam/equipt/internal/model"
	"github.com/idilsaglam/equipt/internal/sites"
	"github.com/idilsaglam/equipt/internal/ui"
)

// Config wires the screens to the core.
type Config struct {
	Ledger   *ledger.Controller
	Sites    []model.Site
	Opener   sites.Opener
	Currency string
	Log      *zap.Logger
}

type screen int

const (
	screenHome screen = iota
	screenTotal
	screenSites
)

const (
	fieldItem = iota
	fieldCost
)

// Model is the bubbletea model for all three screens.
type Model struct {
	cfg    Config
	ctx    context.Context
	keys   keyMap
	help   help.Model
	screen screen

	inputs []textinput.Model
	focus  int
	sites  list.Model

	notice string // last ledger change, fed by the subscription
	errMsg string // site open failures; ledger errors come from the controller

	width, height int
	unsubscribe   func()
}

// siteItem adapts a Site to bubbles/list.
type siteItem struct{ site model.Site }

func (s siteItem) Title() string       { return s.site.Title }
func (s siteItem) Description() string { return s.site.URL }
func (s siteItem) FilterValue() string { return s.site.Title }

// New builds the model. The ledger must already be loaded.
func New(ctx context.Context, cfg Config) *Model {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	m := &Model{
		cfg:    cfg,
		ctx:    ctx,
		keys:   newKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}

	item := textinput.New()
	item.Prompt = "Item > "
	item.Placeholder = "Enter an item"
	item.CharLimit = 120
	cost := textinput.New()
	cost.Prompt = "Cost > "
	cost.Placeholder = "Enter the cost"
	cost.CharLimit = 32
	m.inputs = []textinput.Model{item, cost}
	m.inputs[fieldItem].Focus()

	li := make([]list.Item, 0, len(cfg.Sites))
	for _, s := range cfg.Sites {
		li = append(li, siteItem{site: s})
	}
	m.sites = list.New(li, list.NewDefaultDelegate(), m.width-4, m.height-4)
	m.sites.Title = "Where to buy"
	m.sites.Styles.Title = ui.Current().Title
	m.sites.SetShowHelp(false)
	m.sites.KeyMap.Quit.SetEnabled(false)
	m.sites.SetStatusBarItemName("site", "sites")

	m.unsubscribe = cfg.Ledger.Subscribe(m.onChange)
	return m
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(ctx context.Context, cfg Config) error {
	m := New(ctx, cfg)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Close drops the ledger subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) onChange(ch ledger.Change) {
	switch ch.Kind {
	case ledger.ChangeAdded:
		m.notice = fmt.Sprintf("added %s", ch.Item.Name)
	case ledger.ChangeCleared:
		m.notice = "list cleared"
	case ledger.ChangeLoaded:
		m.notice = fmt.Sprintf("%d items loaded", ch.Count)
	}
}

func (m *Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sites.SetSize(msg.Width-4, msg.Height-4)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenTotal:
		return m.updateTotal(msg)
	case screenSites:
		return m.updateSites(msg)
	}
	return m.updateHome(msg)
}

func (m *Model) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Add):
			m.addItem()
			return m, nil
		case key.Matches(k, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % len(m.inputs))
		case key.Matches(k, m.keys.Clear):
			if err := m.cfg.Ledger.ClearAll(m.ctx); err != nil {
				m.cfg.Log.Error("clear failed", zap.Error(err))
			}
			return m, nil
		case key.Matches(k, m.keys.Total):
			m.screen = screenTotal
			return m, nil
		case key.Matches(k, m.keys.Sites):
			m.screen = screenSites
			m.errMsg = ""
			return m, nil
		case k.Type == tea.KeyEsc:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// addItem submits both fields. Inputs are kept on rejection so the user
// can fix them.
func (m *Model) addItem() {
	name, cost := m.inputs[fieldItem].Value(), m.inputs[fieldCost].Value()
	if _, err := m.cfg.Ledger.AddItem(m.ctx, name, cost); err != nil {
		m.cfg.Log.Debug("add rejected", zap.Error(err))
		return
	}
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.setFocus(fieldItem)
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) updateTotal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(k, m.keys.Back) || k.Type == tea.KeyEnter {
			m.screen = screenHome
		}
	}
	return m, nil
}

func (m *Model) updateSites(msg tea.Msg) (tea.Model, tea.Cmd) {
	filtering := m.sites.FilterState() == list.Filtering
	if k, ok := msg.(tea.KeyMsg); ok && !filtering {
		switch {
		case key.Matches(k, m.keys.Back):
			if m.sites.FilterState() == list.FilterApplied {
				m.sites.ResetFilter()
				return m, nil
			}
			m.screen = screenHome
			return m, nil
		case key.Matches(k, m.keys.Open):
			m.openSelected()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.sites, cmd = m.sites.Update(msg)
	return m, cmd
}

func (m *Model) openSelected() {
	s, ok := m.sites.SelectedItem().(siteItem)
	if !ok || m.cfg.Opener == nil {
		return
	}
	url := s.site.URL
	if err := m.cfg.Opener.Open(url); err != nil {
		m.cfg.Log.Warn("open site", zap.String("url", url), zap.Error(err))
		m.errMsg = "Could not open " + url
		return
	}
	m.errMsg = ""
}

func (m *Model) View() string {
	switch m.screen {
	case screenTotal:
		return ui.PanelString(m.totalLines())
	case screenSites:
		return m.sitesView()
	}
	return ui.PanelString(m.homeLines())
}

func (m *Model) homeLines() []string {
	t := ui.Current()
	led := m.cfg.Ledger

	lines := []string{t.Title.Render("Workout Equipment"), ""}
	if msg := led.ErrorMessage(); msg != "" {
		lines = append(lines, t.Error.Render(msg))
	} else if m.notice != "" {
		lines = append(lines, t.Muted.Render(m.notice))
	}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, t.Muted.Render(strings.Repeat(t.Separator, 30)))

	items := led.Items()
	if len(items) == 0 {
		lines = append(lines, t.Muted.Render("no items"))
	}
	// keep the newest rows when the list is taller than the screen
	room := m.height - 12
	if room < 1 {
		room = 1
	}
	if len(items) > room {
		lines = append(lines, t.Muted.Render(fmt.Sprintf("… %d more", len(items)-room)))
		items = items[len(items)-room:]
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			t.Bullet, ui.Truncate(it.Name, 40), t.Cost.Render(ui.Money(it.Cost, m.cfg.Currency))))
	}
	lines = append(lines, "", m.help.View(homeKeys(m.keys)))
	return lines
}

func (m *Model) totalLines() []string {
	t := ui.Current()
	total := ui.Money(m.cfg.Ledger.TotalCost(), m.cfg.Currency)
	return []string{
		t.Title.Render("Total Cost"),
		"",
		"All item Total: " + t.Cost.Render(total),
		"",
		m.help.ShortHelpView([]key.Binding{m.keys.Back, m.keys.Quit}),
	}
}

func (m *Model) sitesView() string {
	body := m.sites.View()
	if m.errMsg != "" {
		body += "\n" + ui.Current().Error.Render(m.errMsg)
	}
	body += "\n" + m.help.ShortHelpView([]key.Binding{m.keys.Open, m.keys.Back, m.keys.Quit})
	return ui.PanelString([]string{body})
}
