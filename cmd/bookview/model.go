package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/exchange-clob/matching-engine/cmd/bookview/styles"
)

const maxLevels = 15

type model struct {
	client *client
	pair   string

	bids []level
	asks []level
	best bestResponse

	statusMsg string
	width     int
	height    int
}

func newModel(c *client, pair string) *model {
	return &model{client: c, pair: pair}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

type refreshMsg struct {
	bids []level
	asks []level
	best bestResponse
	err  error
}

type tickMsg struct{}

func (m *model) refresh() tea.Cmd {
	return func() tea.Msg {
		bids, asks, err := m.client.snapshot(maxLevels)
		if err != nil {
			return refreshMsg{err: err}
		}
		best, err := m.client.best()
		if err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{bids: bids, asks: asks, best: best}
	}
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q"))):
			return m, tea.Quit
		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case refreshMsg:
		if msg.err != nil {
			m.statusMsg = "error: " + msg.err.Error()
			return m, nil
		}
		m.bids = msg.bids
		m.asks = msg.asks
		m.best = msg.best
		m.statusMsg = ""
	}

	return m, nil
}

func (m *model) View() string {
	title := styles.TitleStyle.Render(fmt.Sprintf("book: %s", m.pair))

	header := styles.HeaderStyle.Render(fmt.Sprintf("%10s %12s │ %12s %10s", "bid depth", "bid price", "ask price", "ask depth"))

	rows := maxLevels
	if len(m.bids) > rows {
		rows = len(m.bids)
	}
	if len(m.asks) > rows {
		rows = len(m.asks)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		bidSz, bidPx := "", ""
		if i < len(m.bids) {
			bidSz = fmt.Sprintf("%d", m.bids[i].bidDepth)
			bidPx = fmt.Sprintf("%d", m.bids[i].price)
		}
		askPx, askSz := "", ""
		if i < len(m.asks) {
			askPx = fmt.Sprintf("%d", m.asks[i].price)
			askSz = fmt.Sprintf("%d", m.asks[i].askDepth)
		}

		bidPart := styles.BuyStyle.Render(fmt.Sprintf("%10s %12s", bidSz, bidPx))
		askPart := styles.SellStyle.Render(fmt.Sprintf("%12s %10s", askPx, askSz))
		body.WriteString(bidPart + " │ " + askPart + "\n")
	}

	best := "best bid: -    best ask: -"
	if m.best.BestBid != nil || m.best.BestAsk != nil {
		bid, ask := "-", "-"
		if m.best.BestBid != nil {
			bid = fmt.Sprintf("%d", *m.best.BestBid)
		}
		if m.best.BestAsk != nil {
			ask = fmt.Sprintf("%d", *m.best.BestAsk)
		}
		best = fmt.Sprintf("best bid: %s    best ask: %s", bid, ask)
	}

	statusBar := styles.StatusBarStyle.Render("q quit  │  r refresh  │  " + best + "  " + m.statusMsg)

	panel := styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, header, body.String()))

	return lipgloss.JoinVertical(lipgloss.Left, panel, statusBar)
}
