// Package tui is the interactive sitechat widget: a URL field to scrape a
// website, the transcript, and a question field.
package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/sitechat/internal/sitechat"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/rs/zerolog/log"
)

type field int

const (
	fieldURL field = iota
	fieldQuestion
)

// chrome is the number of lines around the transcript box: title, URL row,
// box borders, loading row, question row and help line.
const chrome = 8

type scrapeDoneMsg struct{ err error }

type askDoneMsg struct {
	answer string
	err    error
}

// Model is the bubbletea model. All session mutation happens in Update; the
// backend calls run inside commands and report back through messages.
type Model struct {
	ctx           context.Context
	sess          *session.Session
	scrapeEnabled bool

	urlInput      textinput.Model
	questionInput textinput.Model
	viewport      viewport.Model
	spinner       spinner.Model

	// copyText writes text to the system clipboard.
	copyText func(string) error
	status   string

	focus    field
	width    int
	height   int
	quitting bool
}

func NewModel(ctx context.Context, sess *session.Session, contract sitechat.Contract) Model {
	ui := textinput.New()
	ui.Placeholder = "Enter website URL"
	ui.CharLimit = 2048

	qi := textinput.New()
	qi.Placeholder = "Ask a question..."
	qi.CharLimit = 4000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	m := Model{
		ctx:           ctx,
		sess:          sess,
		scrapeEnabled: contract.ScrapeEnabled(),
		urlInput:      ui,
		questionInput: qi,
		viewport:      viewport.New(78, 12),
		spinner:       sp,
		copyText:      clipboard.WriteAll,
		width:         80,
		height:        20,
	}
	if !m.scrapeEnabled {
		m.focus = fieldQuestion
	}
	m.syncFocus()
	m.resize()
	return m
}

// SetURL pre-fills the URL field.
func (m *Model) SetURL(url string) {
	m.urlInput.SetValue(url)
}

// Session returns the session the model drives.
func (m Model) Session() *session.Session {
	return m.sess
}

func (m Model) urlEnabled() bool {
	return m.scrapeEnabled && !m.sess.Scraped() && !m.sess.Loading()
}

func (m Model) questionEnabled() bool {
	return m.sess.Scraped() && !m.sess.Loading()
}

// syncFocus moves focus to an enabled field and blurs disabled ones.
func (m *Model) syncFocus() {
	if m.focus == fieldURL && !m.urlEnabled() && m.questionEnabled() {
		m.focus = fieldQuestion
	}
	if m.focus == fieldQuestion && !m.questionEnabled() && m.urlEnabled() {
		m.focus = fieldURL
	}

	if m.focus == fieldURL && m.urlEnabled() {
		m.urlInput.Focus()
	} else {
		m.urlInput.Blur()
	}
	if m.focus == fieldQuestion && m.questionEnabled() {
		m.questionInput.Focus()
	} else {
		m.questionInput.Blur()
	}
}

func (m *Model) resize() {
	m.viewport.Width = max(20, m.width-2)
	m.viewport.Height = max(3, m.height-chrome)
	m.urlInput.Width = max(10, m.width-20)
	m.questionInput.Width = max(10, m.width-6)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.sess.Transcript(), m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scrapeDoneMsg:
		m.sess.FinishScrape(msg.err)
		if m.sess.Scraped() {
			m.focus = fieldQuestion
		}
		m.syncFocus()
		m.refresh()
		return m, nil

	case askDoneMsg:
		m.sess.FinishAsk(msg.answer, msg.err)
		m.syncFocus()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab", "shift+tab":
			if m.focus == fieldURL && m.questionEnabled() {
				m.focus = fieldQuestion
			} else if m.focus == fieldQuestion && m.urlEnabled() {
				m.focus = fieldURL
			}
			m.syncFocus()
			return m, nil

		case "enter":
			return m.submit()

		case "ctrl+y":
			m.copyLastAnswer()
			return m, nil

		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.focus == fieldURL && m.urlEnabled():
		m.urlInput, cmd = m.urlInput.Update(msg)
	case m.focus == fieldQuestion && m.questionEnabled():
		m.questionInput, cmd = m.questionInput.Update(msg)
	}
	return m, cmd
}

// copyLastAnswer puts the newest bot message on the clipboard.
func (m *Model) copyLastAnswer() {
	transcript := m.sess.Transcript()
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Sender != sitechat.SenderBot {
			continue
		}
		if err := m.copyText(transcript[i].Text); err != nil {
			log.Debug().Err(err).Msg("clipboard write failed")
			m.status = "Clipboard unavailable"
			return
		}
		m.status = "Copied last answer"
		return
	}
}

// submit starts a scrape or an ask depending on the focused field. Disabled
// fields and blank input do nothing.
func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.focus {
	case fieldURL:
		if !m.urlEnabled() || !m.sess.BeginScrape(m.urlInput.Value()) {
			return m, nil
		}
		m.syncFocus()
		m.refresh()
		return m, scrapeCmd(m.ctx, m.sess.Backend(), m.sess.URL())

	case fieldQuestion:
		question := m.questionInput.Value()
		if !m.questionEnabled() || !m.sess.BeginAsk(question) {
			return m, nil
		}
		m.questionInput.Reset()
		m.syncFocus()
		m.refresh()
		return m, askCmd(m.ctx, m.sess.Backend(), question)
	}
	return m, nil
}

func scrapeCmd(ctx context.Context, b sitechat.Backend, url string) tea.Cmd {
	return func() tea.Msg {
		return scrapeDoneMsg{err: b.Scrape(ctx, url)}
	}
}

func askCmd(ctx context.Context, b sitechat.Backend, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := b.Ask(ctx, question)
		return askDoneMsg{answer: answer, err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("sitechat"))
	b.WriteString("\n")

	if m.scrapeEnabled {
		b.WriteString(labelStyle.Render("URL "))
		if m.sess.Scraped() {
			b.WriteString(dimStyle.Render(m.sess.URL()))
			b.WriteString(" ")
			b.WriteString(scrapedStyle.Render("✓ scraped"))
		} else {
			b.WriteString(m.urlInput.View())
			if m.urlEnabled() && m.focus == fieldURL {
				b.WriteString(helpStyle.Render("  enter: scrape"))
			}
		}
	}
	b.WriteString("\n")

	b.WriteString(transcriptStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.sess.Loading() {
		b.WriteString(m.spinner.View())
		b.WriteString(loadingStyle.Render(" Loading..."))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("> "))
	if m.questionEnabled() {
		b.WriteString(m.questionInput.View())
	} else {
		b.WriteString(dimStyle.Render(m.questionInput.Placeholder))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status + " • "))
	}
	b.WriteString(helpStyle.Render("enter: send • tab: switch field • ctrl+y: copy answer • pgup/pgdown: scroll • esc: quit"))
	return b.String()
}

// renderTranscript lays out messages as bubbles: user messages on the right,
// bot messages on the left.
func renderTranscript(msgs []sitechat.Message, width int) string {
	maxBubble := max(10, width*3/4)
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		style := botBubbleStyle
		pos := lipgloss.Left
		if msg.Sender == sitechat.SenderUser {
			style = userBubbleStyle
			pos = lipgloss.Right
		}
		bubble := style.Width(min(lipgloss.Width(msg.Text)+2, maxBubble)).Render(msg.Text)
		lines = append(lines, lipgloss.PlaceHorizontal(width, pos, bubble))
	}
	return strings.Join(lines, "\n\n")
}
