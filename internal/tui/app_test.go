package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/sitechat/internal/sitechat"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	scrapeErr   error
	answer      string
	askErr      error
	scrapeCalls int
	askCalls    []string
}

func (f *fakeBackend) Scrape(context.Context, string) error {
	f.scrapeCalls++
	return f.scrapeErr
}

func (f *fakeBackend) Ask(_ context.Context, question string) (string, error) {
	f.askCalls = append(f.askCalls, question)
	return f.answer, f.askErr
}

func newTestModel(t *testing.T, fb *fakeBackend, profile string) Model {
	t.Helper()
	contract, err := sitechat.LookupProfile(profile)
	require.NoError(t, err)
	m := NewModel(context.Background(), session.New(fb, contract), contract)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// pressEnter submits the focused field and runs the resulting request.
func pressEnter(t *testing.T, m Model) (Model, bool) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	nm := next.(Model)
	if cmd == nil {
		return nm, false
	}
	assert.True(t, nm.sess.Loading(), "session should be loading while the request is in flight")
	return update(t, nm, cmd()), true
}

func TestModel_ScrapeThenAsk(t *testing.T) {
	fb := &fakeBackend{answer: "It is a demo."}
	m := newTestModel(t, fb, sitechat.ProfileAPI)

	assert.Contains(t, m.View(), "Hi! Enter a website URL to start.")
	assert.Equal(t, fieldURL, m.focus)
	assert.False(t, m.questionEnabled())

	m = typeText(t, m, "http://x.test")
	m, sent := pressEnter(t, m)
	require.True(t, sent)

	assert.Equal(t, 1, fb.scrapeCalls)
	assert.True(t, m.sess.Scraped())
	assert.False(t, m.urlEnabled())
	assert.Equal(t, fieldQuestion, m.focus)
	view := m.View()
	assert.Contains(t, view, "Website scraped! Ask your question.")
	assert.Contains(t, view, "✓ scraped")
	assert.NotContains(t, view, "Hi! Enter a website URL to start.")

	m = typeText(t, m, "What is this site about?")
	m, sent = pressEnter(t, m)
	require.True(t, sent)

	assert.Equal(t, []string{"What is this site about?"}, fb.askCalls)
	assert.Empty(t, m.questionInput.Value())
	assert.Equal(t, []sitechat.Message{
		sitechat.BotMessage(sitechat.ScrapedText),
		sitechat.UserMessage("What is this site about?"),
		sitechat.BotMessage("It is a demo."),
	}, m.sess.Transcript())
	assert.Contains(t, m.View(), "It is a demo.")
}

func TestModel_ScrapeFailureKeepsURLEnabled(t *testing.T) {
	fb := &fakeBackend{scrapeErr: errors.New("connection refused")}
	m := newTestModel(t, fb, sitechat.ProfileAPI)

	m = typeText(t, m, "http://x.test")
	m, _ = pressEnter(t, m)

	assert.False(t, m.sess.Scraped())
	assert.True(t, m.urlEnabled())
	assert.Equal(t, fieldURL, m.focus)
	assert.Contains(t, m.View(), "Failed to scrape website.")

	// Retry succeeds.
	fb.scrapeErr = nil
	m, sent := pressEnter(t, m)
	require.True(t, sent)
	assert.True(t, m.sess.Scraped())
	assert.Equal(t, 2, fb.scrapeCalls)
}

func TestModel_AskFailure(t *testing.T) {
	fb := &fakeBackend{askErr: errors.New("status 500")}
	m := newTestModel(t, fb, sitechat.ProfileAPI)
	m = typeText(t, m, "http://x.test")
	m, _ = pressEnter(t, m)

	m = typeText(t, m, "anything?")
	m, _ = pressEnter(t, m)

	last, ok := m.sess.LastMessage()
	require.True(t, ok)
	assert.Equal(t, sitechat.BotMessage(sitechat.AskFailedText), last)
	assert.True(t, m.questionEnabled())
}

func TestModel_BlankInputDoesNothing(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb, sitechat.ProfileAPI)

	m, sent := pressEnter(t, m)
	assert.False(t, sent)
	assert.Equal(t, 0, fb.scrapeCalls)
	assert.False(t, m.sess.Loading())
}

func TestModel_InputsDisabledWhileLoading(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb, sitechat.ProfileAPI)
	m = typeText(t, m, "http://x.test")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = next.(Model)

	assert.True(t, m.sess.Loading())
	assert.False(t, m.urlEnabled())
	assert.False(t, m.questionEnabled())
	assert.Contains(t, m.View(), "Loading...")

	// A second enter while loading sends nothing.
	_, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	m = update(t, m, cmd())
	assert.NotContains(t, m.View(), "Loading...")
}

func TestModel_WithoutScrapeEndpoint(t *testing.T) {
	fb := &fakeBackend{answer: "Retrieval first."}
	m := newTestModel(t, fb, sitechat.ProfileRAG)

	assert.Equal(t, fieldQuestion, m.focus)
	assert.True(t, m.questionEnabled())
	assert.NotContains(t, m.View(), "URL ")

	m = typeText(t, m, "What is RAG?")
	m, sent := pressEnter(t, m)
	require.True(t, sent)
	assert.Equal(t, 0, fb.scrapeCalls)
	assert.Len(t, m.sess.Transcript(), 2)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, sitechat.ProfileAPI)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestRenderTranscript_Alignment(t *testing.T) {
	out := renderTranscript([]sitechat.Message{
		sitechat.BotMessage("left"),
		sitechat.UserMessage("right"),
	}, 40)

	var botLine, userLine string
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "left"):
			botLine = line
		case strings.Contains(line, "right"):
			userLine = line
		}
	}
	require.NotEmpty(t, botLine)
	require.NotEmpty(t, userLine)
	assert.True(t, strings.HasPrefix(botLine, " left"), "bot bubble should start at the left edge: %q", botLine)
	assert.True(t, strings.HasSuffix(strings.TrimRight(userLine, " "), "right"), "user bubble should end at the right edge: %q", userLine)
	assert.Greater(t, strings.Index(userLine, "right"), 20)
}

func TestModel_CopyLastAnswer(t *testing.T) {
	fb := &fakeBackend{answer: "It is a demo."}
	m := newTestModel(t, fb, sitechat.ProfileAPI)
	var copied []string
	m.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	m = typeText(t, m, "http://x.test")
	m, _ = pressEnter(t, m)
	m = typeText(t, m, "What is this site about?")
	m, _ = pressEnter(t, m)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, []string{"It is a demo."}, copied)
	assert.Contains(t, m.View(), "Copied last answer")

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, m.View(), "Clipboard unavailable")

	// Any other key clears the status.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.NotContains(t, m.View(), "Clipboard unavailable")
}
