package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/longkey1/sitechat/internal/sitechat"
	"github.com/rs/zerolog/log"
)

// ErrBlankInput is returned by Scrape and Ask when the input is empty after
// trimming. Nothing is sent and the session is left untouched.
var ErrBlankInput = errors.New("input is blank")

// Session is the client side of a conversation with a backend: the URL being
// discussed, whether it has been scraped, whether a request is in flight and
// the transcript shown to the user.
//
// A Session is owned by a single goroutine (the UI loop or a CLI command) and
// is not safe for concurrent use. Event-driven callers use the Begin/Finish
// pairs so the request itself can run elsewhere; Scrape and Ask do both.
type Session struct {
	backend    sitechat.Backend
	url        string
	scraped    bool
	loading    bool
	transcript []sitechat.Message
	startedAt  time.Time
}

// New creates a session bound to backend. When the contract has a scrape
// endpoint the transcript starts with the seed greeting; otherwise there is
// nothing to scrape and the session starts ready for questions.
func New(backend sitechat.Backend, contract sitechat.Contract) *Session {
	s := &Session{
		backend:   backend,
		startedAt: time.Now(),
	}
	if contract.ScrapeEnabled() {
		s.transcript = []sitechat.Message{sitechat.BotMessage(sitechat.SeedText)}
	} else {
		s.scraped = true
		s.transcript = []sitechat.Message{}
	}
	return s
}

// Backend returns the backend the session sends requests to.
func (s *Session) Backend() sitechat.Backend {
	return s.backend
}

// URL returns the last URL submitted for scraping.
func (s *Session) URL() string {
	return s.url
}

// Scraped reports whether a scrape has been acknowledged. It never reverts.
func (s *Session) Scraped() bool {
	return s.scraped
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	return s.loading
}

// StartedAt returns the session creation time.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Transcript returns a copy of the transcript in append order.
func (s *Session) Transcript() []sitechat.Message {
	out := make([]sitechat.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the number of transcript messages.
func (s *Session) Len() int {
	return len(s.transcript)
}

// BeginScrape records url and marks the session loading. It reports false,
// changing nothing, when url is blank. It does not check Scraped: a second
// scrape is allowed and issues a second request.
func (s *Session) BeginScrape(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	s.url = url
	s.loading = true
	return true
}

// FinishScrape applies the outcome of a scrape request. The transcript is
// replaced by a single confirmation or failure message.
func (s *Session) FinishScrape(err error) {
	if err != nil {
		log.Debug().Err(err).Str("url", s.url).Msg("scrape failed")
		s.transcript = []sitechat.Message{sitechat.BotMessage(sitechat.ScrapeFailedText)}
	} else {
		log.Debug().Str("url", s.url).Msg("scrape acknowledged")
		s.scraped = true
		s.transcript = []sitechat.Message{sitechat.BotMessage(sitechat.ScrapedText)}
	}
	s.loading = false
}

// Scrape sends url to the backend and applies the result. The returned error
// is the backend failure, if any; the transcript already reflects it.
func (s *Session) Scrape(ctx context.Context, url string) error {
	if !s.BeginScrape(url) {
		return ErrBlankInput
	}
	err := s.backend.Scrape(ctx, s.url)
	s.FinishScrape(err)
	return err
}

// BeginAsk appends the user's question to the transcript and marks the
// session loading. It reports false, changing nothing, when question is blank.
// Whether the session has been scraped is left to the caller.
func (s *Session) BeginAsk(question string) bool {
	if strings.TrimSpace(question) == "" {
		return false
	}
	s.transcript = append(s.transcript, sitechat.UserMessage(question))
	s.loading = true
	return true
}

// FinishAsk appends exactly one bot message: the answer, or the fixed error
// text when err is non-nil.
func (s *Session) FinishAsk(answer string, err error) {
	if err != nil {
		log.Debug().Err(err).Msg("ask failed")
		answer = sitechat.AskFailedText
	}
	s.transcript = append(s.transcript, sitechat.BotMessage(answer))
	s.loading = false
}

// Ask sends question to the backend and records both sides of the exchange.
func (s *Session) Ask(ctx context.Context, question string) error {
	if !s.BeginAsk(question) {
		return ErrBlankInput
	}
	answer, err := s.backend.Ask(ctx, question)
	s.FinishAsk(answer, err)
	return err
}

// LastMessage returns the most recent transcript entry.
func (s *Session) LastMessage() (sitechat.Message, bool) {
	if len(s.transcript) == 0 {
		return sitechat.Message{}, false
	}
	return s.transcript[len(s.transcript)-1], true
}
