// Package sitechat provides the core abstractions shared by the sitechat client:
// transcript messages, the backend interface and the endpoint contracts a backend
// may speak.
package sitechat

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Fixed transcript texts shown to the user.
const (
	SeedText         = "Hi! Enter a website URL to start."
	ScrapedText      = "Website scraped! Ask your question."
	ScrapeFailedText = "Failed to scrape website."
	AskFailedText    = "Error getting answer."
)

// Backend is the remote question-answering service a session talks to.
//
// Example usage:
//
//	client := backend.NewClient(cfg)
//	if err := client.Scrape(ctx, "https://example.com"); err != nil { ... }
//	answer, err := client.Ask(ctx, "What is this site about?")
type Backend interface {
	// Scrape registers the page at url with the backend so later questions
	// can be answered from it. Only the response status matters.
	Scrape(ctx context.Context, url string) error

	// Ask sends a question and returns the answer text.
	Ask(ctx context.Context, question string) (string, error)
}

// Contract describes the HTTP shape of a backend.
type Contract struct {
	ScrapePath    string // Empty when the backend has no scrape endpoint
	AskPath       string
	QuestionField string // JSON field carrying the question in the ask request
	AnswerField   string // JSON field carrying the answer in the ask response
	RawFallback   bool   // Show the raw response body when the answer field is missing
}

// ScrapeEnabled reports whether the contract has a scrape endpoint.
func (c Contract) ScrapeEnabled() bool {
	return c.ScrapePath != ""
}

// Profile names.
const (
	ProfileAPI = "api"
	ProfileRAG = "rag"
)

var profiles = map[string]Contract{
	ProfileAPI: {
		ScrapePath:    "/api/scrape",
		AskPath:       "/api/chat",
		QuestionField: "question",
		AnswerField:   "answer",
	},
	ProfileRAG: {
		AskPath:       "/rag",
		QuestionField: "query",
		AnswerField:   "result",
		RawFallback:   true,
	},
}

// LookupProfile returns the contract registered under name.
func LookupProfile(name string) (Contract, error) {
	c, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Contract{}, fmt.Errorf("unknown profile: %q (available: %s)", name, strings.Join(ProfileNames(), ", "))
	}
	return c, nil
}

// ProfileNames returns the registered profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
