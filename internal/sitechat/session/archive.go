package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/sitechat/internal/sitechat"
)

// Archive is the saved form of a finished session
type Archive struct {
	ID        string             `json:"id"`       // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Name      string             `json:"name"`     // Optional archive name (empty by default)
	URL       string             `json:"url"`      // Scraped URL, empty for backends without scraping
	Scraped   bool               `json:"scraped"`  // Whether the scrape was acknowledged
	Profile   string             `json:"profile"`  // Contract profile the session used
	BaseURL   string             `json:"base_url"` // Backend address
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Messages  []sitechat.Message `json:"messages"`
}

// NewArchive snapshots the session's transcript under a fresh ID
func NewArchive(s *Session, profile, baseURL string) *Archive {
	return &Archive{
		ID:        uuid.New().String(),
		URL:       s.URL(),
		Scraped:   s.Scraped(),
		Profile:   profile,
		BaseURL:   baseURL,
		CreatedAt: s.StartedAt(),
		UpdatedAt: time.Now(),
		Messages:  s.Transcript(),
	}
}

// GetShortID returns the shortened archive ID (first 8 characters)
func (a *Archive) GetShortID() string {
	if len(a.ID) >= 8 {
		return a.ID[:8]
	}
	return a.ID
}

// GetDisplayName returns the name if set, otherwise the short ID
func (a *Archive) GetDisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.GetShortID()
}

// MessageCount returns the number of messages in the archive
func (a *Archive) MessageCount() int {
	return len(a.Messages)
}
