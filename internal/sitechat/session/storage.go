package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// AmbiguousIDError is returned when multiple archives match a prefix
type AmbiguousIDError struct {
	Prefix  string
	Matches []Archive
}

func (e *AmbiguousIDError) Error() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Ambiguous session ID %q. Multiple matches found:", e.Prefix))
	for _, match := range e.Matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s, %d messages)",
			match.GetShortID(),
			match.Profile,
			match.CreatedAt.Format("2006-01-02"),
			match.MessageCount()))
	}
	lines = append(lines, "")
	lines = append(lines, "Please use a longer prefix or run 'sitechat sessions list'.")
	return strings.Join(lines, "\n")
}

// ErrNotFound is wrapped by lookups that match no archive.
var ErrNotFound = errors.New("session not found")

// ErrInvalidID is wrapped when an archive ID is not a UUID.
var ErrInvalidID = errors.New("invalid session ID")

// checkID rejects anything but a canonical UUID so an ID can never name a
// file outside the store directory.
func checkID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != strings.ToLower(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Store keeps archives as one JSON file per session in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path of the archive with the given full ID. Callers
// validate the ID first.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes an archive to disk
func (s *Store) Save(a *Archive) error {
	if err := checkID(a.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := os.WriteFile(s.Path(a.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads an archive by full ID
func (s *Store) Load(id string) (*Archive, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s\n\nRun 'sitechat sessions list' to see available sessions.", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w\n\nThe session file may be corrupted.", err)
	}

	return &a, nil
}

// Delete removes an archive by full ID
func (s *Store) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.Remove(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all archives sorted by UpdatedAt (newest first)
func (s *Store) List() ([]Archive, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var archives []Archive
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		a, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip corrupted session files
			continue
		}
		archives = append(archives, *a)
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].UpdatedAt.After(archives[j].UpdatedAt)
	})

	return archives, nil
}

// FindByPrefix finds an archive by short ID prefix (minimum 4 characters).
// "latest" returns the most recently updated archive.
func (s *Store) FindByPrefix(prefix string) (*Archive, error) {
	if prefix == "latest" {
		return s.Latest()
	}

	if len(prefix) < 4 {
		return nil, fmt.Errorf("session ID prefix must be at least 4 characters (got %d)", len(prefix))
	}

	// Full UUID
	if len(prefix) == 36 && strings.Count(prefix, "-") == 4 {
		if err := checkID(prefix); err != nil {
			return nil, err
		}
		return s.Load(prefix)
	}

	archives, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []Archive
	for _, a := range archives {
		if strings.HasPrefix(a.ID, prefix) {
			matches = append(matches, a)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s\n\nRun 'sitechat sessions list' to see available sessions.", ErrNotFound, prefix)
	}

	if len(matches) > 1 {
		return nil, &AmbiguousIDError{
			Prefix:  prefix,
			Matches: matches,
		}
	}

	return &matches[0], nil
}

// Latest returns the most recently updated archive
func (s *Store) Latest() (*Archive, error) {
	archives, err := s.List()
	if err != nil {
		return nil, err
	}

	if len(archives) == 0 {
		return nil, fmt.Errorf("%w\n\nSave one with: sitechat chat --save", ErrNotFound)
	}

	return &archives[0], nil
}
