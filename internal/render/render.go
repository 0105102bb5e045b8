// Package render formats bot answers for a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
)

// DefaultWidth is the word wrap width used when the terminal width is unknown.
const DefaultWidth = 100

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Markdown renders text as markdown for the terminal. A JSON object or array
// is wrapped in a code block first. On any renderer error the text is
// returned unchanged.
func Markdown(text string, width int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}

	input := text
	if isJSON(trimmed) {
		input = fmt.Sprintf("```json\n%s\n```", trimmed)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("markdown renderer unavailable")
		return text
	}

	out, err := renderer.Render(input)
	if err != nil {
		log.Debug().Err(err).Msg("markdown render failed")
		return text
	}
	return strings.Trim(out, "\n")
}

// Answer returns text rendered as markdown when w is a terminal and plain is
// false, and text unchanged otherwise.
func Answer(w io.Writer, text string, plain bool) string {
	if plain || !IsTerminal(w) {
		return text
	}
	return Markdown(text, DefaultWidth)
}

func isJSON(s string) bool {
	if !(strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) &&
		!(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) {
		return false
	}
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}
