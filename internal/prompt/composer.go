// Package prompt builds the text sent to the completions API from the
// user's game description and the surrounding template.
package prompt

import (
	"errors"
	"strings"
)

// ErrEmptyBody is returned when the game description is empty after trimming.
var ErrEmptyBody = errors.New("prompt body is empty")

// DefaultPrefix is prepended to the user's game description unless the user
// overrides it. It pins the model to the playforge artifact contract.
const DefaultPrefix = `I want you to write me a game in Go. This must be a single self-contained file in package main, not relying on multiple source files or external assets. It must define a function NewGameView() gameview.View where gameview is the package github.com/playforge/playforge/internal/gameview. The View interface has three methods: Init(width, height int) is called once with the playfield size in terminal cells; Update(ev gameview.Event) bool receives gameview.TickEvent (with Delta seconds), gameview.KeyEvent (with Key names like "up", "down", "left", "right", "enter", or literal characters), and gameview.ResizeEvent, and returns false to end the game; Render() string returns the current frame as newline-separated rows of plain text. The game runs in a terminal, so draw with ASCII characters only and keep the playfield within the size given to Init. Only import from this list: errors, fmt, math, math/rand, sort, strconv, strings, time, unicode, and the gameview package. The key "q" should always quit. Pay close attention to coordinate systems (y grows downward) so entities move as intended. Now, following these instructions, produce the following game for me:`

// DefaultSuffix is appended after the description unless overridden.
const DefaultSuffix = `Return only the generated Go code as your response, do not include any additional text, explanation, or markdown fences.`

// Spec holds the three user-editable parts of a generation prompt. Fields
// are recomposed fresh on every request; nothing is cached.
type Spec struct {
	Prefix string
	Body   string
	Suffix string
}

// Compose returns the composed prompt for the spec.
func (s Spec) Compose() (string, error) {
	return Compose(s.Prefix, s.Body, s.Suffix)
}

// Compose trims all three parts, joins them with single spaces, and trims
// the result. The body must be non-empty after trimming; prefix and suffix
// may be empty. No escaping or length limiting is applied: upstream token
// limits are the caller's concern.
func Compose(prefix, body, suffix string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	joined := strings.TrimSpace(prefix) + " " + body + " " + strings.TrimSpace(suffix)
	return strings.TrimSpace(joined), nil
}
