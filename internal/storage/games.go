package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
)

// ErrNotFound is returned when a named game does not exist in the library.
var ErrNotFound = errors.New("game not found")

// GameInfo holds library metadata for one saved game. The source itself
// lives in a sibling <slug>.go file so users can open it in an editor.
type GameInfo struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Prompt    string    `json:"prompt,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameStore is the saved-game library backed by a directory of .go files
// plus a games.json index.
type GameStore struct {
	mu  sync.Mutex
	dir string
}

// NewGameStore creates a game store at the given directory.
func NewGameStore(dir string) *GameStore {
	return &GameStore{dir: dir}
}

func (s *GameStore) indexPath() string {
	return filepath.Join(s.dir, "games.json")
}

func (s *GameStore) sourcePath(slug string) string {
	return filepath.Join(s.dir, slug+".go")
}

// Save writes the game source and upserts its index entry. Saving under an
// existing name replaces that game's source.
func (s *GameStore) Save(info GameInfo, source string) (GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(info.Name) == "" {
		return GameInfo{}, fmt.Errorf("game name must not be empty")
	}
	info.Slug = Slugify(info.Name)
	if info.Slug == "" {
		return GameInfo{}, fmt.Errorf("game name %q has no usable characters", info.Name)
	}

	games, err := s.readIndexUnsafe()
	if err != nil {
		return GameInfo{}, err
	}

	now := time.Now()
	info.UpdatedAt = now
	info.CreatedAt = now
	replaced := false
	for i := range games {
		if games[i].Slug == info.Slug {
			info.CreatedAt = games[i].CreatedAt
			games[i] = info
			replaced = true
			break
		}
	}
	if !replaced {
		games = append(games, info)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return GameInfo{}, fmt.Errorf("failed to create games directory: %w", err)
	}
	if err := os.WriteFile(s.sourcePath(info.Slug), []byte(source), 0o644); err != nil {
		return GameInfo{}, fmt.Errorf("failed to write game source: %w", err)
	}
	if err := s.writeIndexUnsafe(games); err != nil {
		return GameInfo{}, err
	}
	return info, nil
}

// Load returns a game's metadata and source by name or slug.
func (s *GameStore) Load(name string) (GameInfo, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.findUnsafe(name)
	if err != nil {
		return GameInfo{}, "", err
	}
	data, err := os.ReadFile(s.sourcePath(info.Slug))
	if err != nil {
		return GameInfo{}, "", fmt.Errorf("failed to read game source: %w", err)
	}
	return info, string(data), nil
}

// List returns all saved games, most recently updated first.
func (s *GameStore) List() ([]GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.readIndexUnsafe()
	if err != nil {
		return nil, err
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].UpdatedAt.After(games[j].UpdatedAt)
	})
	return games, nil
}

// Delete removes a game and its source file.
func (s *GameStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.readIndexUnsafe()
	if err != nil {
		return err
	}
	slug := Slugify(name)
	idx := -1
	for i := range games {
		if games[i].Slug == slug || games[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	removed := games[idx]
	games = append(games[:idx], games[idx+1:]...)

	if err := os.Remove(s.sourcePath(removed.Slug)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove game source: %w", err)
	}
	return s.writeIndexUnsafe(games)
}

func (s *GameStore) findUnsafe(name string) (GameInfo, error) {
	games, err := s.readIndexUnsafe()
	if err != nil {
		return GameInfo{}, err
	}
	slug := Slugify(name)
	for _, g := range games {
		if g.Slug == slug || g.Name == name {
			return g, nil
		}
	}
	return GameInfo{}, ErrNotFound
}

func (s *GameStore) readIndexUnsafe() ([]GameInfo, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read game index: %w", err)
	}
	var games []GameInfo
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("failed to parse game index: %w", err)
	}
	return games, nil
}

func (s *GameStore) writeIndexUnsafe(games []GameInfo) error {
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game index: %w", err)
	}
	return os.WriteFile(s.indexPath(), data, 0o644)
}

// Slugify lowercases a name and collapses anything that isn't a letter or
// digit into single hyphens, producing a safe filename stem.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
