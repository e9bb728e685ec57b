package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/playforge/playforge/internal/artifact"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/execute"
	"github.com/playforge/playforge/internal/gameview"
	"github.com/playforge/playforge/internal/grok"
	"github.com/playforge/playforge/internal/mount"
	"github.com/playforge/playforge/internal/prompt"
	"github.com/playforge/playforge/internal/secrets"
	"github.com/playforge/playforge/internal/storage"
	"github.com/playforge/playforge/internal/terminal"
)

// apiBaseURL overrides the completions endpoint in tests. Empty means the
// client's default.
var apiBaseURL string

// session holds the state of one interactive run: the staged artifact, the
// active credential, and the stores backing /save, /history, and /usage.
type session struct {
	cfg      *config.Config
	slot     *artifact.Slot
	executor *execute.Executor
	mounter  *mount.Mounter
	games    *storage.GameStore
	history  *storage.HistoryStore
	usage    *storage.UsageStore
	secrets  secrets.Store

	// sessionKey is the key set via /key. It lives only in memory.
	sessionKey string

	// model overrides the settings default when set via --model or /model.
	model string

	// generating blocks a second request while one is in flight.
	generating bool

	// slotTitle names the staged game for the mounted status bar.
	slotTitle string
}

func newSession(cfg *config.Config) *session {
	return &session{
		cfg:      cfg,
		slot:     &artifact.Slot{},
		executor: execute.New(),
		mounter:  mount.New(),
		games:    storage.NewGameStore(cfg.GamesDir),
		history:  storage.NewHistoryStore(cfg.Root),
		usage:    storage.NewUsageStore(cfg.Root),
		secrets:  secrets.New(cfg.Root),
		model:    ModelFlag(),
	}
}

// modelName returns the model requests will use, after flag and settings
// fallbacks.
func (s *session) modelName() string {
	if s.model != "" {
		return s.model
	}
	if s.cfg.Settings.Model != "" {
		return s.cfg.Settings.Model
	}
	return "grok-3"
}

// prefix and suffix fall back to the built-in prompt envelope when the user
// has not overridden them.
func (s *session) prefix() string {
	if s.cfg.Settings.Prefix != "" {
		return s.cfg.Settings.Prefix
	}
	return prompt.DefaultPrefix
}

func (s *session) suffix() string {
	if s.cfg.Settings.Suffix != "" {
		return s.cfg.Settings.Suffix
	}
	return prompt.DefaultSuffix
}

// generate sends one composed prompt to the API and stages the outcome in
// the slot: source on success, the failure on error. A second call while one
// is outstanding is refused.
func (s *session) generate(ctx context.Context, body string) error {
	if s.generating {
		return errors.New("a generation request is already in flight")
	}
	s.generating = true
	defer func() { s.generating = false }()

	key, _ := resolveAPIKey(s.sessionKey, s.secrets)
	if key == "" {
		return errors.New("no API key. Use /key, set XAI_API_KEY, or run `playforge auth set`")
	}

	composed, err := prompt.Compose(s.prefix(), body, s.suffix())
	if err != nil {
		return err
	}

	client := grok.NewClient(key, grok.Options{
		Model:       s.modelName(),
		MaxTokens:   s.cfg.Settings.MaxTokens,
		Temperature: s.cfg.Settings.Temperature,
		BaseURL:     apiBaseURL,
	})

	spinner := terminal.NewSpinner("Generating game...")
	spinner.Start()
	res, err := client.Complete(ctx, composed)
	spinner.Stop()

	if err != nil {
		outcome := "error"
		_ = s.history.Append(storage.PromptRecord{Body: body, Model: s.modelName(), Outcome: outcome})

		var apiErr *grok.APIError
		if errors.As(err, &apiErr) {
			s.slot.SetError("request", apiErr.Error())
			if apiErr.Kind == grok.KindAuth {
				return fmt.Errorf("the API rejected the key (HTTP %d). Check it with /key or `playforge auth set`", apiErr.Status)
			}
		}
		return err
	}

	s.slot.SetCode(res.Text, artifact.OriginGenerated)
	s.slotTitle = body
	s.usage.RecordUsage(res.Usage.PromptTokens, res.Usage.CompletionTokens)
	_ = s.history.Append(storage.PromptRecord{Body: body, Model: res.Model, Outcome: "code"})
	return nil
}

// runCurrent evaluates the staged source and mounts the resulting view.
// The code stays staged even when it fails, so the user can /edit it.
func (s *session) runCurrent(ctx context.Context) error {
	source, err := s.slot.Source()
	if err != nil {
		return err
	}

	view, err := s.executor.Run(ctx, source)
	if err != nil {
		return err
	}

	title := s.slotTitle
	if title == "" {
		title = s.slot.Origin().String() + " game"
	}
	return s.mounter.Mount(title, view)
}

// editCurrent writes the staged source to a temp file, opens $EDITOR on it,
// and stages the edited result.
func (s *session) editCurrent() error {
	if s.slot.IsEmpty() {
		return artifact.ErrEmptySlot
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmp, err := os.CreateTemp("", "playforge-*.go")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(s.slot.Display()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	s.slot.SetCode(string(edited), artifact.OriginEdited)
	return nil
}

// saveCurrent stores the staged code in the library.
func (s *session) saveCurrent(name, originPrompt string) error {
	source, err := s.slot.Source()
	if err != nil {
		return err
	}
	info, err := s.games.Save(storage.GameInfo{
		Name:   name,
		Prompt: originPrompt,
		Model:  s.modelName(),
	}, source)
	if err != nil {
		return err
	}
	terminal.Success(fmt.Sprintf("Saved %q to %s", info.Name, filepath.Join(s.cfg.GamesDir, info.Slug+".go")))
	return nil
}

// stageDemo stages the bundled snake game.
func (s *session) stageDemo() {
	s.slot.SetCode(gameview.DemoSource, artifact.OriginDemo)
	s.slotTitle = "snake demo"
}

// loadGame stages a saved game's source.
func (s *session) loadGame(name string) error {
	info, source, err := s.games.Load(name)
	if err != nil {
		return err
	}
	s.slot.SetCode(source, artifact.OriginLoaded)
	s.slotTitle = info.Name
	terminal.Success(fmt.Sprintf("Loaded %q (%s)", info.Name, strings.TrimSpace(timeAgo(info.UpdatedAt))))
	return nil
}

// keySourceLabel reports where the active key would come from, for status.
func (s *session) keySourceLabel() string {
	_, source := resolveAPIKey(s.sessionKey, s.secrets)
	return source
}
