package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/storage"
	"github.com/playforge/playforge/internal/terminal"
	"github.com/playforge/playforge/internal/update"
)

// cancelHolder safely shares the active operation cancel func across goroutines.
type cancelHolder struct {
	mu sync.Mutex
	fn context.CancelFunc
}

func (h *cancelHolder) Set(fn context.CancelFunc) {
	h.mu.Lock()
	h.fn = fn
	h.mu.Unlock()
}

// Take returns and clears the current cancel func atomically.
func (h *cancelHolder) Take() context.CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn := h.fn
	h.fn = nil
	return fn
}

func (h *cancelHolder) Clear() {
	h.mu.Lock()
	h.fn = nil
	h.mu.Unlock()
}

func runInteractive(cmd *cobra.Command) error {
	// Print welcome banner first (before config load which may fail)
	terminal.Banner(Version)

	// Check for updates in the background (non-blocking)
	updateCh := make(chan *update.Result, 1)
	go func() {
		updateCh <- update.Check("playforge", "playforge", Version)
	}()

	cfg, err := config.Load()
	if err != nil {
		terminal.Error(fmt.Sprintf("Failed to load configuration: %v", err))
		return err
	}

	sess := newSession(cfg)

	games, _ := sess.games.List()
	terminal.SessionStatus(terminal.SessionStatusOpts{
		Model:     sess.modelName(),
		KeySource: sess.keySourceLabel(),
		GameCount: len(games),
	})

	// Show update warning if a newer version is available
	select {
	case res := <-updateCh:
		if res.NeedsUpdate() {
			terminal.Warning(fmt.Sprintf("Update available: v%s → v%s", res.Current, res.Latest))
			fmt.Println()
		}
	case <-time.After(3 * time.Second):
		// Don't block startup if the check is slow
	}

	fmt.Printf("  %sDescribe a game and press Enter. Esc+Enter for newline. /help for commands.%s\n\n", terminal.Dim, terminal.Reset)

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Track whether an operation is in progress
	var activeCancel cancelHolder

	// Handle signals in background
	go func() {
		for range sigChan {
			if cancel := activeCancel.Take(); cancel != nil {
				// Cancel the running request
				cancel()
				fmt.Println()
				terminal.Warning("Request cancelled.")
				fmt.Println()
				terminal.Prompt()
			} else {
				// No operation running — exit
				fmt.Println()
				terminal.Info("Goodbye!")
				os.Exit(0)
			}
		}
	}()

	for {
		input := terminal.ReadInput()
		if input == "" {
			continue
		}

		// Handle slash commands
		if strings.HasPrefix(input, "/") {
			if handleSlashCommand(input, sess, cmd) {
				continue
			}
		}

		// Handle quit/exit text
		if input == "quit" || input == "exit" {
			terminal.Info("Goodbye!")
			break
		}

		// Plain text is a generation prompt
		ctx, cancel := context.WithCancel(cmd.Context())
		activeCancel.Set(cancel)

		err := sess.generate(ctx, input)
		cancelled := ctx.Err() != nil
		if cleanupCancel := activeCancel.Take(); cleanupCancel != nil {
			cleanupCancel()
		}

		if err != nil {
			if !cancelled {
				terminal.Error(fmt.Sprintf("Generation failed: %v", err))
			}
			fmt.Println()
			continue
		}

		source, _ := sess.slot.Source()
		lines := strings.Count(source, "\n") + 1
		terminal.Success(fmt.Sprintf("Generated %d lines of game code", lines))
		fmt.Printf("%s%s%s\n", terminal.Dim, preview(source, 12), terminal.Reset)
		terminal.Info("Type /run to play it, /show for the full source, /edit to tweak it.")
		fmt.Println()
	}

	return nil
}

// handleSlashCommand processes slash commands. Returns true if the input was handled.
func handleSlashCommand(input string, sess *session, cmd *cobra.Command) bool {
	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch command {
	case "/quit", "/exit":
		terminal.Info("Goodbye!")
		os.Exit(0)
		return true

	case "/help":
		printHelp()
		return true

	case "/run":
		if err := sess.runCurrent(cmd.Context()); err != nil {
			terminal.Error(fmt.Sprintf("Run failed: %v", err))
		}
		fmt.Println()
		return true

	case "/demo":
		sess.stageDemo()
		terminal.Success("Demo loaded. Type /run to play snake.")
		fmt.Println()
		return true

	case "/show":
		if sess.slot.IsEmpty() {
			terminal.Info("Nothing staged yet. Describe a game to generate one.")
		} else {
			fmt.Println()
			terminal.Divider()
			fmt.Println(sess.slot.Display())
			terminal.Divider()
		}
		fmt.Println()
		return true

	case "/edit":
		if err := sess.editCurrent(); err != nil {
			terminal.Error(fmt.Sprintf("Edit failed: %v", err))
		} else {
			terminal.Success("Staged the edited source. Type /run to play it.")
		}
		fmt.Println()
		return true

	case "/save":
		if arg == "" {
			terminal.Warning("Usage: /save <name>")
			fmt.Println()
			return true
		}
		if err := sess.saveCurrent(arg, sess.slotTitle); err != nil {
			terminal.Error(fmt.Sprintf("Save failed: %v", err))
		}
		fmt.Println()
		return true

	case "/load":
		handleLoadCommand(arg, sess)
		return true

	case "/games":
		printGames(sess)
		return true

	case "/prefix":
		handleEnvelopeCommand("prefix", arg, sess)
		return true

	case "/suffix":
		handleEnvelopeCommand("suffix", arg, sess)
		return true

	case "/model":
		handleModelCommand(arg, sess)
		return true

	case "/key":
		handleKeyCommand(sess)
		return true

	case "/usage":
		printUsage(sess)
		return true

	case "/history":
		printHistory(sess)
		return true

	case "/clear":
		sess.slot.Clear()
		sess.slotTitle = ""
		terminal.Success("Cleared the staged game")
		fmt.Println()
		return true

	default:
		terminal.Warning(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", command))
		fmt.Println()
		return true
	}
}

// handleLoadCommand stages a saved game, via picker when no name is given.
func handleLoadCommand(arg string, sess *session) {
	if arg == "" {
		games, err := sess.games.List()
		if err != nil || len(games) == 0 {
			terminal.Info("No saved games yet. Use /save <name> after generating one.")
			fmt.Println()
			return
		}
		var opts []terminal.PickerOption
		for _, g := range games {
			opts = append(opts, terminal.PickerOption{Label: g.Name, Desc: "Updated " + timeAgo(g.UpdatedAt)})
		}
		picked := terminal.Pick("Saved games", opts, "")
		if picked == "" {
			fmt.Println()
			return
		}
		arg = picked
	}

	if err := sess.loadGame(arg); err != nil {
		terminal.Error(fmt.Sprintf("Load failed: %v", err))
	}
	fmt.Println()
}

func printGames(sess *session) {
	games, err := sess.games.List()
	if err != nil {
		terminal.Error(fmt.Sprintf("Failed to list games: %v", err))
		fmt.Println()
		return
	}
	if len(games) == 0 {
		terminal.Info("No saved games yet. Use /save <name> after generating one.")
		fmt.Println()
		return
	}
	fmt.Println()
	terminal.Header("Saved games")
	terminal.Divider()
	for _, g := range games {
		terminal.Detail(g.Name, fmt.Sprintf("updated %s", timeAgo(g.UpdatedAt)))
	}
	fmt.Println()
}

// handleEnvelopeCommand shows or sets the prompt prefix/suffix and persists
// the change to settings.yaml. "default" restores the built-in text.
func handleEnvelopeCommand(which, arg string, sess *session) {
	current := sess.prefix
	set := func(v string) { sess.cfg.Settings.Prefix = v }
	if which == "suffix" {
		current = sess.suffix
		set = func(v string) { sess.cfg.Settings.Suffix = v }
	}

	if arg == "" {
		fmt.Println()
		terminal.Header("Current " + which)
		fmt.Printf("%s%s%s\n\n", terminal.Dim, current(), terminal.Reset)
		terminal.Info(fmt.Sprintf("Set it with /%s <text>, or /%s default to restore the built-in.", which, which))
		fmt.Println()
		return
	}

	if strings.EqualFold(arg, "default") {
		set("")
	} else {
		set(arg)
	}
	if err := sess.cfg.SaveSettings(); err != nil {
		terminal.Error(fmt.Sprintf("Failed to save settings: %v", err))
	} else {
		terminal.Success(fmt.Sprintf("Updated the %s", which))
	}
	fmt.Println()
}

func handleModelCommand(arg string, sess *session) {
	if arg == "" {
		picked := terminal.Pick("Models", []terminal.PickerOption{
			{Label: "grok-3", Desc: "Best quality generations (default)"},
			{Label: "grok-3-mini", Desc: "Faster and cheaper, simpler games"},
		}, sess.modelName())
		if picked != "" {
			sess.model = picked
			terminal.Success(fmt.Sprintf("Model set to %s", picked))
		}
		fmt.Println()
		return
	}
	sess.model = arg
	terminal.Success(fmt.Sprintf("Model set to %s", arg))
	fmt.Println()
}

// handleKeyCommand reads an API key without echo and keeps it in memory for
// this session only. Persisting is a separate, explicit step (`auth set`).
func handleKeyCommand(sess *session) {
	fmt.Printf("  %sxAI API key (input hidden, session only): %s", terminal.Dim, terminal.Reset)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		terminal.Error(fmt.Sprintf("Failed to read key: %v", err))
		fmt.Println()
		return
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		terminal.Info("Key unchanged.")
		fmt.Println()
		return
	}
	sess.sessionKey = key
	terminal.Success("Key set for this session. Run `playforge auth set` to store it in the keychain.")
	fmt.Println()
}

func printUsage(sess *session) {
	usage := sess.usage.Current()
	fmt.Println()
	terminal.Header("Session Usage")
	terminal.Divider()
	terminal.Detail("Requests", fmt.Sprintf("%d", usage.Requests))
	terminal.Detail("Prompt tokens", storage.FormatTokenCount(usage.PromptTokens))
	terminal.Detail("Completion tokens", storage.FormatTokenCount(usage.CompletionTokens))
	if today := sess.usage.TodayUsage(); today != nil {
		terminal.Detail("Today", fmt.Sprintf("%d requests, %s tokens",
			today.Requests, storage.FormatTokenCount(today.PromptTokens+today.CompletionTokens)))
	}
	fmt.Println()
}

func printHistory(sess *session) {
	records, err := sess.history.Recent(10)
	if err != nil {
		terminal.Error(fmt.Sprintf("Failed to read history: %v", err))
		fmt.Println()
		return
	}
	if len(records) == 0 {
		terminal.Info("No prompts yet.")
		fmt.Println()
		return
	}
	fmt.Println()
	terminal.Header("Recent prompts")
	terminal.Divider()
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		mark := terminal.Green + "✓" + terminal.Reset
		if r.Outcome != "code" {
			mark = terminal.Red + "✗" + terminal.Reset
		}
		body := r.Body
		if len(body) > 60 {
			body = body[:60] + "..."
		}
		fmt.Printf("  %s %s %s%s%s\n", mark, body, terminal.Dim, timeAgo(r.CreatedAt), terminal.Reset)
	}
	fmt.Println()
}

func printHelp() {
	fmt.Println()
	terminal.Header("Commands")
	fmt.Printf("  %s/run%s              Mount the staged game%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/demo%s             Load the built-in snake demo%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/show%s             Print the staged source%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/edit%s             Edit the staged source in $EDITOR%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/save <name>%s      Save the staged game to the library%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/load [name]%s      Load a saved game%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/games%s            List saved games%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/prefix [text]%s    Show or set the prompt prefix%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/suffix [text]%s    Show or set the prompt suffix%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/model [name]%s     Show or switch model%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/key%s              Set the xAI API key for this session%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/usage%s            Show token usage%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/history%s          Show recent prompts%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/clear%s            Clear the staged game%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/help%s             Show this help%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Printf("  %s/quit%s             Exit session%s\n", terminal.Bold, terminal.Reset+terminal.Dim, terminal.Reset)
	fmt.Println()
	fmt.Printf("  %sJust type a game description and press Enter to generate.%s\n", terminal.Dim, terminal.Reset)
	fmt.Printf("  %sInside a game: arrows steer, q quits, ctrl+c leaves.%s\n", terminal.Dim, terminal.Reset)
	fmt.Println()
}
