package terminal

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Colors for terminal output.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Spinner provides a terminal spinner for long-running operations.
type Spinner struct {
	mu      sync.Mutex
	message string
	running bool
	done    chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		i := 0
		for {
			select {
			case <-s.done:
				return
			default:
				s.mu.Lock()
				msg := s.message
				s.mu.Unlock()

				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Printf("\r%s%s %s%s", Cyan, frame, msg, Reset)
				i++
				time.Sleep(80 * time.Millisecond)
			}
		}
	}()
}

// Update changes the spinner message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.done)
	fmt.Printf("\r%s\r", strings.Repeat(" ", 80))
}

// StopWithMessage stops the spinner and prints a final message.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	fmt.Println(message)
}

// UI helper functions.

// Success prints a green success message.
func Success(msg string) {
	fmt.Printf("%s%s✓%s %s\n", Bold, Green, Reset, msg)
}

// Error prints a red error message.
func Error(msg string) {
	fmt.Printf("%s%s✗%s %s\n", Bold, Red, Reset, msg)
}

// Info prints a blue info message.
func Info(msg string) {
	fmt.Printf("%s%si%s %s\n", Bold, Blue, Reset, msg)
}

// Warning prints a yellow warning message.
func Warning(msg string) {
	fmt.Printf("%s%s!%s %s\n", Bold, Yellow, Reset, msg)
}

// Header prints a bold header.
func Header(msg string) {
	fmt.Printf("\n%s%s%s\n", Bold, msg, Reset)
}

// Detail prints an indented detail line.
func Detail(label, value string) {
	fmt.Printf("  %s%s:%s %s\n", Dim, label, Reset, value)
}

// Divider prints a horizontal line.
func Divider() {
	fmt.Printf("%s%s%s\n", Dim, strings.Repeat("─", 60), Reset)
}

// Banner prints the welcome box with the given version.
func Banner(version string) {
	fmt.Println()
	fmt.Printf("  %s╭─────────────────────────────────╮%s\n", Dim, Reset)
	fmt.Printf("  %s│%s  Playforge %s%-21s%s%s│%s\n", Dim, Reset, Bold, "v"+version, Reset, Dim, Reset)
	fmt.Printf("  %s│%s  Prompt-to-game terminal        %s│%s\n", Dim, Reset, Dim, Reset)
	fmt.Printf("  %s╰─────────────────────────────────╯%s\n", Dim, Reset)
	fmt.Println()
}

// SessionStatusOpts describes the session state shown under the banner.
type SessionStatusOpts struct {
	Model     string
	KeySource string // "session", "environment", "keychain", or "" for none
	GameCount int
}

// SessionStatus prints the model, credential source, and library size.
func SessionStatus(opts SessionStatusOpts) {
	fmt.Printf("  %sModel:%s %s\n", Dim, Reset, opts.Model)

	if opts.KeySource == "" {
		fmt.Printf("  %sAPI key:%s %snot set%s %s— use /key or set XAI_API_KEY%s\n",
			Dim, Reset, Yellow, Reset, Dim, Reset)
	} else {
		fmt.Printf("  %sAPI key:%s %s✓%s from %s\n", Dim, Reset, Green, Reset, opts.KeySource)
	}

	label := "games"
	if opts.GameCount == 1 {
		label = "game"
	}
	fmt.Printf("  %sLibrary:%s %d saved %s\n", Dim, Reset, opts.GameCount, label)
	fmt.Println()
}

// Prompt prints the input prompt.
func Prompt() {
	fmt.Printf("%s> %s", Bold, Reset)
}
