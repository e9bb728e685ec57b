// Package gameview defines the contract between playforge and the games it
// runs. It is the only capability surface exposed to interpreted artifact
// code: a generated game imports this package, implements View, and exports
// the entry point the executor looks up after evaluation:
//
//	func NewGameView() gameview.View
//
// in package main. Everything a game can do flows through this interface;
// it has no access to the host beyond receiving events and returning frames.
package gameview

// Event is an input delivered to a mounted view. It is one of TickEvent,
// KeyEvent, or ResizeEvent.
type Event interface{}

// TickEvent advances game time. Delta is seconds elapsed since the
// previous tick.
type TickEvent struct {
	Delta float64
}

// KeyEvent reports a single key press. Key uses terminal key names:
// "up", "down", "left", "right", "enter", "esc", " " for space, or the
// literal character for printable keys.
type KeyEvent struct {
	Key string
}

// ResizeEvent reports a new playfield size in terminal cells.
type ResizeEvent struct {
	Width  int
	Height int
}

// View is a mountable game. The host calls Init once with the playfield
// size, then delivers events through Update until it returns false, at
// which point the view is unmounted and the authoring loop resumes.
type View interface {
	// Init prepares the view for a playfield of the given size in cells.
	Init(width, height int)

	// Update handles one event and reports whether the view should keep
	// running. Returning false ends the game.
	Update(ev Event) bool

	// Render returns the current frame as newline-separated rows. Rows
	// longer than the playfield width are clipped by the terminal.
	Render() string
}
