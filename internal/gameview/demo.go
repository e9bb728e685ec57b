package gameview

// DemoSource is the bundled sample artifact: a playable Snake game written
// against the same contract generated code must satisfy. It is staged with
// /demo so the tool can be tried without an API key, and doubles as a
// reference for what the completions API is asked to produce.
const DemoSource = `package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/playforge/playforge/internal/gameview"
)

type point struct{ x, y int }

type snakeGame struct {
	w, h    int
	body    []point
	dir     point
	next    point
	food    point
	score   int
	best    int
	over    bool
	elapsed float64
}

func NewGameView() gameview.View {
	return &snakeGame{}
}

func (g *snakeGame) Init(width, height int) {
	// Leave room for the header row and border.
	width -= 2
	height -= 4
	if width > 58 {
		width = 58
	}
	if width < 16 {
		width = 16
	}
	if height > 22 {
		height = 22
	}
	if height < 8 {
		height = 8
	}
	g.w, g.h = width, height
	g.reset()
}

func (g *snakeGame) reset() {
	cx, cy := g.w/2, g.h/2
	g.body = []point{{cx, cy}, {cx - 1, cy}, {cx - 2, cy}}
	g.dir = point{1, 0}
	g.next = g.dir
	g.score = 0
	g.over = false
	g.elapsed = 0
	g.placeFood()
}

func (g *snakeGame) placeFood() {
	if len(g.body) >= g.w*g.h {
		return
	}
	for {
		p := point{rand.Intn(g.w), rand.Intn(g.h)}
		if !g.occupied(p) {
			g.food = p
			return
		}
	}
}

func (g *snakeGame) occupied(p point) bool {
	for _, b := range g.body {
		if b == p {
			return true
		}
	}
	return false
}

func (g *snakeGame) Update(ev gameview.Event) bool {
	switch e := ev.(type) {
	case gameview.KeyEvent:
		return g.handleKey(e.Key)
	case gameview.TickEvent:
		g.advance(e.Delta)
	}
	return true
}

func (g *snakeGame) handleKey(key string) bool {
	switch key {
	case "q":
		return false
	case "r", "enter":
		if g.over {
			g.reset()
		}
	case "up":
		if g.dir.y == 0 {
			g.next = point{0, -1}
		}
	case "down":
		if g.dir.y == 0 {
			g.next = point{0, 1}
		}
	case "left":
		if g.dir.x == 0 {
			g.next = point{-1, 0}
		}
	case "right":
		if g.dir.x == 0 {
			g.next = point{1, 0}
		}
	}
	return true
}

func (g *snakeGame) advance(delta float64) {
	if g.over {
		return
	}
	g.elapsed += delta
	step := 0.14 - float64(g.score)*0.004
	if step < 0.05 {
		step = 0.05
	}
	if g.elapsed < step {
		return
	}
	g.elapsed = 0

	g.dir = g.next
	head := point{g.body[0].x + g.dir.x, g.body[0].y + g.dir.y}
	if head.x < 0 || head.y < 0 || head.x >= g.w || head.y >= g.h || g.occupied(head) {
		g.over = true
		if g.score > g.best {
			g.best = g.score
		}
		return
	}
	g.body = append([]point{head}, g.body...)
	if head == g.food {
		g.score++
		g.placeFood()
	} else {
		g.body = g.body[:len(g.body)-1]
	}
}

func (g *snakeGame) Render() string {
	grid := make([][]byte, g.h)
	for y := range grid {
		row := make([]byte, g.w)
		for x := range row {
			row[x] = ' '
		}
		grid[y] = row
	}
	grid[g.food.y][g.food.x] = '*'
	for i, b := range g.body {
		c := byte('o')
		if i == 0 {
			c = '@'
		}
		grid[b.y][b.x] = c
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" Snake  score %d", g.score))
	if g.best > 0 {
		sb.WriteString(fmt.Sprintf("  best %d", g.best))
	}
	sb.WriteString("\n")
	sb.WriteString(" +" + strings.Repeat("-", g.w) + "+\n")
	for y := 0; y < g.h; y++ {
		sb.WriteString(" |")
		sb.Write(grid[y])
		sb.WriteString("|\n")
	}
	sb.WriteString(" +" + strings.Repeat("-", g.w) + "+\n")
	if g.over {
		sb.WriteString(" game over: r restarts, q quits")
	} else {
		sb.WriteString(" arrows steer, q quits")
	}
	return sb.String()
}
`
