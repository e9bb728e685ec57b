// Package execute evaluates artifact source as Go code with the yaegi
// interpreter and extracts the game it defines.
//
// Running user-visible text as live code is the whole point of the tool,
// so the risk is bounded rather than removed: every run gets a fresh
// interpreter (no bindings survive between runs or leak from the host),
// imports are restricted to an allowlist of pure compute packages plus the
// gameview capability surface, and evaluation is bounded by a deadline.
// A run that overruns the deadline is abandoned, not interrupted: yaegi
// evaluation is not cancellable, so the abandoned goroutine keeps running
// until the process exits. Artifact code cannot reach the filesystem, the
// network, or the process.
package execute

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/playforge/playforge/internal/gameview"
)

// EntryPoint is the symbol looked up in the evaluated artifact's namespace.
// Artifacts must define, in package main:
//
//	func NewGameView() gameview.View
const EntryPoint = "NewGameView"

var (
	// ErrEmptyArtifact is returned for empty input, before any evaluation.
	ErrEmptyArtifact = errors.New("artifact is empty")
	// ErrMissingEntryPoint is returned when the evaluated artifact does
	// not define the required entry point with the required signature.
	ErrMissingEntryPoint = errors.New("artifact does not define func " + EntryPoint + "() gameview.View")
)

// ExecError is a failure raised by the artifact itself, during evaluation
// or instantiation. It never propagates as a panic: the host stays alive
// and a subsequent Run is always possible.
type ExecError struct {
	Stage  string // "imports", "eval", "instantiate", or "run"
	Detail string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execution failed (%s): %s", e.Stage, e.Detail)
}

// gameviewImport is the one non-stdlib import artifacts may use.
const gameviewImport = "github.com/playforge/playforge/internal/gameview"

// allowedImports is the sandbox allowlist: pure compute packages only.
// os, os/exec, net, net/http, syscall, reflect, unsafe and friends are
// excluded both here and from the interpreter's symbol table.
var allowedImports = map[string]bool{
	"errors":    true,
	"fmt":       true,
	"math":      true,
	"math/rand": true,
	"sort":      true,
	"strconv":   true,
	"strings":   true,
	"time":      true,
	"unicode":   true,

	gameviewImport: true,
}

// Executor runs artifact source in an isolated interpreter. A fresh
// interpreter is created per Run, so two runs of identical source produce
// independent instances with no shared state.
type Executor struct {
	timeout time.Duration
}

// New creates an executor with the default evaluation deadline.
func New() *Executor {
	return &Executor{timeout: 5 * time.Second}
}

// Run evaluates source, looks up the entry point, and instantiates the
// view. The deadline covers evaluation and instantiation, not the mounted
// game's own lifetime.
func (e *Executor) Run(ctx context.Context, source string) (gameview.View, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyArtifact
	}
	src := ensurePackageClause(source)
	if err := checkImports(src); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return instantiate(ctx, src)
}

// FirstFrame initializes a freshly instantiated view and renders one frame,
// converting a panic in the view's code into an ExecError. Callers that
// drive a view outside the mounted program use this instead of calling Init
// and Render directly: interpreted code must never unwind into the host.
func FirstFrame(view gameview.View, width, height int) (frame string, err error) {
	defer func() {
		if r := recover(); r != nil {
			frame = ""
			err = &ExecError{Stage: "run", Detail: fmt.Sprint(r)}
		}
	}()
	view.Init(width, height)
	return view.Render(), nil
}

type outcome struct {
	view gameview.View
	err  error
}

// instantiate evaluates src and calls the entry point in a goroutine so a
// runaway artifact cannot wedge the host past the deadline. On deadline the
// goroutine is abandoned and its evaluation keeps running; runs are
// user-initiated, so a livelocking artifact leaks at most one goroutine per
// run the user submits.
func instantiate(ctx context.Context, src string) (gameview.View, error) {
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: &ExecError{Stage: "instantiate", Detail: fmt.Sprint(r)}}
			}
		}()

		i := interp.New(interp.Options{})
		if err := i.Use(restrictedStdlib()); err != nil {
			ch <- outcome{err: &ExecError{Stage: "eval", Detail: "load stdlib symbols: " + err.Error()}}
			return
		}
		if err := i.Use(gameviewSymbols); err != nil {
			ch <- outcome{err: &ExecError{Stage: "eval", Detail: "load gameview symbols: " + err.Error()}}
			return
		}

		if _, err := i.Eval(src); err != nil {
			ch <- outcome{err: &ExecError{Stage: "eval", Detail: err.Error()}}
			return
		}

		v, err := i.Eval("main." + EntryPoint)
		if err != nil {
			ch <- outcome{err: ErrMissingEntryPoint}
			return
		}
		ctor, ok := v.Interface().(func() gameview.View)
		if !ok {
			ch <- outcome{err: ErrMissingEntryPoint}
			return
		}

		view := ctor()
		if view == nil {
			ch <- outcome{err: &ExecError{Stage: "instantiate", Detail: EntryPoint + " returned nil"}}
			return
		}
		ch <- outcome{view: view}
	}()

	select {
	case out := <-ch:
		return out.view, out.err
	case <-ctx.Done():
		return nil, &ExecError{Stage: "eval", Detail: "deadline exceeded: " + ctx.Err().Error()}
	}
}

// ensurePackageClause wraps bare snippets in package main. Artifacts that
// already declare a package are left untouched.
func ensurePackageClause(src string) string {
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		if strings.HasPrefix(trimmed, "package ") {
			return src
		}
		break
	}
	return "package main\n\n" + src
}

// checkImports parses the artifact's import declarations and rejects
// anything outside the allowlist before the interpreter sees the code.
func checkImports(src string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "artifact.go", src, parser.ImportsOnly)
	if err != nil {
		return &ExecError{Stage: "eval", Detail: err.Error()}
	}

	var forbidden []string
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			p = imp.Path.Value
		}
		if !allowedImports[p] {
			forbidden = append(forbidden, p)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return &ExecError{
			Stage:  "imports",
			Detail: "forbidden imports: " + strings.Join(forbidden, ", "),
		}
	}
	return nil
}

// restrictedStdlib returns the slice of yaegi's stdlib symbol table covered
// by the allowlist. Packages outside it simply do not exist as far as the
// interpreter is concerned.
func restrictedStdlib() interp.Exports {
	out := make(interp.Exports, len(allowedImports))
	for pkg := range allowedImports {
		if pkg == gameviewImport {
			continue
		}
		key := pkg + "/" + path.Base(pkg)
		if symbols, ok := stdlib.Symbols[key]; ok {
			out[key] = symbols
		}
	}
	return out
}
