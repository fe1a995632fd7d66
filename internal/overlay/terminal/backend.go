// Package terminal draws the time progress overlay as a full-width
// progress bar in the controlling terminal.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/thenoetrevino/tempo/internal/overlay"
)

const defaultWidth = 80

// Option configures a Backend
type Option func(*Backend)

// WithOutput renders to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(b *Backend) { b.output = w }
}

// WithInput reads keys from r instead of stdin. A nil reader disables input.
func WithInput(r io.Reader) Option {
	return func(b *Backend) {
		b.input = r
		b.inputSet = true
	}
}

// WithWidth fixes the screen width instead of asking the terminal
func WithWidth(width int) Option {
	return func(b *Backend) { b.width = width }
}

// WithSpan sets what the bar measures (default DaySpan)
func WithSpan(span SpanFunc) Option {
	return func(b *Backend) { b.span = span }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// Backend implements overlay.Windowing on a terminal
type Backend struct {
	output   io.Writer
	input    io.Reader
	inputSet bool
	width    int
	span     SpanFunc
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*Window
}

var _ overlay.Windowing = (*Backend)(nil)

// NewBackend creates a terminal windowing backend
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		output:  os.Stdout,
		span:    DaySpan,
		now:     time.Now,
		windows: make(map[string]*Window),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSpan changes what windows created afterwards measure
func (b *Backend) SetSpan(span SpanFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if span != nil {
		b.span = span
	}
}

// Window returns the running window with the given name
func (b *Backend) Window(name string) (*Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[name]
	return w, ok
}

// ScreenWidth returns the terminal width, or 80 columns when stdout is not a terminal
func (b *Backend) ScreenWidth(ctx context.Context) (int, error) {
	if b.width > 0 {
		return b.width, nil
	}
	if f, ok := b.output.(*os.File); ok && term.IsTerminal(f.Fd()) {
		w, _, err := term.GetSize(f.Fd())
		if err != nil {
			return 0, fmt.Errorf("failed to read terminal size: %w", err)
		}
		return w, nil
	}
	return defaultWidth, nil
}

// CreateWindow starts a program drawing the bar. A second call with the
// same name returns the running window.
func (b *Backend) CreateWindow(ctx context.Context, name string, opts overlay.WindowOptions) (overlay.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w, ok := b.windows[name]; ok {
		return w, nil
	}

	model := NewModel(opts.Title, opts.Width, opts.Visible, opts.AlwaysOnTop, b.now, b.span)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(b.output)}
	if b.inputSet {
		programOpts = append(programOpts, tea.WithInput(b.input))
	}

	w := &Window{
		name:    name,
		program: tea.NewProgram(model, programOpts...),
		done:    make(chan struct{}),
	}
	go w.run()

	b.windows[name] = w
	return w, nil
}

// Window is a running progress bar program
type Window struct {
	name    string
	program *tea.Program
	done    chan struct{}
	err     error
}

var _ overlay.Window = (*Window)(nil)

func (w *Window) run() {
	defer close(w.done)
	if _, err := w.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		w.err = fmt.Errorf("overlay %s stopped: %w", w.name, err)
	}
}

func (w *Window) send(ctx context.Context, msg tea.Msg) error {
	select {
	case <-w.done:
		return fmt.Errorf("overlay %s is not running", w.name)
	default:
	}

	sent := make(chan struct{})
	go func() {
		w.program.Send(msg)
		close(sent)
	}()

	select {
	case <-sent:
		return nil
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Window) Show(ctx context.Context) error {
	return w.send(ctx, visibilityMsg(true))
}

func (w *Window) Hide(ctx context.Context) error {
	return w.send(ctx, visibilityMsg(false))
}

func (w *Window) SetAlwaysOnTop(ctx context.Context, onTop bool) error {
	return w.send(ctx, pinMsg(onTop))
}

// Wait blocks until the program exits
func (w *Window) Wait() error {
	<-w.done
	return w.err
}

// Quit stops the program
func (w *Window) Quit() {
	w.program.Quit()
}
