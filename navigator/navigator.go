// Package navigator keeps the stack of open pages. The root page is fixed at
// construction and is never popped; the top of the stack is the current page.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-catalog/pkg/signal"
)

var (
	// ErrStackUnderflow indicates an attempt to remove the root page.
	ErrStackUnderflow = errors.New("navigator: cannot remove the root page")
	// ErrStackEmpty indicates the navigator holds no pages.
	ErrStackEmpty = errors.New("navigator: page stack is empty")
	// ErrNilPage indicates a nil page was supplied.
	ErrNilPage = errors.New("navigator: page is nil")
	// ErrClosed indicates the navigator was closed.
	ErrClosed = errors.New("navigator: closed")
)

// State names what the current page is doing.
type State string

const (
	ViewingList        State = "viewing-list"
	ViewingProduct     State = "viewing-product"
	ViewingVariant     State = "viewing-variant"
	EditingProduct     State = "editing-product"
	EditingVariant     State = "editing-variant"
	ConfirmingDeletion State = "confirming-deletion"
)

// Page is one screen on the stack. Dispose releases whatever the page
// subscribed to and is called once, when the page leaves the stack.
type Page interface {
	State() State
	Dispose()
}

// Op identifies a stack operation.
type Op int

const (
	OpPush Op = iota
	OpPop
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpReplace:
		return "replace"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Transition describes a completed stack change. From is the page that was
// current before the change and To the page that is current after it.
type Transition struct {
	Op    Op
	From  Page
	To    Page
	Depth int
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger used for stack traces. Defaults to discard.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// Navigator is a LIFO stack of pages.
type Navigator struct {
	mu      sync.Mutex
	stack   []Page
	closed  bool
	logger  *slog.Logger
	changed *signal.Signal[Transition]
}

// New starts a navigator with root as its only page.
func New(root Page, opts ...Option) (*Navigator, error) {
	if root == nil {
		return nil, ErrNilPage
	}
	n := &Navigator{
		stack:   []Page{root},
		logger:  slog.New(slog.DiscardHandler),
		changed: signal.New[Transition](),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n, nil
}

// Push makes page current without touching the pages below it.
func (n *Navigator) Push(page Page) error {
	if page == nil {
		return ErrNilPage
	}
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrClosed
	}
	from := n.stack[len(n.stack)-1]
	n.stack = append(n.stack, page)
	depth := len(n.stack)
	n.mu.Unlock()

	n.logger.Debug("navigator: pushing to page stack", "state", string(page.State()), "depth", depth)
	n.changed.Emit(Transition{Op: OpPush, From: from, To: page, Depth: depth})
	return nil
}

// Pop removes and disposes the current page, returning it. The root page
// cannot be popped.
func (n *Navigator) Pop() (Page, error) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, ErrClosed
	}
	if len(n.stack) <= 1 {
		n.mu.Unlock()
		return nil, ErrStackUnderflow
	}
	top := n.stack[len(n.stack)-1]
	n.stack[len(n.stack)-1] = nil
	n.stack = n.stack[:len(n.stack)-1]
	current := n.stack[len(n.stack)-1]
	depth := len(n.stack)
	n.mu.Unlock()

	top.Dispose()
	n.logger.Debug("navigator: popping from page stack", "state", string(top.State()), "depth", depth)
	n.changed.Emit(Transition{Op: OpPop, From: top, To: current, Depth: depth})
	return top, nil
}

// Replace swaps the current page for page and disposes the old one. The root
// page cannot be replaced.
func (n *Navigator) Replace(page Page) (Page, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, ErrClosed
	}
	if len(n.stack) <= 1 {
		n.mu.Unlock()
		return nil, ErrStackUnderflow
	}
	old := n.stack[len(n.stack)-1]
	n.stack[len(n.stack)-1] = page
	depth := len(n.stack)
	n.mu.Unlock()

	old.Dispose()
	n.logger.Debug("navigator: replacing top of page stack", "from", string(old.State()), "to", string(page.State()), "depth", depth)
	n.changed.Emit(Transition{Op: OpReplace, From: old, To: page, Depth: depth})
	return old, nil
}

// Current returns the top of the stack.
func (n *Navigator) Current() (Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return nil, ErrStackEmpty
	}
	return n.stack[len(n.stack)-1], nil
}

// Root returns the bottom page, or nil once closed.
func (n *Navigator) Root() Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 0 {
		return nil
	}
	return n.stack[0]
}

// Depth reports the number of pages on the stack.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Pages returns the stack bottom first.
func (n *Navigator) Pages() []Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Page(nil), n.stack...)
}

// State reports the current page's state, or "" once closed.
func (n *Navigator) State() State {
	page, err := n.Current()
	if err != nil {
		return ""
	}
	return page.State()
}

// Subscribe registers fn for stack transitions.
func (n *Navigator) Subscribe(fn signal.Listener[Transition]) *signal.Subscription {
	return n.changed.Subscribe(fn)
}

// Close disposes every page, top first, including the root. Later stack
// operations fail with ErrClosed.
func (n *Navigator) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	pages := n.stack
	n.stack = nil
	n.mu.Unlock()

	for i := len(pages) - 1; i >= 0; i-- {
		pages[i].Dispose()
	}
	n.logger.Debug("navigator: closed", "disposed", len(pages))
}
