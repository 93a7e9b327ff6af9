// Package hotkey turns process-global key events into logical
// press/release signals for registered combinations.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// ErrRegistrationConflict is returned when a combination is already
// claimed by another registration in this process.
var ErrRegistrationConflict = errors.New("hotkey: combination already registered")

// ErrUnknownKey is returned when a combination names a key that cannot
// be mapped to a keycode.
var ErrUnknownKey = errors.New("hotkey: unknown key")

// Kind distinguishes logical press and release.
type Kind int

const (
	Pressed Kind = iota
	Released
)

func (k Kind) String() string {
	if k == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is one logical hotkey transition. OS auto-repeat is debounced:
// exactly one Pressed is emitted per physical press.
type Event struct {
	Name string
	Kind Kind
	Time time.Time
}

// eventQueueSize bounds the outgoing queue. When the consumer stalls,
// events are dropped with a warning rather than blocking the OS pump.
const eventQueueSize = 32

type binding struct {
	name   string
	keys   []uint16
	active bool
}

func (b *binding) satisfied(pressed map[uint16]bool) bool {
	for _, k := range b.keys {
		if !pressed[k] {
			return false
		}
	}
	return true
}

// Manager registers combinations and runs the gohook event pump.
type Manager struct {
	mu       sync.Mutex
	bindings []*binding
	claimed  map[string]string // combo signature -> name
	started  bool

	events  chan Event
	pressed map[uint16]bool
	done    chan struct{}

	// test seams; default to gohook
	source func() chan hook.Event
	finish func()
}

// NewManager creates an empty hotkey manager.
func NewManager() *Manager {
	return &Manager{
		claimed: make(map[string]string),
		events:  make(chan Event, eventQueueSize),
		pressed: make(map[uint16]bool),
		done:    make(chan struct{}),
		source:  hook.Start,
		finish:  hook.End,
	}
}

// Register claims a combination like "ctrl+shift+r" under a name.
func (m *Manager) Register(name, combo string) error {
	keys, err := parseCombo(combo)
	if err != nil {
		return err
	}

	sig := signature(keys)

	m.mu.Lock()
	defer m.mu.Unlock()

	if owner, ok := m.claimed[sig]; ok {
		return fmt.Errorf("%w: %q claimed by %q", ErrRegistrationConflict, combo, owner)
	}
	m.claimed[sig] = name
	m.bindings = append(m.bindings, &binding{name: name, keys: keys})
	return nil
}

// Start begins listening for global key events.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("hotkey: already started")
	}
	m.started = true
	m.mu.Unlock()

	go m.run(m.source())
	return nil
}

// Stop ends the event pump.
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()

	if !started {
		return
	}
	close(m.done)
	m.finish()
}

// Events returns the logical hotkey event feed.
func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) run(raw chan hook.Event) {
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			m.handle(ev)
		}
	}
}

func (m *Manager) handle(ev hook.Event) {
	switch ev.Kind {
	case hook.KeyDown:
		if m.pressed[ev.Keycode] {
			return // OS auto-repeat
		}
		m.pressed[ev.Keycode] = true
	case hook.KeyHold:
		return // auto-repeat while held
	case hook.KeyUp:
		if !m.pressed[ev.Keycode] {
			return
		}
		delete(m.pressed, ev.Keycode)
	default:
		return
	}

	m.evaluate()
}

// evaluate emits one transition per binding whose satisfaction flipped.
func (m *Manager) evaluate() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bindings {
		sat := b.satisfied(m.pressed)
		switch {
		case sat && !b.active:
			b.active = true
			m.emit(Event{Name: b.name, Kind: Pressed, Time: now})
		case !sat && b.active:
			b.active = false
			m.emit(Event{Name: b.name, Kind: Released, Time: now})
		}
	}
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		slog.Warn("hotkey queue full, dropping event", "name", ev.Name, "kind", ev.Kind.String())
	}
}

// keyAliases maps common alternate key names onto gohook's table.
var keyAliases = map[string]string{
	"control": "ctrl",
	"command": "cmd",
	"win":     "cmd",
	"super":   "cmd",
	"option":  "alt",
	"return":  "enter",
}

func parseCombo(combo string) ([]uint16, error) {
	parts := strings.Split(combo, "+")
	keys := make([]uint16, 0, len(parts))

	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			return nil, fmt.Errorf("%w: empty key in %q", ErrUnknownKey, combo)
		}
		if alias, ok := keyAliases[name]; ok {
			name = alias
		}
		code, ok := hook.Keycode[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnknownKey, name, combo)
		}
		keys = append(keys, code)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty combination", ErrUnknownKey)
	}
	return keys, nil
}

// signature is order-independent so "ctrl+space" and "space+ctrl"
// conflict with each other.
func signature(keys []uint16) string {
	sorted := append([]uint16(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	for i, k := range sorted {
		if i > 0 {
			sb.WriteByte('+')
		}
		fmt.Fprintf(&sb, "%d", k)
	}
	return sb.String()
}
