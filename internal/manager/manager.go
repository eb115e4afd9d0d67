package manager

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/chord"
	"github.com/dshills/keychord/internal/command"
	"github.com/dshills/keychord/internal/errs"
	"github.com/dshills/keychord/internal/key"
	"github.com/dshills/keychord/internal/logging"
	"github.com/dshills/keychord/internal/shortcut"
)

// State is the chain state machine.
type State struct {
	// Chain is the chain being typed. It always holds at least one chord;
	// the idle chain is a single empty chord.
	Chain chord.Chain

	// IsAwaitingKeyup suppresses chain additions until every trigger key
	// has been released.
	IsAwaitingKeyup bool

	// IsRecording suppresses triggering and lets the chain grow freely.
	IsRecording bool

	// NextIsChord is set when a chord has been completed and an empty chord
	// opened for the next one.
	NextIsChord bool

	// Untrigger is the shortcut currently triggered, awaiting its keyup
	// execution.
	Untrigger *shortcut.Shortcut
}

// Clone returns a copy of the state with its own chain.
func (s State) Clone() State {
	s.Chain = s.Chain.Clone()
	return s
}

func idleChain() chord.Chain {
	return chord.Chain{chord.Chord{}}
}

// Manager owns the registries and the chain state machine.
type Manager struct {
	mu sync.Mutex

	id        string
	keys      *key.Registry
	commands  *command.Registry
	shortcuts *shortcut.Registry
	state     State
	context   any

	// fired is the command whose keydown ran for state.Untrigger. The
	// keyup goes to it even if the shortcut or command changed since.
	fired *command.Command

	opts     Options
	hooks    Hooks
	timers   map[string]*releaseTimer
	timerGen uint64
	log      *logging.Logger

	// pending holds callbacks to run once the lock is released.
	pending []func()
}

// New creates an empty manager.
func New(opts Options) *Manager {
	opts = opts.withDefaults()
	id := uuid.NewString()
	m := &Manager{
		id:        id,
		keys:      key.NewRegistry(),
		commands:  command.NewRegistry(),
		shortcuts: shortcut.NewRegistry(),
		state:     State{Chain: idleChain()},
		opts:      opts,
		timers:    make(map[string]*releaseTimer),
		log:       opts.Logger.WithComponent("manager").WithField("manager", id[:8]),
	}
	return m
}

// Load adds keys, then commands, then shortcuts with full validation. Every
// entry that fails is skipped and its error collected, so a host building a
// manager from a document sees all problems at once. The returned error
// joins them and is nil when everything loaded.
func (m *Manager) Load(keys []*key.Key, commands []*command.Command, shortcuts []*shortcut.Shortcut) error {
	var all []error
	for _, k := range keys {
		if err := m.AddKey(k, CheckFull); err != nil {
			all = append(all, err)
		}
	}
	for _, c := range commands {
		if err := m.AddCommand(c, CheckFull); err != nil {
			all = append(all, err)
		}
	}
	for _, s := range shortcuts {
		if err := m.AddShortcut(s, CheckFull); err != nil {
			all = append(all, err)
		}
	}
	if len(all) > 0 {
		m.log.Warn("load rejected %d entries", len(all))
	}
	return errors.Join(all...)
}

// ID returns the manager's unique id.
func (m *Manager) ID() string {
	return m.id
}

// Hooks returns the hook set. Register hooks before sharing the manager
// between goroutines.
func (m *Manager) Hooks() *Hooks {
	return &m.hooks
}

// Keys returns the registered keys in registration order.
func (m *Manager) Keys() []*key.Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys.All()
}

// Key returns the key for id, resolving variants and toggle sub-states.
func (m *Manager) Key(id string) *key.Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys.Key(id)
}

// Registry returns a snapshot of the key registry for read-only queries
// such as chain rendering.
func (m *Manager) Registry() *key.Registry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys.Clone()
}

// Commands returns the registered commands in registration order.
func (m *Manager) Commands() []*command.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commands.All()
}

// Command returns the named command, or nil.
func (m *Manager) Command(name string) *command.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commands.Get(name)
}

// Shortcuts returns the registered shortcuts in registration order.
func (m *Manager) Shortcuts() []*shortcut.Shortcut {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shortcuts.All()
}

// State returns a copy of the chain state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Context returns the context value conditions are evaluated against.
func (m *Manager) Context() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.context
}

// SetContext replaces the context value.
func (m *Manager) SetContext(ctx any) error {
	return m.SetManagerProp(ManagerContext, ctx, CheckFull)
}

// SetRecording turns recording on or off.
func (m *Manager) SetRecording(on bool) error {
	return m.SetManagerProp(ManagerIsRecording, on, CheckFull)
}

// Conflicts returns every conflicting pair of registered shortcuts.
func (m *Manager) Conflicts() []shortcut.Pair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return shortcut.Conflicts(m.shortcuts.All(), m.keys, m.conflictOptions())
}

// DoesShortcutConflict reports whether a and b conflict under the manager's
// conflict options.
func (m *Manager) DoesShortcutConflict(a, b *shortcut.Shortcut) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return shortcut.DoesShortcutConflict(a, b, m.keys, m.conflictOptions())
}

// Hints returns the enabled shortcuts whose chains continue the current
// chain. With onlyPressable set, only shortcuts one keypress away are
// returned.
func (m *Manager) Hints(onlyPressable bool) []*shortcut.Shortcut {
	m.mu.Lock()
	defer m.mu.Unlock()

	opts := chord.SubsetOptions{OnlySubset: true, OnlyPressable: onlyPressable, AllowVariants: true}
	var out []*shortcut.Shortcut
	for _, s := range m.shortcuts.All() {
		if !s.Enabled || !m.conditionsHold(s) {
			continue
		}
		if chord.ChainContainsSubset(s.Chain, m.state.Chain, m.keys, opts) {
			out = append(out, s)
		}
	}
	return out
}

// do runs fn under the lock, then runs the callbacks fn queued.
func (m *Manager) do(fn func()) {
	m.mu.Lock()
	fn()
	calls := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, c := range calls {
		c()
	}
}

// doErr is do for functions returning an error.
func (m *Manager) doErr(fn func() error) error {
	var err error
	m.do(func() { err = fn() })
	return err
}

func (m *Manager) queue(fn func()) {
	m.pending = append(m.pending, fn)
}

func (m *Manager) conflictOptions() shortcut.ConflictOptions {
	return shortcut.ConflictOptions{
		Context:                 m.context,
		HasContext:              m.opts.UseContextInConflictCheck,
		Evaluator:               m.opts.Evaluator,
		Equaler:                 m.opts.Equaler,
		IgnoreModifierConflicts: m.opts.IgnoreModifierConflicts,
		IgnoreChainConflicts:    m.opts.IgnoreChainConflicts,
	}
}

// conditionsHold evaluates the shortcut's condition and its command's.
// A missing command imposes no condition.
func (m *Manager) conditionsHold(s *shortcut.Shortcut) bool {
	if !m.opts.Evaluator.Evaluate(s.Condition, m.context) {
		return false
	}
	if c := m.commands.Get(s.Command); c != nil {
		return m.opts.Evaluator.Evaluate(c.Condition, m.context)
	}
	return true
}

// report hands a runtime error to the error callback.
func (m *Manager) report(err error, raw any) {
	if m.opts.OnError != nil {
		fn := m.opts.OnError
		m.queue(func() { fn(m, err, raw) })
		return
	}
	m.log.Warn("%s", errs.Format(err, m.opts.Stringifier))
}

// execute queues the shortcut's command. The keyup runs on the command that
// received the keydown.
func (m *Manager) execute(s *shortcut.Shortcut, isKeydown bool) {
	var c *command.Command
	if isKeydown {
		c = m.commands.Get(s.Command)
		m.fired = c
	} else {
		c, m.fired = m.fired, nil
	}
	if c == nil {
		m.log.Debug("shortcut %s has no command to run", s)
		return
	}
	m.log.Debug("execute %s keydown=%t", c.Name, isKeydown)
	ctx := command.ExecuteContext{
		IsKeydown: isKeydown,
		Shortcut:  s,
		Context:   m.context,
	}
	m.queue(func() { c.Run(ctx) })
}
