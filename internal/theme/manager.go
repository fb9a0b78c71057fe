package theme

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// Manager owns the active theme. It is driven from the UI event loop and is
// not safe for concurrent use.
type Manager struct {
	store    Store
	ambient  func() bool
	fallback Theme
	current  Theme
	onChange func(Palette)
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithAmbient sets the probe for a dark terminal background.
func WithAmbient(isDark func() bool) Option {
	return func(m *Manager) {
		m.ambient = isDark
	}
}

// WithDefault sets the theme used when no preference is saved, taking
// precedence over the ambient probe. An empty theme keeps the probe.
func WithDefault(t Theme) Option {
	return func(m *Manager) {
		m.fallback = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		ambient: lipgloss.HasDarkBackground,
		current: Light,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers the recolor hook called with the new palette after
// every change.
func (m *Manager) OnChange(fn func(Palette)) {
	m.onChange = fn
}

// Init resolves the starting theme: saved preference, then the configured
// default, then the terminal background. A failing store is logged and
// treated as no preference.
func (m *Manager) Init() Theme {
	t, ok, err := m.store.Load()
	switch {
	case err != nil:
		m.logger.Warn("theme preference unreadable", "error", err)
	case ok:
		m.current = t
		m.notify()
		return t
	}

	switch {
	case m.fallback != "":
		m.current = m.fallback
	case m.ambient != nil && m.ambient():
		m.current = Dark
	default:
		m.current = Light
	}
	m.notify()
	return m.current
}

// Toggle flips the theme, applies it, and persists it. The new theme stays
// active when persisting fails; the error is returned for display.
func (m *Manager) Toggle() (Theme, error) {
	m.current = m.current.Toggle()
	m.notify()
	if err := m.store.Save(m.current); err != nil {
		m.logger.Warn("theme preference not saved", "theme", m.current, "error", err)
		return m.current, err
	}
	m.logger.Debug("theme toggled", "theme", m.current)
	return m.current, nil
}

// Current returns the active theme.
func (m *Manager) Current() Theme {
	return m.current
}

// Palette returns the active palette.
func (m *Manager) Palette() Palette {
	return PaletteFor(m.current)
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange(PaletteFor(m.current))
	}
}
