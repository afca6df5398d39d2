// Package config holds the CEL engine's current configuration behind an
// atomically-swappable pointer, so readers never block behind a reload.
package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/halvard/celd/internal/eventkind"
)

// AppSet is a case-insensitive set of application names to track
// APP_START/APP_END for.
type AppSet map[string]struct{}

// NewAppSet builds an AppSet from a comma-separated, trimmed list of
// names, lower-casing each one (spec.md §6, "apps": "comma-separated,
// case-insensitive, trimmed").
func NewAppSet(csv string) AppSet {
	set := AppSet{}
	for _, raw := range strings.Split(csv, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name (compared case-insensitively) is tracked.
func (s AppSet) Has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// Len reports how many applications are tracked.
func (s AppSet) Len() int { return len(s) }

// Names returns the tracked application names in no particular order.
func (s AppSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	return names
}

// Config is the CEL engine's configuration (spec.md §3).
type Config struct {
	Enabled       bool
	DateFormat    string
	TrackedEvents eventkind.Set
	TrackedApps   AppSet
}

// Source is what an external configuration-file parser is expected to
// hand the engine: already split, but not yet validated, fields (spec.md
// §1 keeps the file parser itself out of CORE scope). See
// internal/celconf for a demo reader that produces one of these from the
// on-disk cel.conf format.
type Source struct {
	Enabled    bool
	DateFormat string
	Apps       string // raw comma-separated list
	Events     string // raw comma-separated list
}

// Build validates src and turns it into a Config, applying the invariant
// from spec.md §3: if TrackedApps is non-empty, at least one of
// APP_START/APP_END must be tracked.
func (src Source) Build() (Config, error) {
	events, err := eventkind.ParseList(src.Events)
	if err != nil {
		return Config{}, fmt.Errorf("parsing events: %w", err)
	}

	apps := NewAppSet(src.Apps)

	cfg := Config{
		Enabled:       src.Enabled,
		DateFormat:    src.DateFormat,
		TrackedEvents: events,
		TrackedApps:   apps,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.TrackedApps.Len() > 0 {
		if !cfg.TrackedEvents.Has(eventkind.AppStart) && !cfg.TrackedEvents.Has(eventkind.AppEnd) {
			return fmt.Errorf("applications are listed to be tracked, but APP events are not tracked")
		}
	}
	return nil
}

// Store holds the engine's current Config behind an atomic pointer.
// Reads (Current, IsEnabled, Tracks, TracksApp) never block a concurrent
// Load/Set.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore creates an empty Store. Current returns the zero Config (CEL
// disabled, nothing tracked) until Load or Set succeeds.
func NewStore() *Store {
	s := &Store{}
	zero := Config{TrackedApps: AppSet{}}
	s.current.Store(&zero)
	return s
}

// Load validates src and, on success, installs it as the current
// configuration. On failure the previous configuration is retained and
// an error is returned (spec.md §4.1, §7 "Configuration-rejected").
func (s *Store) Load(src Source) error {
	cfg, err := src.Build()
	if err != nil {
		return err
	}
	s.current.Store(&cfg)
	return nil
}

// Set installs cfg directly as the current configuration after
// validating its invariant.
func (s *Store) Set(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	s.current.Store(&cfg)
	return nil
}

// Current returns the currently installed configuration.
func (s *Store) Current() Config {
	return *s.current.Load()
}

// IsEnabled reports whether CEL is currently enabled.
func (s *Store) IsEnabled() bool {
	return s.current.Load().Enabled
}

// Tracks reports whether kind is in the current tracked-events set.
func (s *Store) Tracks(kind eventkind.Kind) bool {
	return s.current.Load().TrackedEvents.Has(kind)
}

// TracksApp reports whether name (case-insensitively) is in the current
// tracked-apps set.
func (s *Store) TracksApp(name string) bool {
	return s.current.Load().TrackedApps.Has(name)
}
