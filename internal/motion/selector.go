package motion

// SelectorConfig is the movement type policy.
type SelectorConfig struct {
	EnableLinear   bool
	EnableCurved   bool
	Randomize      bool
	MaxConsecutive int
}

// Counters holds the run length of each style. Only the style used last
// has a non-zero count once a movement has been recorded.
type Counters struct {
	Linear int
	Curved int
}

// Get returns the run length for s.
func (c Counters) Get(s Style) int {
	if s == Linear {
		return c.Linear
	}
	return c.Curved
}

func (c *Counters) set(s Style, v int) {
	if s == Linear {
		c.Linear = v
	} else {
		c.Curved = v
	}
}

// Selector picks the style of the next movement. It is a two state machine
// with a forced switch once a style has been used MaxConsecutive times in a
// row. It is not safe for concurrent use.
type Selector struct {
	cfg      SelectorConfig
	rnd      Rand
	counters Counters
	last     Style
	hasLast  bool
}

// NewSelector validates cfg and returns a selector with empty counters.
func NewSelector(rnd Rand, cfg SelectorConfig) (*Selector, error) {
	if !cfg.EnableLinear && !cfg.EnableCurved {
		return nil, &ConfigError{Field: "movement", Reason: "at least one movement type must be enabled"}
	}
	if cfg.MaxConsecutive < 1 {
		return nil, &ConfigError{Field: "movement.max_consecutive_same_type", Reason: "must be at least 1"}
	}
	return &Selector{cfg: cfg, rnd: rnd}, nil
}

// Enabled lists the eligible styles, linear first.
func (s *Selector) Enabled() []Style {
	styles := make([]Style, 0, 2)
	if s.cfg.EnableLinear {
		styles = append(styles, Linear)
	}
	if s.cfg.EnableCurved {
		styles = append(styles, Curved)
	}
	return styles
}

// CapEnforceable reports whether the consecutive cap can ever force a switch.
// With a single enabled style the cap is ignored.
func (s *Selector) CapEnforceable() bool {
	return s.cfg.EnableLinear && s.cfg.EnableCurved
}

// Select proposes a style without touching the counters.
func (s *Selector) Select() (Style, error) {
	enabled := s.Enabled()
	switch len(enabled) {
	case 0:
		return 0, &ConfigError{Field: "movement", Reason: "at least one movement type must be enabled"}
	case 1:
		return enabled[0], nil
	}

	if !s.cfg.Randomize {
		if s.counters.Linear <= s.counters.Curved {
			return Linear, nil
		}
		return Curved, nil
	}

	return enabled[s.rnd.Intn(len(enabled))], nil
}

// Record updates the counters for a style about to execute and applies the
// consecutive cap. It returns the style that must actually run, which
// differs from chosen only when a forced switch happened.
func (s *Selector) Record(chosen Style) Style {
	if s.hasLast && chosen == s.last {
		s.counters.set(chosen, s.counters.Get(chosen)+1)
	} else {
		s.counters.set(chosen, 1)
		s.counters.set(chosen.Other(), 0)
	}

	if s.counters.Get(chosen) > s.cfg.MaxConsecutive && s.enabled(chosen.Other()) {
		chosen = chosen.Other()
		s.counters.set(chosen, 1)
		s.counters.set(chosen.Other(), 0)
	}

	s.last = chosen
	s.hasLast = true
	return chosen
}

// Next selects and records in one call.
func (s *Selector) Next() (Style, error) {
	style, err := s.Select()
	if err != nil {
		return 0, err
	}
	return s.Record(style), nil
}

// Counters returns a copy of the run counters.
func (s *Selector) Counters() Counters {
	return s.counters
}

// Last returns the most recently recorded style.
func (s *Selector) Last() (Style, bool) {
	return s.last, s.hasLast
}

func (s *Selector) enabled(style Style) bool {
	if style == Linear {
		return s.cfg.EnableLinear
	}
	return s.cfg.EnableCurved
}
