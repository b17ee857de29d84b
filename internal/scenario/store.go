package scenario

import (
	"fmt"
	"sync"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/physics"
)

// Store holds the read-only catalog and the live wave parameters. Selecting
// a scenario overwrites the live parameters; any later manual edit clears
// the active marker.
type Store struct {
	mu      sync.RWMutex
	catalog []Scenario
	index   map[string]int
	live    physics.WaveParams
	active  string
}

// New builds a store over catalog. Live parameters start from the first
// entry, which is marked active.
func New(catalog []Scenario) *Store {
	s := &Store{
		catalog: append([]Scenario(nil), catalog...),
		index:   make(map[string]int, len(catalog)),
	}
	for i, sc := range s.catalog {
		s.index[sc.ID] = i
	}
	if len(s.catalog) > 0 {
		s.apply(s.catalog[0])
	} else {
		s.live = physics.WaveParams{WaveSpeed: config.DefaultWaveSpeed, Damping: config.DefaultDamping}
	}
	return s
}

func NewDefault() *Store {
	return New(DefaultCatalog())
}

func (s *Store) List() []Scenario {
	return append([]Scenario(nil), s.catalog...)
}

func (s *Store) Get(id string) (Scenario, bool) {
	i, ok := s.index[id]
	if !ok {
		return Scenario{}, false
	}
	return s.catalog[i], true
}

// Select replaces the live parameters with the scenario's. Unknown ids leave
// the live state untouched.
func (s *Store) Select(id string) (Scenario, error) {
	sc, ok := s.Get(id)
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", dynamo.ErrScenarioNotFound, id)
	}
	s.mu.Lock()
	s.apply(sc)
	s.mu.Unlock()
	return sc, nil
}

// Next selects the scenario after the active one, wrapping around. With no
// active scenario it selects the first.
func (s *Store) Next() (Scenario, error) {
	if len(s.catalog) == 0 {
		return Scenario{}, fmt.Errorf("%w: empty catalog", dynamo.ErrScenarioNotFound)
	}
	next := 0
	if id, ok := s.Active(); ok {
		next = (s.index[id] + 1) % len(s.catalog)
	}
	return s.Select(s.catalog[next].ID)
}

func (s *Store) apply(sc Scenario) {
	s.live = sc.Params()
	s.active = sc.ID
}

// Active returns the id of the applied scenario, if no edit followed it.
func (s *Store) Active() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

// Live returns a copy of the current wave parameters.
func (s *Store) Live() physics.WaveParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live.Clone()
}

func (s *Store) edit(fn func(p *physics.WaveParams) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.live); err != nil {
		return err
	}
	s.active = ""
	return nil
}

func (s *Store) checkIndex(p *physics.WaveParams, i int) error {
	if i < 0 || i >= len(p.Sources) {
		return fmt.Errorf("%w: source %d of %d", dynamo.ErrParameterBounds, i, len(p.Sources))
	}
	return nil
}

// SetSource replaces source i after clamping it.
func (s *Store) SetSource(i int, src physics.WaveSource) error {
	return s.edit(func(p *physics.WaveParams) error {
		if err := s.checkIndex(p, i); err != nil {
			return err
		}
		p.Sources[i] = config.ClampSource(src)
		return nil
	})
}

// AddSource appends a clamped source and returns its index.
func (s *Store) AddSource(src physics.WaveSource) int {
	var idx int
	_ = s.edit(func(p *physics.WaveParams) error {
		p.Sources = append(p.Sources, config.ClampSource(src))
		idx = len(p.Sources) - 1
		return nil
	})
	return idx
}

func (s *Store) SetActive(i int, active bool) error {
	return s.edit(func(p *physics.WaveParams) error {
		if err := s.checkIndex(p, i); err != nil {
			return err
		}
		p.Sources[i].Active = active
		return nil
	})
}

func (s *Store) SetWaveSpeed(v float64) {
	_ = s.edit(func(p *physics.WaveParams) error {
		p.WaveSpeed = config.ClampWaveSpeed(v)
		return nil
	})
}

func (s *Store) SetDamping(d float64) {
	_ = s.edit(func(p *physics.WaveParams) error {
		p.Damping = config.ClampDamping(d)
		return nil
	})
}

// Apply replaces the live parameters wholesale, clamping every field.
func (s *Store) Apply(params physics.WaveParams) {
	_ = s.edit(func(p *physics.WaveParams) error {
		out := physics.WaveParams{
			WaveSpeed: config.ClampWaveSpeed(params.WaveSpeed),
			Damping:   config.ClampDamping(params.Damping),
			Sources:   make([]physics.WaveSource, len(params.Sources)),
		}
		for i, src := range params.Sources {
			out.Sources[i] = config.ClampSource(src)
		}
		*p = out
		return nil
	})
}
