package multiply

import (
	"fmt"
	"sort"
	"sync"
)

// Factory is a thread-safe registry of multiplication strategies. Instances
// are created lazily and cached.
type Factory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreMultiplier
	multipliers map[string]Multiplier
}

// NewDefaultFactory returns a factory with the built-in strategies:
//   - "naive": the O(n³) triple loop
//   - "strassen": sequential Strassen recursion
//   - "parallel": Strassen with the seven products dispatched to an executor
func NewDefaultFactory() *Factory {
	f := &Factory{
		creators:    make(map[string]func() coreMultiplier),
		multipliers: make(map[string]Multiplier),
	}
	f.Register(Naive{}.Name(), func() coreMultiplier { return Naive{} })
	f.Register(Strassen{}.Name(), func() coreMultiplier { return Strassen{} })
	f.Register(ParallelStrassen{}.Name(), func() coreMultiplier { return ParallelStrassen{} })
	return f
}

// Register adds or replaces a strategy. A cached instance of the same name
// is dropped.
func (f *Factory) Register(name string, creator func() coreMultiplier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.multipliers, name)
}

// Get returns the strategy registered under name.
//
// Returns:
//   - Multiplier: The cached instance.
//   - error: If no strategy has that name.
func (f *Factory) Get(name string) (Multiplier, error) {
	f.mu.RLock()
	if m, ok := f.multipliers[name]; ok {
		f.mu.RUnlock()
		return m, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.multipliers[name]; ok {
		return m, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown multiplier: %s", name)
	}
	m := NewMultiplier(creator())
	f.multipliers[name] = m
	return m, nil
}

// List returns the registered names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves an algorithm selection. "all" returns every registered
// strategy in List order; any other value must be a registered name.
//
// Parameters:
//   - algo: "all" or a strategy name.
//
// Returns:
//   - []Multiplier: The selected strategies.
//   - error: If algo names no strategy.
func (f *Factory) Select(algo string) ([]Multiplier, error) {
	if algo != "all" {
		m, err := f.Get(algo)
		if err != nil {
			return nil, err
		}
		return []Multiplier{m}, nil
	}
	names := f.List()
	selected := make([]Multiplier, 0, len(names))
	for _, name := range names {
		m, err := f.Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, m)
	}
	return selected, nil
}
