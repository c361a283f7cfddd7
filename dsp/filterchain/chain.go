package filterchain

import "fmt"

type stage struct {
	params Params
	rt     Stage
}

// Chain runs a fixed sequence of stages on one sample stream. It is not safe
// for concurrent use.
type Chain struct {
	registry *Registry
	stages   []stage
}

// New builds a chain from params in order. Stages without an ID are named
// after their position.
func New(registry *Registry, params []Params) (*Chain, error) {
	c := &Chain{registry: registry, stages: make([]stage, len(params))}

	for i, p := range params {
		if p.ID == "" {
			p.ID = fmt.Sprintf("stage%d", i)
		}

		rt, err := c.newStage(p)
		if err != nil {
			return nil, fmt.Errorf("filterchain: stage %d (%s): %w", i, p.Type, err)
		}

		c.stages[i] = stage{params: p, rt: rt}
	}

	return c, nil
}

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Stage returns stage i.
func (c *Chain) Stage(i int) Stage { return c.stages[i].rt }

// Params returns the parameters stage i was built from.
func (c *Chain) Params(i int) Params { return c.stages[i].params }

// Update runs v through every stage and returns the integer output.
// An empty chain passes v through.
func (c *Chain) Update(v int) int {
	for i := range c.stages {
		v = c.stages[i].rt.Update(v)
	}
	return v
}

// UpdateF is Update with the last stage read in floating point.
func (c *Chain) UpdateF(v int) float64 {
	n := len(c.stages)
	if n == 0 {
		return float64(v)
	}

	for i := range n - 1 {
		v = c.stages[i].rt.Update(v)
	}
	return c.stages[n-1].rt.UpdateF(v)
}

// Adjusted returns the IDs of stages whose requested parameters were clamped.
func (c *Chain) Adjusted() []string {
	var ids []string
	for _, s := range c.stages {
		if a, ok := s.rt.(Adjuster); ok && a.Adjusted() {
			ids = append(ids, s.params.ID)
		}
	}
	return ids
}

// State returns a snapshot of every stage.
func (c *Chain) State() State {
	st := State{Stages: make([]StageState, len(c.stages))}
	for i, s := range c.stages {
		ss := s.rt.State()
		ss.ID = s.params.ID
		ss.Type = s.params.Type
		st.Stages[i] = ss
	}
	return st
}

// SetState restores a snapshot taken from a chain with the same stage IDs and
// types. On error the chain is left untouched.
func (c *Chain) SetState(st State) error {
	if len(st.Stages) != len(c.stages) {
		return fmt.Errorf("filterchain: %w: %d stages in state, %d in chain",
			ErrStateMismatch, len(st.Stages), len(c.stages))
	}

	for i, s := range c.stages {
		ss := st.Stages[i]
		if ss.ID != s.params.ID || ss.Type != s.params.Type {
			return fmt.Errorf("filterchain: stage %d: %w: have %s (%s), state has %s (%s)",
				i, ErrStateMismatch, s.params.ID, s.params.Type, ss.ID, ss.Type)
		}
	}

	// Restore into fresh stages so a failure halfway leaves c intact.
	fresh := make([]Stage, len(c.stages))
	for i, s := range c.stages {
		rt, err := c.newStage(s.params)
		if err != nil {
			return fmt.Errorf("filterchain: stage %d (%s): %w", i, s.params.Type, err)
		}

		if err := rt.SetState(st.Stages[i]); err != nil {
			return fmt.Errorf("filterchain: stage %d (%s): %w", i, s.params.Type, err)
		}

		fresh[i] = rt
	}

	for i := range c.stages {
		c.stages[i].rt = fresh[i]
	}

	return nil
}

func (c *Chain) newStage(p Params) (Stage, error) {
	return c.registry.Build(p)
}
