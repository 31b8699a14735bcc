package stages

import (
	"fmt"
	"sort"
)

// Directory is the immutable lookup table for stage definitions. It is safe
// to share across goroutines without synchronization.
type Directory struct {
	ordered []Definition
	byID    map[ID]int
}

// NewDirectory builds a directory from the given definitions, validating
// that they form a single linear chain: display orders unique and strictly
// increasing, every non-terminal stage pointing at the stage with the next
// display order, and exactly one terminal stage at the end.
func NewDirectory(defs []Definition) (*Directory, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("stage directory requires at least one stage")
	}

	ordered := make([]Definition, len(defs))
	copy(ordered, defs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})

	byID := make(map[ID]int, len(ordered))

	for i, def := range ordered {
		if def.ID == "" {
			return nil, fmt.Errorf("stage at display order %d has empty id", def.DisplayOrder)
		}

		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate stage id %q", def.ID)
		}

		if i > 0 && ordered[i-1].DisplayOrder == def.DisplayOrder {
			return nil, fmt.Errorf("duplicate display order %d", def.DisplayOrder)
		}

		if def.EstimatedDuration < 0 {
			return nil, fmt.Errorf("stage %q has negative estimated duration", def.ID)
		}

		byID[def.ID] = i
	}

	for i, def := range ordered {
		last := i == len(ordered)-1

		if last {
			if !def.Terminal() {
				return nil, fmt.Errorf("last stage %q must not have a next stage", def.ID)
			}

			continue
		}

		if def.Terminal() {
			return nil, fmt.Errorf("stage %q is terminal but not last in display order", def.ID)
		}

		if def.NextStage != ordered[i+1].ID {
			return nil, fmt.Errorf("stage %q points to %q, expected %q", def.ID, def.NextStage, ordered[i+1].ID)
		}
	}

	return &Directory{ordered: ordered, byID: byID}, nil
}

var defaultDirectory = func() *Directory {
	d, err := NewDirectory(definitions())
	if err != nil {
		panic(fmt.Errorf("invalid built-in stage table: %w", err))
	}

	return d
}()

// Default returns the directory built from the built-in 25-stage table.
func Default() *Directory {
	return defaultDirectory
}

// Get returns the definition for the given stage id. The second return is
// false when the id is unknown.
func (d *Directory) Get(id ID) (Definition, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Definition{}, false
	}

	return d.ordered[i], true
}

// All returns every stage definition in display order. The returned slice
// is a copy; callers may not mutate the directory through it.
func (d *Directory) All() []Definition {
	out := make([]Definition, len(d.ordered))
	copy(out, d.ordered)

	return out
}

// NextOf returns the successor of the given stage. The second return is
// false when the id is unknown or the stage is terminal.
func (d *Directory) NextOf(id ID) (Definition, bool) {
	def, ok := d.Get(id)
	if !ok || def.Terminal() {
		return Definition{}, false
	}

	return d.Get(def.NextStage)
}

// First returns the entry stage, the one with the lowest display order.
func (d *Directory) First() Definition {
	return d.ordered[0]
}

// Len returns the number of stages in the directory.
func (d *Directory) Len() int {
	return len(d.ordered)
}
