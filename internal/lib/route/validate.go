package route

import (
	"errors"
	"fmt"
)

// ErrNoPath is returned when a response document carries no route at all
var ErrNoPath = errors.New("route response contains no paths")

// Validate checks the structural invariants every consumer of a RoutePath relies on.
func (p *RoutePath) Validate() error {
	coords := p.Coordinates()
	if len(coords) < 2 {
		return fmt.Errorf("route has %d coordinates, need at least 2", len(coords))
	}
	for i, c := range coords {
		if !c.Valid() {
			return fmt.Errorf("coordinate %d is out of range: %v", i, c)
		}
	}

	if len(p.Instructions) == 0 {
		return errors.New("route has no instructions")
	}

	prevStart := 0
	for i, in := range p.Instructions {
		if in.Interval.End() < in.Interval.Start() {
			return fmt.Errorf("instruction %d interval %v is inverted", i, in.Interval)
		}
		if in.Interval.Start() < 0 || in.Interval.End() > len(coords) {
			return fmt.Errorf("instruction %d interval %v is outside %d coordinates", i, in.Interval, len(coords))
		}
		if in.Interval.Start() < prevStart {
			return fmt.Errorf("instruction %d starts before instruction %d", i, i-1)
		}
		prevStart = in.Interval.Start()
	}

	last := p.Instructions[len(p.Instructions)-1]
	if last.Sign != Finish || last.Distance != 0 {
		return fmt.Errorf("last instruction must be an arrival with zero distance, got sign %d distance %.1f", last.Sign, last.Distance)
	}

	return nil
}

// Validate checks that the response carries a usable primary path.
func (r *RouteResponse) Validate() error {
	path, ok := r.Path()
	if !ok {
		return ErrNoPath
	}
	if err := path.Validate(); err != nil {
		return fmt.Errorf("invalid route path: %w", err)
	}
	return nil
}
