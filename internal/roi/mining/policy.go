package mining

import (
	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// pickFunc chooses the next cell to grow into from current's neighbours.
// Returning current ends the expansion.
type pickFunc func(s space.MiningSpace, neighbours []ndgrid.CellID, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error)

// handleFunc tries to grow roi into next. It returns next when the region
// grew and expansion continues from there, or current to stop.
type handleFunc func(s space.MiningSpace, roi *space.RoI, next, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error)

// policy is the pair of hooks the template loop delegates to.
type policy struct {
	pick   pickFunc
	handle handleFunc
}

// newPolicy returns the hooks for a. It is called once per seed so policies
// with per-region state start clean.
func newPolicy(a Algorithm) policy {
	switch a {
	case Disjoint:
		return policy{pick: pickDensest, handle: handleDisjoint}
	case Uniform, Hybrid:
		return policy{pick: pickDensest, handle: handleUniform}
	case Slope:
		return policy{pick: pickSlope, handle: handleAppend}
	case Expansive:
		return newExpansivePolicy()
	default:
		return policy{
			pick: func(space.MiningSpace, []ndgrid.CellID, ndgrid.CellID, int) (ndgrid.CellID, error) {
				return 0, errHookUnsupported(a, "pick")
			},
			handle: func(space.MiningSpace, *space.RoI, ndgrid.CellID, ndgrid.CellID, int) (ndgrid.CellID, error) {
				return 0, errHookUnsupported(a, "handle")
			},
		}
	}
}

// pickDensest returns the densest unprocessed neighbour at or above
// minDensity. The first of equally dense neighbours wins.
func pickDensest(s space.MiningSpace, neighbours []ndgrid.CellID, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error) {
	best, bestDensity := current, -1
	for _, nb := range neighbours {
		if s.Processed(nb) {
			continue
		}
		if d := s.Density(nb); d >= minDensity && d > bestDensity {
			best, bestDensity = nb, d
		}
	}
	return best, nil
}

// pickSlope returns the first unprocessed neighbour whose density lies in
// [minDensity, density(current)].
func pickSlope(s space.MiningSpace, neighbours []ndgrid.CellID, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error) {
	ceiling := s.Density(current)
	for _, nb := range neighbours {
		if s.Processed(nb) {
			continue
		}
		if d := s.Density(nb); d >= minDensity && d <= ceiling {
			return nb, nil
		}
	}
	return current, nil
}

// handleAppend adds next to the region unconditionally.
func handleAppend(s space.MiningSpace, roi *space.RoI, next, _ ndgrid.CellID, _ int) (ndgrid.CellID, error) {
	roi.Add(next, s.Density(next))
	s.MarkProcessed(next)
	return next, nil
}

// handleDisjoint adds next unless another region already took it.
func handleDisjoint(s space.MiningSpace, roi *space.RoI, next, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error) {
	if s.Processed(next) {
		return current, nil
	}
	return handleAppend(s, roi, next, current, minDensity)
}

// handleUniform grows roi to the bounding box of roi plus next and keeps the
// box only if its mean density is at least minDensity. Filling the box may
// materialise empty cells in s even when the box is rejected.
func handleUniform(s space.MiningSpace, roi *space.RoI, next, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error) {
	candidate := space.NewRoI(roi.ID + 1)
	candidate.Add(next, s.Density(next))
	candidate.Merge(roi)

	filled := s.RemoveSparsity(candidate)
	if filled == nil || filled.Len() == 0 {
		return current, nil
	}
	// Integer form of mean >= minDensity.
	if filled.Density() < minDensity*filled.Len() {
		return current, nil
	}

	roi.Clear()
	roi.Merge(filled)
	for _, id := range roi.Cells() {
		s.MarkProcessed(id)
	}
	return next, nil
}

// newExpansivePolicy returns Disjoint hooks backed by a pool of qualifying
// neighbours that lost to a denser one. When no neighbour qualifies the
// smallest pooled id that is still unprocessed is tried instead.
func newExpansivePolicy() policy {
	pool := make(map[ndgrid.CellID]struct{})

	pick := func(s space.MiningSpace, neighbours []ndgrid.CellID, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error) {
		best, bestDensity := current, -1
		for _, nb := range neighbours {
			if s.Processed(nb) {
				continue
			}
			d := s.Density(nb)
			if d < minDensity {
				continue
			}
			if d > bestDensity {
				if best != current {
					pool[best] = struct{}{}
				}
				best, bestDensity = nb, d
				continue
			}
			pool[nb] = struct{}{}
		}
		if best != current {
			return best, nil
		}
		for len(pool) > 0 {
			next := smallestID(pool)
			delete(pool, next)
			if !s.Processed(next) {
				return next, nil
			}
		}
		return current, nil
	}

	handle := func(s space.MiningSpace, roi *space.RoI, next, current ndgrid.CellID, minDensity int) (ndgrid.CellID, error) {
		got, err := handleDisjoint(s, roi, next, current, minDensity)
		delete(pool, got)
		return got, err
	}
	return policy{pick: pick, handle: handle}
}

func smallestID(set map[ndgrid.CellID]struct{}) ndgrid.CellID {
	first := true
	var out ndgrid.CellID
	for id := range set {
		if first || id < out {
			out, first = id, false
		}
	}
	return out
}
