package mining

import (
	"fmt"
	"time"

	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// ProgressFunc receives the fraction of seed candidates handled so far. It is
// called synchronously once per seed; a slow callback slows the run.
type ProgressFunc func(fraction float64)

// Config selects the policy and optional progress reporting for a Miner.
type Config struct {
	Algorithm Algorithm
	Progress  ProgressFunc
}

// Miner runs one region-growing policy over a mining space.
type Miner struct {
	cfg Config
}

// NewMiner validates cfg and returns a Miner.
func NewMiner(cfg Config) (*Miner, error) {
	if !cfg.Algorithm.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(cfg.Algorithm))
	}
	return &Miner{cfg: cfg}, nil
}

// Algorithm returns the configured policy.
func (m *Miner) Algorithm() Algorithm { return m.cfg.Algorithm }

// Run mines s for regions whose cells reach minDensity. Every processed flag
// is cleared before Run returns, so s can be mined again. A nil s, including
// a nil *space.Grid, returns ErrNilSpace.
func (m *Miner) Run(s space.MiningSpace, minDensity int) ([]*space.RoI, error) {
	if g, ok := s.(*space.Grid); s == nil || (ok && g == nil) {
		return nil, ErrNilSpace
	}
	if minDensity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMinDensity, minDensity)
	}

	start := time.Now()
	var (
		rois []*space.RoI
		err  error
	)
	switch m.cfg.Algorithm {
	case Threshold:
		rois = m.runThreshold(s, minDensity)
	case Hybrid:
		rois, err = m.runHybrid(s, minDensity)
	default:
		rois, err = m.grow(s, m.cfg.Algorithm, minDensity, m.cfg.Progress)
	}
	s.UnprocessAll()
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[Miner] %s found %d regions at min density %d in %v",
		m.cfg.Algorithm, len(rois), minDensity, time.Since(start))
	return rois, nil
}

// grow is the seed/expand template. It leaves processed flags set; callers
// decide when to reset.
func (m *Miner) grow(s space.MiningSpace, a Algorithm, minDensity int, progress ProgressFunc) ([]*space.RoI, error) {
	seeds := s.DenseCells()
	var rois []*space.RoI
	nextID := 0
	for i, seed := range seeds {
		if s.Processed(seed) || s.Density(seed) < minDensity {
			s.MarkProcessed(seed)
		} else {
			roi := space.NewRoI(nextID)
			nextID++
			roi.Add(seed, s.Density(seed))
			s.MarkProcessed(seed)
			if err := expand(s, newPolicy(a), roi, seed, minDensity); err != nil {
				return nil, fmt.Errorf("%s expand from cell %d: %w", a, seed, err)
			}
			if roi.Len() > 1 {
				rois = append(rois, roi)
			}
		}
		if progress != nil {
			progress(float64(i+1) / float64(len(seeds)))
		}
	}
	return rois, nil
}

// expand walks from current until the policy stops choosing a new cell.
func expand(s space.MiningSpace, p policy, roi *space.RoI, current ndgrid.CellID, minDensity int) error {
	for {
		picked, err := p.pick(s, s.NeighbourCells(current), current, minDensity)
		if err != nil {
			return err
		}
		if picked == current {
			return nil
		}
		next, err := p.handle(s, roi, picked, current, minDensity)
		if err != nil {
			return err
		}
		if next == current {
			return nil
		}
		current = next
	}
}

// runThreshold gathers every cell at or above minDensity into region 1,
// ignoring adjacency. It returns no regions when nothing qualifies.
func (m *Miner) runThreshold(s space.MiningSpace, minDensity int) []*space.RoI {
	seeds := s.DenseCells()
	var roi *space.RoI
	for i, id := range seeds {
		if d := s.Density(id); d >= minDensity {
			if roi == nil {
				roi = space.NewRoI(1)
			}
			roi.Add(id, d)
			s.MarkProcessed(id)
		}
		if m.cfg.Progress != nil {
			m.cfg.Progress(float64(i+1) / float64(len(seeds)))
		}
	}
	if roi == nil {
		return nil
	}
	return []*space.RoI{roi}
}

// runHybrid mines Uniform boxes, then reopens each box and lets Slope carve
// it into monotonic paths. Flags persist between the phases so Slope only
// sees the reopened cells. Region ids are renumbered from 0.
func (m *Miner) runHybrid(s space.MiningSpace, minDensity int) ([]*space.RoI, error) {
	boxes, err := m.grow(s, Uniform, minDensity, m.cfg.Progress)
	if err != nil {
		return nil, err
	}
	var out []*space.RoI
	for _, box := range boxes {
		for _, id := range box.Cells() {
			s.MarkUnprocessed(id)
		}
		refined, err := m.grow(s, Slope, minDensity, nil)
		if err != nil {
			return nil, err
		}
		for _, r := range refined {
			r.ID = len(out)
			out = append(out, r)
		}
	}
	return out, nil
}
