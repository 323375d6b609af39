package dynamo

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
)

// RunStats summarises one headless run.
type RunStats struct {
	Seed        int64
	Frames      int
	SimTime     float64
	Spawned     int
	Survivors   int
	Removals    map[body.Reason]int
	EnergyDrift float64
}

// Ensemble runs the same configuration under consecutive seeds. Each run
// gets its own engine, so runs never share state.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	Bodies    int
	Frames    int
	Delta     time.Duration
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		cfg:       cfg.Clone(),
		numRuns:   numRuns,
		seedStart: seedStart,
		Bodies:    3,
		Frames:    600,
		Delta:     16 * time.Millisecond,
	}
}

func (e *Ensemble) Run(ctx context.Context) ([]RunStats, error) {
	results := make([]RunStats, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			seed := e.seedStart + int64(idx)
			results[idx], errs[idx] = e.runOne(ctx, seed)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, seed int64) (RunStats, error) {
	cfg := e.cfg.Clone()
	cfg.Seed = seed
	store, err := config.NewStore(cfg)
	if err != nil {
		return RunStats{}, err
	}
	eng, err := New(store, rand.New(rand.NewSource(seed)))
	if err != nil {
		return RunStats{}, err
	}

	stats := RunStats{Seed: seed, Removals: make(map[body.Reason]int)}
	stats.Spawned = eng.Seed(e.Bodies)
	e0 := eng.Energy()

	err = eng.Run(ctx, e.Frames, e.Delta, func(f Frame) bool {
		stats.Frames++
		for _, rm := range f.Removed {
			stats.Removals[rm.Reason]++
		}
		return true
	})
	if err != nil {
		return stats, err
	}

	stats.SimTime = eng.SimTime()
	stats.Survivors = eng.Registry().Len()
	if e0 != 0 && stats.Survivors == stats.Spawned {
		stats.EnergyDrift = math.Abs(eng.Energy()-e0) / math.Abs(e0)
	}
	return stats, nil
}
