// Package selection picks the final shortlist for a night from the scored
// candidates. Selection is merit based with no fixed category quotas: a
// minimum score floor, an optional guarantee that every visible category
// appears, and a soft cap per subtype that exceptional scores may exceed.
package selection

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/models"
)

// Options tunes one selection pass.
type Options struct {
	MaxObjects        int
	MinScore          float64
	SoftCapPerSubtype int
	ExceptionalScore  float64
	EnsureCategories  bool
}

// DefaultOptions matches the standard forecast configuration.
var DefaultOptions = Options{
	MaxObjects:        8,
	MinScore:          60,
	SoftCapPerSubtype: 3,
	ExceptionalScore:  180,
	EnsureCategories:  true,
}

// Engine applies the selection policy.
type Engine struct {
	opts   Options
	logger zerolog.Logger
}

func NewEngine(opts Options, logger zerolog.Logger) *Engine {
	return &Engine{
		opts:   opts,
		logger: logger.With().Str("component", "selection").Logger(),
	}
}

// SelectBest returns at most MaxObjects entries sorted by score descending.
// When nothing reaches the floor it falls back to the best available so a
// poor night still produces suggestions.
func (e *Engine) SelectBest(scored []models.ScoredObject) []models.ScoredObject {
	if len(scored) == 0 {
		return nil
	}

	viable := make([]models.ScoredObject, 0, len(scored))
	for _, o := range scored {
		if o.TotalScore >= e.opts.MinScore {
			viable = append(viable, o)
		}
	}

	if len(viable) == 0 {
		all := append([]models.ScoredObject(nil), scored...)
		sortByScore(all)
		if len(all) > e.opts.MaxObjects {
			all = all[:e.opts.MaxObjects]
		}
		e.logger.Debug().Int("count", len(all)).Msg("no object met score floor, using best available")
		return all
	}

	ranked := append([]models.ScoredObject(nil), viable...)
	sortByScore(ranked)

	var selected []models.ScoredObject
	taken := make(map[int]bool)
	subtypeCounts := make(map[models.Subtype]int)

	if e.opts.EnsureCategories {
		// One slot for the best object of each category present, in
		// rank order so ties resolve toward higher scores.
		seen := make(map[models.Category]bool)
		for i, o := range ranked {
			if seen[o.Category] {
				continue
			}
			seen[o.Category] = true
			selected = append(selected, o)
			taken[i] = true
			subtypeCounts[o.Subtype]++
		}
	}

	for i, o := range ranked {
		if len(selected) >= e.opts.MaxObjects {
			break
		}
		if taken[i] {
			continue
		}
		if subtypeCounts[o.Subtype] >= e.opts.SoftCapPerSubtype && o.TotalScore < e.opts.ExceptionalScore {
			continue
		}
		selected = append(selected, o)
		taken[i] = true
		subtypeCounts[o.Subtype]++
	}

	sortByScore(selected)
	if len(selected) > e.opts.MaxObjects {
		selected = selected[:e.opts.MaxObjects]
	}
	return selected
}

func sortByScore(objs []models.ScoredObject) {
	sort.SliceStable(objs, func(i, j int) bool {
		return objs[i].TotalScore > objs[j].TotalScore
	})
}
