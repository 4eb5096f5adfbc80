// Package nightsearch finds the next date an object satisfies a per-night
// visibility predicate, using an exponential probe followed by binary
// search so the number of predicate evaluations stays logarithmic in the
// horizon instead of linear.
package nightsearch

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nightseek/nightseek/models"
)

// DefaultHorizonDays bounds how far ahead a search may look.
const DefaultHorizonDays = 365

// probeOffsets is the exponential probe schedule in days from the start
// date. Offsets beyond the horizon are skipped.
var probeOffsets = []int{0, 1, 7, 14, 30, 60, 90, 180, 365}

// NightCheck evaluates the predicate for the night starting on date.
// A non-nil error marks the night as inconclusive: the search treats it
// as "not satisfied" and carries on.
type NightCheck func(date time.Time) (ok bool, vis *models.ObjectVisibility, err error)

// Result is the outcome of a search.
type Result struct {
	Found      bool
	Date       time.Time
	Visibility *models.ObjectVisibility
	// Evaluations counts distinct predicate calls, for diagnostics.
	Evaluations int
}

type memoEntry struct {
	ok  bool
	vis *models.ObjectVisibility
}

var logger = log.With().Str("component", "nightsearch").Logger()

// FindFirstNight returns the first day offset in [0, horizonDays] whose
// night satisfies check, or a not-found Result.
//
// The search assumes the predicate is monotone across the horizon: once
// an object's night passes the check, later nights keep passing. That
// holds for fixed deep-sky objects; for movers whose declination drifts
// (comets, asteroids) it is an approximation, and the returned day is the
// boundary of the bracket the probe landed in rather than a guaranteed
// global first.
func FindFirstNight(check NightCheck, start time.Time, horizonDays int) Result {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	memo := make(map[int]memoEntry)
	evals := 0

	eval := func(dayOffset int) memoEntry {
		if e, seen := memo[dayOffset]; seen {
			return e
		}
		evals++
		date := start.AddDate(0, 0, dayOffset)
		ok, vis, err := check(date)
		if err != nil {
			// Inconclusive night: counts as a non-match.
			logger.Debug().Err(err).Int("day", dayOffset).Msg("night check failed")
			ok, vis = false, nil
		}
		e := memoEntry{ok: ok, vis: vis}
		memo[dayOffset] = e
		return e
	}

	lastMiss := 0
	firstHit := -1
	for _, offset := range probeOffsets {
		if offset > horizonDays {
			break
		}
		if eval(offset).ok {
			firstHit = offset
			break
		}
		lastMiss = offset
	}

	if firstHit == -1 {
		return Result{Evaluations: evals}
	}

	// Halve the [lastMiss, firstHit] bracket down to the boundary day.
	for firstHit-lastMiss > 1 {
		mid := (lastMiss + firstHit) / 2
		if eval(mid).ok {
			firstHit = mid
		} else {
			lastMiss = mid
		}
	}

	hit := memo[firstHit]
	return Result{
		Found:       true,
		Date:        start.AddDate(0, 0, firstHit),
		Visibility:  hit.vis,
		Evaluations: evals,
	}
}
