// Package search looks up individual objects by name or designation and
// reports when they can be observed: tonight, on a later date found by
// NightSearch, or never from this latitude.
package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/nightsearch"
	"github.com/nightseek/nightseek/internal/sampler"
	"github.com/nightseek/nightseek/models"
)

const (
	maxDSOResults   = 20
	maxCometResults = 10

	// Objects first visible within this many days count as "soon".
	soonDays = 30
)

// searchMagLimit keeps lookups permissive: a user asking for a faint
// object by name should find it even when the forecast would skip it.
const searchMagLimit = 20.0

var (
	messierPattern = regexp.MustCompile(`^m\s*(\d+)$`)
	ngcICPattern   = regexp.MustCompile(`^(ngc|ic)\s*(\d+)$`)
)

// Result describes one found object and its observability.
type Result struct {
	Object  models.CelestialObject
	RAHours float64
	DecDeg  float64

	Status          models.VisibilityStatus
	VisibleTonight  bool
	NextVisibleDate *time.Time
	Visibility      *models.ObjectVisibility

	NeverVisible       bool
	NeverVisibleReason string
	MaxPossibleAlt     float64

	CanReachOptimal bool
	OptimalNote     string
	NextOptimalDate *time.Time

	IsMovingObject bool
}

// Searcher resolves queries against the catalogs and the oracle.
type Searcher struct {
	oracle      models.PositionOracle
	nights      models.NightOracle
	sampler     *sampler.Sampler
	catalog     models.CatalogProvider
	latitude    float64
	minAlt      float64
	optimalAlt  float64
	horizonDays int
	now         func() time.Time
	logger      zerolog.Logger
}

func NewSearcher(
	oracle models.PositionOracle,
	nights models.NightOracle,
	smp *sampler.Sampler,
	cat models.CatalogProvider,
	latitude, minAlt, optimalAlt float64,
	horizonDays int,
	logger zerolog.Logger,
) *Searcher {
	if minAlt == 0 {
		minAlt = 30
	}
	if optimalAlt == 0 {
		optimalAlt = 45
	}
	if horizonDays <= 0 {
		horizonDays = nightsearch.DefaultHorizonDays
	}
	return &Searcher{
		oracle:      oracle,
		nights:      nights,
		sampler:     smp,
		catalog:     cat,
		latitude:    latitude,
		minAlt:      minAlt,
		optimalAlt:  optimalAlt,
		horizonDays: horizonDays,
		now:         time.Now,
		logger:      logger.With().Str("component", "search").Logger(),
	}
}

// statusOrder sorts results most-actionable first.
var statusOrder = map[models.VisibilityStatus]int{
	models.StatusVisibleTonight: 0,
	models.StatusVisibleSoon:    1,
	models.StatusVisibleLater:   2,
	models.StatusBelowHorizon:   3,
	models.StatusNeverVisible:   4,
}

// Search matches the query against every catalog and classifies each hit.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 20
	}

	matches, err := s.findMatches(ctx, query)
	if err != nil {
		return nil, err
	}

	tonight := s.nights.NightInfo(s.now())

	results := make([]Result, 0, len(matches))
	for _, obj := range matches {
		results = append(results, s.classify(obj, tonight))
		if len(results) >= maxResults {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return statusOrder[results[i].Status] < statusOrder[results[j].Status]
	})
	return results, nil
}

func (s *Searcher) findMatches(ctx context.Context, query string) ([]models.CelestialObject, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("empty search query")
	}

	var matches []models.CelestialObject

	for _, p := range s.catalog.Planets() {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matches = append(matches, p)
		}
	}
	for _, mp := range s.catalog.MinorPlanets() {
		if strings.Contains(strings.ToLower(mp.Name), q) {
			matches = append(matches, mp)
		}
	}

	dsos, err := s.catalog.DeepSkyObjects(ctx, searchMagLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("deep-sky catalog unavailable for search")
	} else {
		matches = append(matches, matchDSOs(q, dsos)...)
	}

	comets, err := s.catalog.Comets(ctx, searchMagLimit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("comet catalog unavailable for search")
	} else {
		matches = append(matches, matchComets(q, comets)...)
	}

	return matches, nil
}

// matchDSOs understands Messier ("m31", "M 31") and NGC/IC ("ngc224",
// "IC 1396") designations, then falls back to substring matching.
func matchDSOs(q string, dsos []models.CelestialObject) []models.CelestialObject {
	var matches []models.CelestialObject

	if m := messierPattern.FindStringSubmatch(q); m != nil {
		want := "m" + m[1]
		for _, dso := range dsos {
			name := strings.ToLower(dso.CommonName)
			if strings.HasPrefix(name, want+" ") || name == want {
				matches = append(matches, dso)
			}
		}
		return matches
	}

	if m := ngcICPattern.FindStringSubmatch(q); m != nil {
		want := strings.ToUpper(m[1]) + " " + m[2]
		for _, dso := range dsos {
			if strings.EqualFold(dso.Name, want) {
				matches = append(matches, dso)
			}
		}
		return matches
	}

	for _, dso := range dsos {
		if strings.Contains(strings.ToLower(dso.Name), q) ||
			strings.Contains(strings.ToLower(dso.CommonName), q) {
			matches = append(matches, dso)
			if len(matches) >= maxDSOResults {
				break
			}
		}
	}
	return matches
}

func matchComets(q string, comets []models.CelestialObject) []models.CelestialObject {
	var matches []models.CelestialObject
	for _, c := range comets {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.CommonName), q) {
			matches = append(matches, c)
			if len(matches) >= maxCometResults {
				break
			}
		}
	}
	return matches
}

// classify determines the visibility status of one object: never visible
// from this latitude, visible tonight, visible on a later date, or not
// visible within the search horizon.
func (s *Searcher) classify(obj models.CelestialObject, tonight models.NightInfo) Result {
	moving := obj.Body.Kind != models.BodyFixed

	res := Result{
		Object:          obj,
		IsMovingObject:  moving,
		CanReachOptimal: true,
	}

	eq, err := s.oracle.Coordinates(obj.Body, s.now())
	if err != nil {
		// Near-parabolic orbits the solver rejects: report as not
		// currently classifiable rather than wrongly "never".
		res.Status = models.StatusBelowHorizon
		res.NeverVisibleReason = "position could not be computed"
		return res
	}
	res.RAHours = eq.RAHours
	res.DecDeg = eq.DecDeg

	res.MaxPossibleAlt = 90 - abs(s.latitude-eq.DecDeg)

	// Fixed objects below the useful window never improve. Moving
	// objects drift, so the hard "never" verdict applies only to fixed
	// coordinates.
	if !moving && res.MaxPossibleAlt < s.minAlt {
		res.Status = models.StatusNeverVisible
		res.NeverVisible = true
		if res.MaxPossibleAlt < 0 {
			res.NeverVisibleReason = fmt.Sprintf("never rises above the horizon at latitude %.1f", s.latitude)
		} else {
			res.NeverVisibleReason = fmt.Sprintf("only reaches %.1f degrees (below the %.0f degree minimum)", res.MaxPossibleAlt, s.minAlt)
		}
		res.CanReachOptimal = false
		return res
	}

	if res.MaxPossibleAlt < s.optimalAlt {
		res.CanReachOptimal = false
		res.OptimalNote = fmt.Sprintf("best altitude from your location: %.0f degrees (never reaches optimal %.0f)", res.MaxPossibleAlt, s.optimalAlt)
	}

	vis := s.sampler.Sample(obj, tonight, s.samplerOptions(obj))
	if vis.IsVisible && vis.MaxAltitude >= s.minAlt {
		res.Status = models.StatusVisibleTonight
		res.VisibleTonight = true
		res.Visibility = &vis
		date := tonight.Date
		res.NextVisibleDate = &date

		if vis.MaxAltitude >= s.optimalAlt {
			res.NextOptimalDate = &date
		} else if res.CanReachOptimal {
			res.NextOptimalDate = s.findNight(obj, tonight.Date.AddDate(0, 0, 1), s.optimalAlt)
		}
		return res
	}

	// Not visible tonight: search ahead for the first qualifying night.
	if next := s.findNightResult(obj, tonight.Date, s.minAlt); next != nil {
		res.Visibility = next.Visibility
		res.NextVisibleDate = &next.Date

		days := int(next.Date.Sub(tonight.Date).Hours() / 24)
		if days <= soonDays {
			res.Status = models.StatusVisibleSoon
		} else {
			res.Status = models.StatusVisibleLater
		}

		if next.Visibility != nil && next.Visibility.MaxAltitude >= s.optimalAlt {
			res.NextOptimalDate = &next.Date
		} else if res.CanReachOptimal {
			res.NextOptimalDate = s.findNight(obj, next.Date.AddDate(0, 0, 1), s.optimalAlt)
		}
		return res
	}

	res.Status = models.StatusBelowHorizon
	res.NeverVisibleReason = "not visible at night within the next year"
	return res
}

type foundNight struct {
	Date       time.Time
	Visibility *models.ObjectVisibility
}

func (s *Searcher) findNightResult(obj models.CelestialObject, start time.Time, altitude float64) *foundNight {
	check := s.altitudeCheck(obj, altitude)
	result := nightsearch.FindFirstNight(check, start, s.horizonDays)
	if !result.Found {
		return nil
	}
	return &foundNight{Date: result.Date, Visibility: result.Visibility}
}

func (s *Searcher) findNight(obj models.CelestialObject, start time.Time, altitude float64) *time.Time {
	if found := s.findNightResult(obj, start, altitude); found != nil {
		return &found.Date
	}
	return nil
}

// altitudeCheck builds the per-date predicate NightSearch probes with.
func (s *Searcher) altitudeCheck(obj models.CelestialObject, altitude float64) nightsearch.NightCheck {
	return func(date time.Time) (bool, *models.ObjectVisibility, error) {
		night := s.nights.NightInfo(date)
		vis := s.sampler.Sample(obj, night, s.samplerOptions(obj))
		return vis.IsVisible && vis.MaxAltitude >= altitude, &vis, nil
	}
}

func (s *Searcher) samplerOptions(obj models.CelestialObject) sampler.Options {
	if obj.Body.Kind == models.BodyKepler {
		return sampler.Coarse()
	}
	return sampler.Fine()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
