// Package events detects night-specific happenings beyond plain object
// visibility: active meteor showers (with radiant altitude and moonlight
// conditions at mid-night) and close approaches between the bright planets
// and the Moon.
package events

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/astro"
	"github.com/nightseek/nightseek/models"
)

// notableSeparationDeg is the cutoff below which a conjunction is worth
// calling out on its own; conjunctionScanDeg is how wide the scan looks.
const (
	notableSeparationDeg = 5.0
	conjunctionScanDeg   = 10.0
	conjunctionMinAltDeg = 15.0
)

// ActiveShower is a calendar shower that is active on a given night,
// annotated with the observing conditions at mid-night.
type ActiveShower struct {
	MeteorShower
	DaysFromPeak        int
	RadiantAltitudeDeg  float64
	MoonIlluminationPct float64
	MoonSeparationDeg   float64
}

// Conjunction is a close approach between two bright objects, evaluated at
// the middle of the night.
type Conjunction struct {
	Object1       string
	Object2       string
	SeparationDeg float64
	Time          time.Time
	Description   string
}

// IsNotable reports whether the pair is close enough to headline.
func (c Conjunction) IsNotable() bool {
	return c.SeparationDeg < notableSeparationDeg
}

// Candidate pairs a catalog object with its sampled visibility for the
// night under consideration.
type Candidate struct {
	Object     models.CelestialObject
	Visibility models.ObjectVisibility
}

// Detector finds showers and conjunctions for one observer location.
type Detector struct {
	oracle models.PositionOracle
	logger zerolog.Logger
}

func NewDetector(oracle models.PositionOracle, logger zerolog.Logger) *Detector {
	return &Detector{
		oracle: oracle,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// ActiveShowers returns the showers whose activity window covers the
// night's date. Showers are only reported when the night has real
// astronomical darkness; without bounds there is no mid-night to evaluate
// the radiant at.
func (d *Detector) ActiveShowers(night models.NightInfo) []ActiveShower {
	if !night.Bounds.Valid() {
		return nil
	}

	mid := midNight(night.Bounds)
	date := truncateToDay(night.Date)

	var active []ActiveShower
	for _, shower := range meteorShowers {
		peak, ok := activityWindowContains(shower, date)
		if !ok {
			continue
		}

		radiant := models.FixedBody(shower.Name, shower.RadiantRADeg/15.0, shower.RadiantDecDeg)
		radiantPos, err := d.oracle.Observe(radiant, mid)
		if err != nil {
			d.logger.Debug().Err(err).Str("shower", shower.Code).Msg("radiant position failed")
			continue
		}
		moonPos, err := d.oracle.Observe(models.MoonBody, mid)
		if err != nil {
			d.logger.Debug().Err(err).Str("shower", shower.Code).Msg("moon position failed")
			continue
		}

		daysFromPeak := int(date.Sub(peak).Hours() / 24)
		if daysFromPeak < 0 {
			daysFromPeak = -daysFromPeak
		}

		active = append(active, ActiveShower{
			MeteorShower:        shower,
			DaysFromPeak:        daysFromPeak,
			RadiantAltitudeDeg:  radiantPos.AltitudeDeg,
			MoonIlluminationPct: night.MoonIllumination,
			MoonSeparationDeg:   astro.Separation(radiantPos, moonPos),
		})
	}
	return active
}

// activityWindowContains reports whether date falls inside the shower's
// activity window and returns the peak date of that activity cycle.
// Year-crossing showers (Quadrantids, Ursids tail) anchor the window on
// whichever side of the new year the date sits.
func activityWindowContains(s MeteorShower, date time.Time) (time.Time, bool) {
	loc := date.Location()
	start := time.Date(date.Year(), time.Month(s.StartMonth), s.StartDay, 0, 0, 0, 0, loc)
	end := time.Date(date.Year(), time.Month(s.EndMonth), s.EndDay, 0, 0, 0, 0, loc)
	peak := time.Date(date.Year(), time.Month(s.PeakMonth), s.PeakDay, 0, 0, 0, 0, loc)

	if s.StartMonth > s.EndMonth {
		if int(date.Month()) >= s.StartMonth {
			end = end.AddDate(1, 0, 0)
			if s.PeakMonth < s.StartMonth {
				peak = peak.AddDate(1, 0, 0)
			}
		} else {
			start = start.AddDate(-1, 0, 0)
			if s.PeakMonth >= s.StartMonth {
				peak = peak.AddDate(-1, 0, 0)
			}
		}
	}

	if date.Before(start) || date.After(end) {
		return time.Time{}, false
	}
	return peak, true
}

// Conjunctions scans the visible planets (and the Moon against them) for
// close pairs at mid-night. Results come back closest first.
func (d *Detector) Conjunctions(candidates []Candidate, night models.NightInfo) []Conjunction {
	if !night.Bounds.Valid() {
		return nil
	}
	mid := midNight(night.Bounds)

	type placed struct {
		name string
		pos  models.HorizontalPosition
	}
	var planets []placed
	for _, c := range candidates {
		if c.Object.Category != models.CategoryPlanet {
			continue
		}
		if !c.Visibility.IsVisible || c.Visibility.MaxAltitude < conjunctionMinAltDeg {
			continue
		}
		pos, err := d.oracle.Observe(c.Object.Body, mid)
		if err != nil {
			d.logger.Debug().Err(err).Str("object", c.Object.Name).Msg("planet position failed")
			continue
		}
		planets = append(planets, placed{name: c.Object.Name, pos: pos})
	}

	var conjunctions []Conjunction
	for i := 0; i < len(planets); i++ {
		for j := i + 1; j < len(planets); j++ {
			sep := astro.Separation(planets[i].pos, planets[j].pos)
			if sep >= conjunctionScanDeg {
				continue
			}
			conjunctions = append(conjunctions, Conjunction{
				Object1:       planets[i].name,
				Object2:       planets[j].name,
				SeparationDeg: sep,
				Time:          mid,
				Description:   planetPairDescription(planets[i].name, planets[j].name, sep),
			})
		}
	}

	if moonPos, err := d.oracle.Observe(models.MoonBody, mid); err == nil {
		for _, p := range planets {
			sep := astro.Separation(moonPos, p.pos)
			if sep >= conjunctionScanDeg {
				continue
			}
			conjunctions = append(conjunctions, Conjunction{
				Object1:       "Moon",
				Object2:       p.name,
				SeparationDeg: sep,
				Time:          mid,
				Description:   moonPairDescription(p.name, sep),
			})
		}
	} else {
		d.logger.Debug().Err(err).Msg("moon position failed")
	}

	sort.Slice(conjunctions, func(i, j int) bool {
		return conjunctions[i].SeparationDeg < conjunctions[j].SeparationDeg
	})
	return conjunctions
}

func planetPairDescription(a, b string, sep float64) string {
	switch {
	case sep < 2:
		return fmt.Sprintf("Close conjunction: %s and %s only %.1f degrees apart", a, b, sep)
	case sep < notableSeparationDeg:
		return fmt.Sprintf("%s near %s (%.1f degrees)", a, b, sep)
	default:
		return fmt.Sprintf("%s and %s within %.1f degrees", a, b, sep)
	}
}

func moonPairDescription(planet string, sep float64) string {
	switch {
	case sep < 2:
		return fmt.Sprintf("Moon very close to %s (%.1f degrees), great photo opportunity", planet, sep)
	case sep < notableSeparationDeg:
		return fmt.Sprintf("Moon near %s (%.1f degrees)", planet, sep)
	default:
		return fmt.Sprintf("Moon and %s within %.1f degrees", planet, sep)
	}
}

func midNight(b models.NightBounds) time.Time {
	return b.Dusk.Add(b.Dawn.Sub(b.Dusk) / 2)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
