// Package sampler turns a night's altitude curve into a structured
// visibility record: peak altitude, threshold windows, and moon state.
package sampler

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nightseek/nightseek/internal/astro"
	"github.com/nightseek/nightseek/models"
)

// Default altitude thresholds in degrees. Windows for higher thresholds
// are always contained in windows for lower ones.
var DefaultThresholds = [3]float64{45, 60, 75}

// Moon warning rule: the warning fires for diffuse targets when the moon
// is bright and close.
const (
	moonWarnIllumination = 50.0 // percent
	moonWarnSeparation   = 30.0 // degrees
)

// Options configures one sampling run.
type Options struct {
	Interval   time.Duration // spacing between samples
	Thresholds [3]float64    // altitude thresholds, ascending
}

// Coarse is the cheap preset used by multi-night searches; Fine is the
// preset used for the nights actually shown to the observer.
func Coarse() Options { return Options{Interval: 60 * time.Minute, Thresholds: DefaultThresholds} }
func Fine() Options   { return Options{Interval: 10 * time.Minute, Thresholds: DefaultThresholds} }

// Sampler computes per-night visibility records through a position oracle.
type Sampler struct {
	oracle models.PositionOracle
	logger zerolog.Logger
}

// New creates a Sampler backed by the given oracle.
func New(oracle models.PositionOracle) *Sampler {
	return &Sampler{
		oracle: oracle,
		logger: log.With().Str("component", "sampler").Logger(),
	}
}

// Sample computes the visibility of one object across one night.
//
// The altitude curve is built from evenly spaced samples between dusk and
// dawn, fetched in a single batched oracle call. Threshold windows run
// from the first to the last sample at or above each threshold, at sample
// granularity. When the night has no valid bounds (polar conditions) a
// zero-valued non-visible record is returned; the sampler never fails.
func (s *Sampler) Sample(obj models.CelestialObject, night models.NightInfo, opts Options) models.ObjectVisibility {
	vis := models.ObjectVisibility{
		ObjectName: obj.DisplayName(),
		Category:   obj.Category,
		Subtype:    obj.Subtype,
		Magnitude:  obj.Magnitude,
	}

	if !night.Bounds.Valid() {
		return vis
	}
	if opts.Interval <= 0 {
		opts.Interval = Fine().Interval
	}
	if opts.Thresholds == [3]float64{} {
		opts.Thresholds = DefaultThresholds
	}

	start, end := night.Bounds.Dusk, night.Bounds.Dawn
	if !end.After(start) {
		// Bounds supplied by an external caller may still wrap midnight.
		end = end.Add(24 * time.Hour)
	}

	times := make([]time.Time, 0, int(end.Sub(start)/opts.Interval)+1)
	for t := start; !t.After(end); t = t.Add(opts.Interval) {
		times = append(times, t)
	}

	positions, err := s.oracle.ObserveBatch(obj.Body, times)
	if err != nil {
		// An unresolvable position (e.g. a near-parabolic comet) is
		// inconclusive, not fatal: report the object as not visible.
		s.logger.Debug().Err(err).Str("object", obj.Name).Msg("position lookup failed")
		return vis
	}

	samples := make([]models.AltitudeSample, len(times))
	peak := 0
	for i, pos := range positions {
		samples[i] = models.AltitudeSample{
			Time:        times[i],
			AltitudeDeg: pos.AltitudeDeg,
			AzimuthDeg:  pos.AzimuthDeg,
		}
		if pos.AltitudeDeg > samples[peak].AltitudeDeg {
			peak = i
		}
	}

	vis.MaxAltitude = samples[peak].AltitudeDeg
	vis.IsVisible = vis.MaxAltitude > 0

	if vis.IsVisible {
		peakTime := samples[peak].Time
		peakAz := samples[peak].AzimuthDeg
		vis.MaxAltitudeTime = &peakTime
		vis.AzimuthAtPeak = &peakAz

		airmass := astro.Airmass(vis.MaxAltitude)
		vis.MinAirmass = &airmass
	}

	vis.Above45 = thresholdWindow(samples, opts.Thresholds[0])
	vis.Above60 = thresholdWindow(samples, opts.Thresholds[1])
	vis.Above75 = thresholdWindow(samples, opts.Thresholds[2])

	if vis.IsVisible {
		s.attachMoonState(obj, night, &vis, samples[peak])
	}

	return vis
}

// thresholdWindow spans the first to the last sample at or above the
// threshold. No sub-sample interpolation: edges are reported at the
// sampling granularity.
func thresholdWindow(samples []models.AltitudeSample, threshold float64) *models.AltitudeWindow {
	first, last := -1, -1
	for i, smp := range samples {
		if smp.AltitudeDeg >= threshold {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return nil
	}
	return &models.AltitudeWindow{Start: samples[first].Time, End: samples[last].Time}
}

// attachMoonState queries the Moon once, at the object's peak, and sets
// the separation and the diffuse-target warning.
func (s *Sampler) attachMoonState(obj models.CelestialObject, night models.NightInfo, vis *models.ObjectVisibility, peak models.AltitudeSample) {
	moonPos, err := s.oracle.Observe(models.MoonBody, peak.Time)
	if err != nil {
		s.logger.Debug().Err(err).Msg("moon lookup failed")
		return
	}

	sep := astro.Separation(models.HorizontalPosition{
		AltitudeDeg: peak.AltitudeDeg,
		AzimuthDeg:  peak.AzimuthDeg,
	}, moonPos)
	vis.MoonSeparation = &sep

	if night.MoonIllumination > moonWarnIllumination &&
		sep < moonWarnSeparation &&
		obj.Category.IsDeepSky() {
		vis.MoonWarning = true
	}
}
