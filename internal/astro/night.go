package astro

import (
	"time"

	"github.com/nightseek/nightseek/models"
)

// Solar altitude thresholds for the event scan. Sunrise/sunset include
// refraction and the solar radius; moon rise/set uses the Almanac's
// standard value.
const (
	horizonAltDeg    = -0.8333
	astroTwilightDeg = -18.0
	moonHorizonDeg   = 0.125

	scanStep = 5 * time.Minute
)

// NightInfo computes twilight bounds and moon state for the night that
// begins on the given date. The scan starts at local solar noon so the
// dusk/dawn pair always belongs to the same night, and runs 24 hours.
// If the Sun never drops to -18 degrees (polar summer) the bounds are
// left zero-valued and NightBounds.Valid() reports false.
func (o *Oracle) NightInfo(date time.Time) models.NightInfo {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	// Local solar noon: 12h UTC shifted by longitude.
	noon := day.Add(time.Duration((12.0 - o.lonDeg/15.0) * float64(time.Hour)))
	scanEnd := noon.Add(24 * time.Hour)

	sunAlt := func(t time.Time) float64 {
		pos, _ := o.Observe(models.SunBody, t)
		return pos.AltitudeDeg
	}
	moonAlt := func(t time.Time) float64 {
		pos, _ := o.Observe(models.MoonBody, t)
		return pos.AltitudeDeg
	}

	info := models.NightInfo{Date: day}

	if sunset := findCrossing(sunAlt, noon, scanEnd, horizonAltDeg, false); sunset != nil {
		info.Sunset = *sunset
	}
	if dusk := findCrossing(sunAlt, noon, scanEnd, astroTwilightDeg, false); dusk != nil {
		info.Bounds.Dusk = *dusk
		if dawn := findCrossing(sunAlt, *dusk, scanEnd, astroTwilightDeg, true); dawn != nil {
			info.Bounds.Dawn = *dawn
		}
	}
	if !info.Sunset.IsZero() {
		if sunrise := findCrossing(sunAlt, info.Sunset, scanEnd, horizonAltDeg, true); sunrise != nil {
			info.Sunrise = *sunrise
		}
	}

	// Moon state at the middle of the night (or local midnight as a
	// fallback when there is no astronomical darkness).
	ref := noon.Add(12 * time.Hour)
	if info.Bounds.Valid() {
		ref = info.Bounds.Dusk.Add(info.Bounds.Dawn.Sub(info.Bounds.Dusk) / 2)
	}
	jd := JulianDate(ref)
	info.MoonPhase = MoonPhase(jd)
	info.MoonIllumination = MoonIllumination(jd)

	info.MoonRise = findCrossing(moonAlt, noon, scanEnd, moonHorizonDeg, true)
	info.MoonSet = findCrossing(moonAlt, noon, scanEnd, moonHorizonDeg, false)

	return info
}

// findCrossing locates the first time in [start, end) where fn crosses
// the threshold in the requested direction, sampling at scanStep and
// refining by bisection. Returns nil when no crossing occurs.
func findCrossing(fn func(time.Time) float64, start, end time.Time, threshold float64, upward bool) *time.Time {
	prev := fn(start)
	for t := start.Add(scanStep); !t.After(end); t = t.Add(scanStep) {
		cur := fn(t)

		crossed := false
		if upward {
			crossed = prev < threshold && cur >= threshold
		} else {
			crossed = prev >= threshold && cur < threshold
		}

		if crossed {
			lo, hi := t.Add(-scanStep), t
			for hi.Sub(lo) > time.Second {
				mid := lo.Add(hi.Sub(lo) / 2)
				v := fn(mid)
				above := v >= threshold
				if above == upward {
					hi = mid
				} else {
					lo = mid
				}
			}
			return &hi
		}
		prev = cur
	}
	return nil
}
