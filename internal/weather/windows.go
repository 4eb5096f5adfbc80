package weather

import (
	"sort"
	"time"

	"github.com/nightseek/nightseek/models"
)

// WindowOptions configures window construction.
type WindowOptions struct {
	// SplitLongerThan caps window length; longer windows are divided into
	// equal sub-windows carrying the parent's averaged metrics. Zero
	// disables splitting.
	SplitLongerThan time.Duration
}

// BuildWindows groups per-hour weather into contiguous windows of uniform
// category, clipped to the night bounds.
//
// Hours are sorted first; consecutive hours sharing a category merge into
// one window carrying avg/min/max cloud cover. The final window extends
// to dawn even when its last raw sample is earlier, so the union of
// windows always covers [dusk, dawn]. With no hourly data at all, a
// single unknown-category window spanning the whole night is returned.
func BuildWindows(hours []models.HourlyWeather, bounds models.NightBounds, opts WindowOptions) []models.WeatherWindow {
	if !bounds.Valid() {
		return nil
	}

	inNight := make([]models.HourlyWeather, 0, len(hours))
	for _, h := range hours {
		if !h.Time.Before(bounds.Dusk.Truncate(time.Hour)) && !h.Time.After(bounds.Dawn) {
			inNight = append(inNight, h)
		}
	}

	if len(inNight) == 0 {
		return split([]models.WeatherWindow{{
			Start:    bounds.Dusk,
			End:      bounds.Dawn,
			Category: models.WeatherUnknown,
		}}, opts)
	}

	sort.Slice(inNight, func(i, j int) bool { return inNight[i].Time.Before(inNight[j].Time) })

	var windows []models.WeatherWindow
	cur := newWindow(inNight[0], bounds)

	for _, h := range inNight[1:] {
		cat := models.CategorizeCloudCover(h.CloudCover)
		if cat != cur.Category {
			cur.close(h.Time)
			windows = append(windows, cur.WeatherWindow)
			cur = newWindow(h, bounds)
		} else {
			cur.add(h.CloudCover)
		}
	}

	// The last window runs to the end of the night.
	cur.close(bounds.Dawn)
	windows = append(windows, cur.WeatherWindow)

	return split(windows, opts)
}

// building keeps the running aggregate while a window is open.
type building struct {
	models.WeatherWindow
	sum   float64
	count int
}

func newWindow(h models.HourlyWeather, bounds models.NightBounds) building {
	start := h.Time
	if start.Before(bounds.Dusk) {
		start = bounds.Dusk // clip the leading hour to dusk
	}
	return building{
		WeatherWindow: models.WeatherWindow{
			Start:         start,
			Category:      models.CategorizeCloudCover(h.CloudCover),
			MinCloudCover: h.CloudCover,
			MaxCloudCover: h.CloudCover,
		},
		sum:   h.CloudCover,
		count: 1,
	}
}

func (b *building) add(cloudCover float64) {
	b.sum += cloudCover
	b.count++
	if cloudCover < b.MinCloudCover {
		b.MinCloudCover = cloudCover
	}
	if cloudCover > b.MaxCloudCover {
		b.MaxCloudCover = cloudCover
	}
}

func (b *building) close(end time.Time) {
	b.End = end
	b.AvgCloudCover = b.sum / float64(b.count)
}

// split divides windows longer than the cap into equal sub-windows that
// keep the parent's averaged metrics.
func split(windows []models.WeatherWindow, opts WindowOptions) []models.WeatherWindow {
	if opts.SplitLongerThan <= 0 {
		return windows
	}

	var out []models.WeatherWindow
	for _, w := range windows {
		dur := w.End.Sub(w.Start)
		if dur <= opts.SplitLongerThan {
			out = append(out, w)
			continue
		}

		parts := int(dur / opts.SplitLongerThan)
		if dur%opts.SplitLongerThan != 0 {
			parts++
		}
		chunk := dur / time.Duration(parts)

		for i := 0; i < parts; i++ {
			sub := w
			sub.Start = w.Start.Add(time.Duration(i) * chunk)
			if i == parts-1 {
				sub.End = w.End
			} else {
				sub.End = sub.Start.Add(chunk)
			}
			out = append(out, sub)
		}
	}
	return out
}
