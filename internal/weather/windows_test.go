package weather

import (
	"testing"
	"time"

	"github.com/nightseek/nightseek/models"
)

var (
	dusk = time.Date(2026, 2, 1, 21, 30, 0, 0, time.UTC)
	dawn = time.Date(2026, 2, 2, 5, 0, 0, 0, time.UTC)
)

func testBounds() models.NightBounds {
	return models.NightBounds{Dusk: dusk, Dawn: dawn}
}

// hourly builds one sample per hour starting at the hour containing dusk.
func hourly(covers ...float64) []models.HourlyWeather {
	base := dusk.Truncate(time.Hour)
	hours := make([]models.HourlyWeather, len(covers))
	for i, c := range covers {
		hours[i] = models.HourlyWeather{Time: base.Add(time.Duration(i) * time.Hour), CloudCover: c}
	}
	return hours
}

func TestBuildWindowsMerge(t *testing.T) {
	// 5, 8 -> excellent; 40, 45 -> fair; 5 -> excellent again.
	windows := BuildWindows(hourly(5, 8, 40, 45, 5), testBounds(), WindowOptions{})

	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3: %+v", len(windows), windows)
	}

	first := windows[0]
	if first.Category != models.WeatherExcellent {
		t.Errorf("first window category = %s, want excellent", first.Category)
	}
	if first.AvgCloudCover != 6.5 || first.MinCloudCover != 5 || first.MaxCloudCover != 8 {
		t.Errorf("first window aggregates = %.1f/%.1f/%.1f, want 6.5/5/8",
			first.AvgCloudCover, first.MinCloudCover, first.MaxCloudCover)
	}
	// The leading hour starts before dusk; the window must clip to dusk.
	if !first.Start.Equal(dusk) {
		t.Errorf("first window start = %v, want clipped to dusk %v", first.Start, dusk)
	}

	if windows[1].Category != models.WeatherFair {
		t.Errorf("second window category = %s, want fair", windows[1].Category)
	}
	if !windows[1].Start.Equal(windows[0].End) {
		t.Error("windows not contiguous at first boundary")
	}

	// The final window always extends to dawn.
	last := windows[len(windows)-1]
	if !last.End.Equal(dawn) {
		t.Errorf("last window end = %v, want dawn %v", last.End, dawn)
	}
}

func TestBuildWindowsSingleCategory(t *testing.T) {
	windows := BuildWindows(hourly(3, 4, 6, 2, 8, 1, 9, 5), testBounds(), WindowOptions{})

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if w.Category != models.WeatherExcellent {
		t.Errorf("category = %s, want excellent", w.Category)
	}
	if !w.Start.Equal(dusk) || !w.End.Equal(dawn) {
		t.Errorf("window %v-%v, want %v-%v", w.Start, w.End, dusk, dawn)
	}
}

func TestBuildWindowsNoDataFallback(t *testing.T) {
	windows := BuildWindows(nil, testBounds(), WindowOptions{})

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1 unknown window", len(windows))
	}
	w := windows[0]
	if w.Category != models.WeatherUnknown {
		t.Errorf("category = %s, want unknown", w.Category)
	}
	if !w.Start.Equal(dusk) || !w.End.Equal(dawn) {
		t.Errorf("window %v-%v, want the whole night", w.Start, w.End)
	}
}

func TestBuildWindowsIgnoresDaytimeHours(t *testing.T) {
	hours := hourly(5, 5)
	// Two afternoon samples well before dusk.
	hours = append(hours,
		models.HourlyWeather{Time: dusk.Add(-8 * time.Hour), CloudCover: 90},
		models.HourlyWeather{Time: dawn.Add(3 * time.Hour), CloudCover: 90},
	)

	windows := BuildWindows(hours, testBounds(), WindowOptions{})

	for _, w := range windows {
		if w.Category == models.WeatherBad {
			t.Errorf("daytime sample leaked into the night windows: %+v", w)
		}
	}
}

func TestBuildWindowsInvalidBounds(t *testing.T) {
	if got := BuildWindows(hourly(5), models.NightBounds{}, WindowOptions{}); got != nil {
		t.Errorf("got %v windows for invalid bounds, want none", got)
	}
}

func TestSplitLongWindows(t *testing.T) {
	// One uniform 7.5 hour window split at 2 hours -> four chunks.
	windows := BuildWindows(hourly(5, 5, 5, 5, 5, 5, 5, 5), testBounds(),
		WindowOptions{SplitLongerThan: 2 * time.Hour})

	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}
	if !windows[0].Start.Equal(dusk) {
		t.Errorf("first chunk starts %v, want %v", windows[0].Start, dusk)
	}
	if !windows[len(windows)-1].End.Equal(dawn) {
		t.Errorf("last chunk ends %v, want %v", windows[len(windows)-1].End, dawn)
	}
	for i, w := range windows {
		if w.End.Sub(w.Start) > 2*time.Hour {
			t.Errorf("chunk %d longer than the cap: %v", i, w.End.Sub(w.Start))
		}
		// Sub-windows keep the parent aggregates.
		if w.Category != models.WeatherExcellent || w.AvgCloudCover != 5 {
			t.Errorf("chunk %d lost parent aggregates: %+v", i, w)
		}
		if i > 0 && !w.Start.Equal(windows[i-1].End) {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
	}
}

func TestSplitShortWindowUntouched(t *testing.T) {
	windows := BuildWindows(hourly(5, 5, 5, 5, 5, 5, 5, 5), testBounds(),
		WindowOptions{SplitLongerThan: 12 * time.Hour})

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1 (under the cap)", len(windows))
	}
}
