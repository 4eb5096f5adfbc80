package nightsearch

import (
	"errors"
	"testing"
	"time"

	"github.com/nightseek/nightseek/models"
)

var start = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

// visibleFrom builds a monotone predicate that passes from the given day
// offset onward and counts evaluations.
func visibleFrom(firstDay int, calls *int) NightCheck {
	return func(date time.Time) (bool, *models.ObjectVisibility, error) {
		*calls++
		days := int(date.Sub(start).Hours() / 24)
		if days >= firstDay {
			return true, &models.ObjectVisibility{IsVisible: true, MaxAltitude: 50}, nil
		}
		return false, nil, nil
	}
}

func TestFindFirstNight(t *testing.T) {
	tests := []struct {
		name     string
		firstDay int
		wantDay  int
	}{
		{"visible immediately", 0, 0},
		{"next day", 1, 1},
		{"probe boundary", 14, 14},
		{"inside bracket", 21, 21},
		{"late in year", 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			result := FindFirstNight(visibleFrom(tt.firstDay, &calls), start, 365)

			if !result.Found {
				t.Fatalf("not found, want day %d", tt.wantDay)
			}
			gotDay := int(result.Date.Sub(start).Hours() / 24)
			if gotDay != tt.wantDay {
				t.Errorf("found day %d, want %d", gotDay, tt.wantDay)
			}
			if result.Visibility == nil || !result.Visibility.IsVisible {
				t.Error("result missing the visibility record of the found night")
			}
		})
	}
}

func TestFindFirstNightEvaluationBound(t *testing.T) {
	// Exponential probe plus binary search: far fewer evaluations than
	// scanning a year of nights.
	calls := 0
	result := FindFirstNight(visibleFrom(300, &calls), start, 365)

	if !result.Found {
		t.Fatal("expected a hit at day 300")
	}
	if calls > 20 {
		t.Errorf("predicate evaluated %d times, want <= 20", calls)
	}
	if result.Evaluations != calls {
		t.Errorf("Evaluations = %d, want %d actual calls", result.Evaluations, calls)
	}
}

func TestFindFirstNightNotFound(t *testing.T) {
	calls := 0
	result := FindFirstNight(visibleFrom(1000, &calls), start, 365)

	if result.Found {
		t.Fatalf("found %v, want no result inside the horizon", result.Date)
	}
}

func TestFindFirstNightHorizonLimitsProbes(t *testing.T) {
	calls := 0
	result := FindFirstNight(visibleFrom(50, &calls), start, 30)

	// Day 50 lies beyond the 30-day horizon; probes past it are skipped.
	if result.Found {
		t.Fatalf("found %v beyond the horizon", result.Date)
	}
	if calls > 5 {
		t.Errorf("predicate evaluated %d times for a 30-day horizon, want <= 5", calls)
	}
}

func TestFindFirstNightErrorIsMiss(t *testing.T) {
	check := func(date time.Time) (bool, *models.ObjectVisibility, error) {
		return false, nil, errors.New("solver diverged")
	}
	result := FindFirstNight(check, start, 365)

	if result.Found {
		t.Error("erroring predicate produced a hit")
	}
}

func TestFindFirstNightDefaultHorizon(t *testing.T) {
	calls := 0
	result := FindFirstNight(visibleFrom(7, &calls), start, 0)

	if !result.Found {
		t.Fatal("expected a hit with the default horizon")
	}
	if got := int(result.Date.Sub(start).Hours() / 24); got != 7 {
		t.Errorf("found day %d, want 7", got)
	}
}
