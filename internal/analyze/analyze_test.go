package analyze

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/sampler"
	"github.com/nightseek/nightseek/internal/scoring"
	"github.com/nightseek/nightseek/internal/selection"
	"github.com/nightseek/nightseek/models"
)

// fakeOracle serves scripted altitudes keyed by body name. Unknown bodies
// stay below the horizon; the Moon sits at a fixed safe position.
type fakeOracle struct {
	altitudes map[string]float64
}

func (f *fakeOracle) positionFor(body models.Body) models.HorizontalPosition {
	if body.Kind == models.BodyMoon {
		return models.HorizontalPosition{AltitudeDeg: -30, AzimuthDeg: 0}
	}
	alt, ok := f.altitudes[body.Name]
	if !ok {
		alt = -10
	}
	return models.HorizontalPosition{AltitudeDeg: alt, AzimuthDeg: 180}
}

func (f *fakeOracle) Observe(body models.Body, t time.Time) (models.HorizontalPosition, error) {
	return f.positionFor(body), nil
}

func (f *fakeOracle) ObserveBatch(body models.Body, times []time.Time) ([]models.HorizontalPosition, error) {
	positions := make([]models.HorizontalPosition, len(times))
	for i := range times {
		positions[i] = f.positionFor(body)
	}
	return positions, nil
}

func (f *fakeOracle) Coordinates(body models.Body, date time.Time) (models.EquatorialPosition, error) {
	return models.EquatorialPosition{RAHours: 6, DecDeg: 45}, nil
}

// fakeNights returns a fixed-shape night for every date: dusk at 20:00
// UTC, eight hours of darkness, a dim moon.
type fakeNights struct{}

func (fakeNights) NightInfo(date time.Time) models.NightInfo {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dusk := day.Add(20 * time.Hour)
	return models.NightInfo{
		Date:             day,
		Bounds:           models.NightBounds{Dusk: dusk, Dawn: dusk.Add(8 * time.Hour)},
		MoonIllumination: 10,
	}
}

type fakeCatalog struct {
	planets  []models.CelestialObject
	dsos     []models.CelestialObject
	comets   []models.CelestialObject
	minors   []models.CelestialObject
	dsoErr   error
	cometErr error
}

func (f *fakeCatalog) Planets() []models.CelestialObject { return f.planets }
func (f *fakeCatalog) MinorPlanets() []models.CelestialObject {
	return f.minors
}
func (f *fakeCatalog) DeepSkyObjects(ctx context.Context, maxMagnitude float64) ([]models.CelestialObject, error) {
	return f.dsos, f.dsoErr
}
func (f *fakeCatalog) Comets(ctx context.Context, maxMagnitude float64) ([]models.CelestialObject, error) {
	return f.comets, f.cometErr
}

type fakeWeather struct {
	fetchedDays int
	fetchOK     bool
	hours       func(bounds models.NightBounds) []models.HourlyWeather
}

func (f *fakeWeather) Fetch(ctx context.Context, days int) bool {
	f.fetchedDays = days
	return f.fetchOK
}

func (f *fakeWeather) NightHours(bounds models.NightBounds) []models.HourlyWeather {
	if f.hours == nil {
		return nil
	}
	return f.hours(bounds)
}

func mag(v float64) *float64 { return &v }

func planet(name string) models.CelestialObject {
	return models.CelestialObject{
		Name:      name,
		Category:  models.CategoryPlanet,
		Subtype:   models.SubtypeOuterPlanet,
		Body:      models.Body{Kind: models.BodyFixed, Name: name, RAHours: 6, DecDeg: 45},
		Magnitude: mag(0.5),
	}
}

func newAnalyzer(oracle *fakeOracle, cat models.CatalogProvider, wx WeatherSource, opts Options) *Analyzer {
	return New(
		oracle,
		fakeNights{},
		sampler.New(oracle),
		cat,
		wx,
		scoring.NewScorer(scoring.DefaultWeights, zerolog.Nop()),
		selection.NewEngine(selection.DefaultOptions, zerolog.Nop()),
		opts,
		zerolog.Nop(),
	)
}

func TestForecastSelectsVisibleObjects(t *testing.T) {
	oracle := &fakeOracle{altitudes: map[string]float64{"Saturn": 70}}
	cat := &fakeCatalog{
		planets:  []models.CelestialObject{planet("Saturn"), planet("Mercury")},
		dsoErr:   errors.New("network down"),
		cometErr: errors.New("network down"),
	}

	a := newAnalyzer(oracle, cat, nil, Options{ForecastDays: 2})
	forecasts, err := a.Forecast(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(forecasts) != 2 {
		t.Fatalf("got %d forecasts, want 2", len(forecasts))
	}

	for i, f := range forecasts {
		wantDate := time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC)
		if !f.Night.Date.Equal(wantDate) {
			t.Errorf("night %d: date %v, want %v", i, f.Night.Date, wantDate)
		}

		// Saturn sits at 70 degrees all night; Mercury never rises.
		if len(f.Selected) != 1 {
			t.Fatalf("night %d: selected %d objects, want 1", i, len(f.Selected))
		}
		if f.Selected[0].ObjectName != "Saturn" {
			t.Errorf("night %d: selected %q, want Saturn", i, f.Selected[0].ObjectName)
		}
		if f.Selected[0].TotalScore <= 0 {
			t.Errorf("night %d: score %v", i, f.Selected[0].TotalScore)
		}

		if f.Moon.ObjectName != "Moon" {
			t.Errorf("night %d: moon record named %q", i, f.Moon.ObjectName)
		}
		if f.Weather != nil || f.Windows != nil {
			t.Errorf("night %d: expected no weather without a source", i)
		}
	}
}

func TestForecastMinAltitudeFloor(t *testing.T) {
	// Visible but peaking below the scoring floor.
	oracle := &fakeOracle{altitudes: map[string]float64{"Saturn": 20}}
	cat := &fakeCatalog{planets: []models.CelestialObject{planet("Saturn")}}

	a := newAnalyzer(oracle, cat, nil, Options{ForecastDays: 1, MinAltitude: 30})
	forecasts, err := a.Forecast(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(forecasts[0].Selected) != 0 {
		t.Errorf("selected %v, want nothing below the altitude floor", forecasts[0].Selected)
	}
}

func TestForecastAttachesWeather(t *testing.T) {
	oracle := &fakeOracle{altitudes: map[string]float64{"Saturn": 70}}
	cat := &fakeCatalog{planets: []models.CelestialObject{planet("Saturn")}}

	wx := &fakeWeather{
		fetchOK: true,
		hours: func(bounds models.NightBounds) []models.HourlyWeather {
			var hours []models.HourlyWeather
			for t := bounds.Dusk.Truncate(time.Hour); t.Before(bounds.Dawn); t = t.Add(time.Hour) {
				hours = append(hours, models.HourlyWeather{Time: t, CloudCover: 12})
			}
			return hours
		},
	}

	a := newAnalyzer(oracle, cat, wx, Options{ForecastDays: 3})
	forecasts, err := a.Forecast(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	if wx.fetchedDays != 3 {
		t.Errorf("weather fetched for %d days, want 3", wx.fetchedDays)
	}

	f := forecasts[0]
	if f.Weather == nil {
		t.Fatal("expected a weather aggregate")
	}
	if math.Abs(f.Weather.AvgCloudCover-12) > 1e-9 {
		t.Errorf("avg cloud cover = %v, want 12", f.Weather.AvgCloudCover)
	}
	if len(f.Windows) == 0 {
		t.Error("expected weather windows")
	}
}

func TestForecastSurvivesFailedWeatherFetch(t *testing.T) {
	oracle := &fakeOracle{altitudes: map[string]float64{"Saturn": 70}}
	cat := &fakeCatalog{planets: []models.CelestialObject{planet("Saturn")}}
	wx := &fakeWeather{fetchOK: false}

	a := newAnalyzer(oracle, cat, wx, Options{ForecastDays: 1})
	forecasts, err := a.Forecast(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(forecasts) != 1 || len(forecasts[0].Selected) != 1 {
		t.Errorf("forecast degraded: %+v", forecasts)
	}
}

func TestForecastDetectsEvents(t *testing.T) {
	// Saturn and Venus both sit at azimuth 180, two degrees apart in
	// altitude, all night on a Perseid-peak date.
	oracle := &fakeOracle{altitudes: map[string]float64{"Saturn": 70, "Venus": 68}}
	cat := &fakeCatalog{planets: []models.CelestialObject{planet("Saturn"), planet("Venus")}}

	a := newAnalyzer(oracle, cat, nil, Options{ForecastDays: 1})
	forecasts, err := a.Forecast(context.Background(), time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	f := forecasts[0]

	var perseids bool
	for _, s := range f.Showers {
		if s.Code == "PER" {
			perseids = true
			if s.DaysFromPeak != 0 {
				t.Errorf("Perseids %d days from peak on August 12, want 0", s.DaysFromPeak)
			}
		}
	}
	if !perseids {
		t.Error("expected the Perseids among active showers on August 12")
	}

	if len(f.Conjunctions) != 1 {
		t.Fatalf("got %d conjunctions, want 1: %+v", len(f.Conjunctions), f.Conjunctions)
	}
	c := f.Conjunctions[0]
	if c.Object1 != "Saturn" || c.Object2 != "Venus" {
		t.Errorf("conjunction pairs %q and %q, want Saturn and Venus", c.Object1, c.Object2)
	}
	if math.Abs(c.SeparationDeg-2) > 1e-9 {
		t.Errorf("separation = %v, want 2", c.SeparationDeg)
	}
	if !c.IsNotable() {
		t.Error("a two-degree pairing should be notable")
	}
}

func TestBestDarkNights(t *testing.T) {
	forecasts := []NightForecast{
		{Night: models.NightInfo{MoonIllumination: 80}}, // 20
		{Night: models.NightInfo{MoonIllumination: 0}},  // 100
		{Night: models.NightInfo{MoonIllumination: 100}, // clouds clear: 70
			Weather: &models.NightWeather{AvgCloudCover: 0}},
		{Night: models.NightInfo{MoonIllumination: 0}, // overcast: 39.1
			Weather: &models.NightWeather{AvgCloudCover: 87}},
	}

	got := BestDarkNights(forecasts)
	want := []int{1, 2, 3, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBestDarkNightsEmpty(t *testing.T) {
	if got := BestDarkNights(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
