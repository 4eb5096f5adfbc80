package sampler

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/nightseek/nightseek/models"
)

// scriptOracle drives the sampler with a scripted altitude curve. The
// object's altitude is a function of time; the Moon sits at a fixed
// position.
type scriptOracle struct {
	altitude func(t time.Time) float64
	azimuth  float64
	moonAlt  float64
	moonAz   float64
	err      error
}

func (o *scriptOracle) Observe(body models.Body, t time.Time) (models.HorizontalPosition, error) {
	if o.err != nil {
		return models.HorizontalPosition{}, o.err
	}
	if body.Kind == models.BodyMoon {
		return models.HorizontalPosition{AltitudeDeg: o.moonAlt, AzimuthDeg: o.moonAz}, nil
	}
	return models.HorizontalPosition{AltitudeDeg: o.altitude(t), AzimuthDeg: o.azimuth}, nil
}

func (o *scriptOracle) ObserveBatch(body models.Body, times []time.Time) ([]models.HorizontalPosition, error) {
	if o.err != nil {
		return nil, o.err
	}
	positions := make([]models.HorizontalPosition, len(times))
	for i, t := range times {
		positions[i], _ = o.Observe(body, t)
	}
	return positions, nil
}

func (o *scriptOracle) Coordinates(body models.Body, date time.Time) (models.EquatorialPosition, error) {
	return models.EquatorialPosition{}, nil
}

func testNight(illumination float64) models.NightInfo {
	dusk := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	return models.NightInfo{
		Date:             time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Bounds:           models.NightBounds{Dusk: dusk, Dawn: dusk.Add(8 * time.Hour)},
		MoonIllumination: illumination,
	}
}

// parabolicCurve peaks at peakAlt halfway between dusk and dawn.
func parabolicCurve(night models.NightInfo, peakAlt float64) func(time.Time) float64 {
	dusk := night.Bounds.Dusk
	half := night.Bounds.Dawn.Sub(dusk).Hours() / 2
	return func(t time.Time) float64 {
		x := (t.Sub(dusk).Hours() - half) / half // -1 at dusk, 0 at peak, +1 at dawn
		return peakAlt * (1 - x*x)
	}
}

func TestSamplePeakAndWindows(t *testing.T) {
	night := testNight(0)
	oracle := &scriptOracle{
		altitude: parabolicCurve(night, 80),
		moonAlt:  -20, // moon below the horizon, far away
	}
	s := New(oracle)

	obj := models.CelestialObject{
		Name:     "NGC 7000",
		Category: models.CategoryDSO,
		Body:     models.FixedBody("NGC 7000", 20.98, 44.3),
	}

	vis := s.Sample(obj, night, Fine())

	if !vis.IsVisible {
		t.Fatal("expected object to be visible")
	}
	if math.Abs(vis.MaxAltitude-80) > 1 {
		t.Errorf("MaxAltitude = %.2f, want ~80", vis.MaxAltitude)
	}
	if vis.MaxAltitudeTime == nil {
		t.Fatal("MaxAltitudeTime not set")
	}
	mid := night.Bounds.Dusk.Add(4 * time.Hour)
	if d := vis.MaxAltitudeTime.Sub(mid); d < -15*time.Minute || d > 15*time.Minute {
		t.Errorf("peak time %v, want within 15m of %v", vis.MaxAltitudeTime, mid)
	}
	if vis.MinAirmass == nil || *vis.MinAirmass < 1.0 || *vis.MinAirmass > 1.1 {
		t.Errorf("MinAirmass = %v, want just above 1", vis.MinAirmass)
	}

	// Threshold windows must nest: 75 inside 60 inside 45.
	if vis.Above45 == nil || vis.Above60 == nil || vis.Above75 == nil {
		t.Fatalf("expected all threshold windows for an 80 degree peak, got %v %v %v",
			vis.Above45, vis.Above60, vis.Above75)
	}
	if vis.Above60.Start.Before(vis.Above45.Start) || vis.Above60.End.After(vis.Above45.End) {
		t.Error("60 degree window not contained in 45 degree window")
	}
	if vis.Above75.Start.Before(vis.Above60.Start) || vis.Above75.End.After(vis.Above60.End) {
		t.Error("75 degree window not contained in 60 degree window")
	}
}

func TestSampleThresholdWindows(t *testing.T) {
	night := testNight(0)

	tests := []struct {
		peak   float64
		want45 bool
		want60 bool
		want75 bool
	}{
		{peak: 40, want45: false, want60: false, want75: false},
		{peak: 50, want45: true, want60: false, want75: false},
		{peak: 70, want45: true, want60: true, want75: false},
		{peak: 85, want45: true, want60: true, want75: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("peak%.0f", tt.peak), func(t *testing.T) {
			oracle := &scriptOracle{altitude: parabolicCurve(night, tt.peak), moonAlt: -20}
			s := New(oracle)
			obj := models.CelestialObject{Name: "x", Category: models.CategoryDSO, Body: models.FixedBody("x", 0, 0)}

			vis := s.Sample(obj, night, Fine())

			if got := vis.Above45 != nil; got != tt.want45 {
				t.Errorf("Above45 present = %v, want %v", got, tt.want45)
			}
			if got := vis.Above60 != nil; got != tt.want60 {
				t.Errorf("Above60 present = %v, want %v", got, tt.want60)
			}
			if got := vis.Above75 != nil; got != tt.want75 {
				t.Errorf("Above75 present = %v, want %v", got, tt.want75)
			}
		})
	}
}

func TestSampleNotVisible(t *testing.T) {
	night := testNight(0)
	oracle := &scriptOracle{
		altitude: func(time.Time) float64 { return -12 },
	}
	s := New(oracle)
	obj := models.CelestialObject{Name: "x", Category: models.CategoryDSO, Body: models.FixedBody("x", 0, -80)}

	vis := s.Sample(obj, night, Fine())

	if vis.IsVisible {
		t.Error("object below the horizon all night reported visible")
	}
	if vis.MaxAltitudeTime != nil {
		t.Error("MaxAltitudeTime set for invisible object")
	}
	if vis.Above45 != nil {
		t.Error("threshold window set for invisible object")
	}
}

func TestSampleInvalidBounds(t *testing.T) {
	oracle := &scriptOracle{altitude: func(time.Time) float64 { return 50 }}
	s := New(oracle)
	obj := models.CelestialObject{Name: "x", Category: models.CategoryDSO, Body: models.FixedBody("x", 0, 0)}

	// Polar summer: no astronomical darkness at all.
	vis := s.Sample(obj, models.NightInfo{Date: time.Now()}, Fine())

	if vis.IsVisible {
		t.Error("expected non-visible record for a night without darkness")
	}
}

func TestSampleMoonWarning(t *testing.T) {
	night := testNight(80) // bright moon

	tests := []struct {
		name     string
		category models.Category
		moonAlt  float64
		moonAz   float64
		want     bool
	}{
		// Moon at the object's peak position: separation near zero.
		{"diffuse target close moon", models.CategoryDSO, 80, 180, true},
		{"planet ignores moon", models.CategoryPlanet, 80, 180, false},
		// Moon on the opposite side of the sky.
		{"diffuse target far moon", models.CategoryDSO, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &scriptOracle{
				altitude: parabolicCurve(night, 80),
				azimuth:  180,
				moonAlt:  tt.moonAlt,
				moonAz:   tt.moonAz,
			}
			s := New(oracle)
			obj := models.CelestialObject{Name: "x", Category: tt.category, Body: models.FixedBody("x", 0, 0)}

			vis := s.Sample(obj, night, Fine())

			if vis.MoonWarning != tt.want {
				t.Errorf("MoonWarning = %v, want %v (separation %v)", vis.MoonWarning, tt.want, vis.MoonSeparation)
			}
			if vis.MoonSeparation == nil {
				t.Error("MoonSeparation not set for visible object")
			}
		})
	}
}

func TestSampleDimMoonNoWarning(t *testing.T) {
	night := testNight(30) // below the warning illumination
	oracle := &scriptOracle{altitude: parabolicCurve(night, 80), azimuth: 180, moonAlt: 80, moonAz: 180}
	s := New(oracle)
	obj := models.CelestialObject{Name: "x", Category: models.CategoryDSO, Body: models.FixedBody("x", 0, 0)}

	vis := s.Sample(obj, night, Fine())

	if vis.MoonWarning {
		t.Error("warning fired for a dim moon")
	}
}
