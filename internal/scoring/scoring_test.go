package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/models"
)

func ptr(v float64) *float64 { return &v }

func testWindow() (time.Time, time.Time) {
	dusk := time.Date(2026, 9, 15, 20, 0, 0, 0, time.UTC)
	return dusk, dusk.Add(9 * time.Hour)
}

func baseInput() Input {
	dusk, dawn := testWindow()
	peak := dusk.Add(4 * time.Hour)
	airmass := 1.1
	return Input{
		Object: models.CelestialObject{
			Name:      "NGC 7662",
			Category:  models.CategoryDSO,
			Subtype:   models.SubtypePlanetaryNebula,
			Magnitude: ptr(8.3),
		},
		Visibility: &models.ObjectVisibility{
			ObjectName:      "NGC 7662",
			IsVisible:       true,
			MaxAltitude:     65,
			MaxAltitudeTime: &peak,
			MinAirmass:      &airmass,
			MoonSeparation:  ptr(80),
			Magnitude:       ptr(8.3),
		},
		MoonIllumination: 10,
		Date:             time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		WindowStart:      dusk,
		WindowEnd:        dawn,
	}
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())
	in := baseInput()
	in.CloudCover = ptr(5.0)
	in.AOD = ptr(0.15)
	in.PrecipProbability = ptr(20.0)
	in.WindGustKmh = ptr(30.0)
	in.Transparency = ptr(85.0)
	in.RAHours = 23.4

	scored := s.Score(in)

	if len(scored.Breakdown) != 10 {
		t.Fatalf("breakdown has %d factors, want 10", len(scored.Breakdown))
	}
	sum := 0.0
	for _, v := range scored.Breakdown {
		sum += v
	}
	if math.Abs(sum-scored.TotalScore) > 1e-9 {
		t.Errorf("breakdown sums to %.4f, total is %.4f", sum, scored.TotalScore)
	}
	if scored.TotalScore <= 0 || scored.TotalScore > MaxScore {
		t.Errorf("total %.2f outside (0, %.0f]", scored.TotalScore, MaxScore)
	}
	if scored.Reason == "" {
		t.Error("reason not set")
	}
}

func TestAltitudeScoreFromAirmass(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	tests := []struct {
		airmass float64
		want    float64
	}{
		{1.02, 38}, // near zenith
		{1.10, 36}, // 0.90
		{1.30, 30}, // 0.75
		{1.80, 22}, // 0.55
		{2.50, 12}, // 0.30
		{4.00, 4},  // 0.10
	}

	for _, tt := range tests {
		got := s.altitudeScore(50, &tt.airmass)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("altitudeScore(airmass=%.2f) = %.2f, want %.2f", tt.airmass, got, tt.want)
		}
	}
}

func TestAltitudeScoreFallback(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	tests := []struct {
		altitude float64
		want     float64
	}{
		{10, 0},
		{20, 12}, // 0.30
		{35, 20}, // 0.50
		{50, 28}, // 0.70
		{65, 34}, // 0.85
		{80, 38}, // 0.95
	}

	for _, tt := range tests {
		got := s.altitudeScore(tt.altitude, nil)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("altitudeScore(alt=%.0f) = %.2f, want %.2f", tt.altitude, got, tt.want)
		}
	}
}

func TestMoonScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	t.Run("planet ignores moon", func(t *testing.T) {
		got := s.moonScore(ptr(5), 100, models.CategoryPlanet, models.SubtypeOuterPlanet)
		if math.Abs(got-27) > 1e-9 { // 30 * 0.9
			t.Errorf("got %.2f, want 27", got)
		}
	})

	t.Run("new moon is free", func(t *testing.T) {
		got := s.moonScore(ptr(5), 2, models.CategoryDSO, models.SubtypeGalaxy)
		if got != 30 {
			t.Errorf("got %.2f, want full weight 30", got)
		}
	})

	t.Run("bright moon close to reflection nebula", func(t *testing.T) {
		// 80% illumination, 10 deg separation, sensitivity 0.95:
		// interference = 0.8 * 0.95 * 1.0 = 0.76 -> 30 * 0.24 = 7.2.
		got := s.moonScore(ptr(10), 80, models.CategoryDSO, models.SubtypeReflectionNebula)
		if math.Abs(got-7.2) > 1e-9 {
			t.Errorf("got %.4f, want 7.2", got)
		}
	})

	t.Run("separation softens interference", func(t *testing.T) {
		// Same moon, object across the sky: separation factor 0.3.
		// interference = 0.8 * 0.95 * 0.3 = 0.228 -> 30 * 0.772 = 23.16.
		got := s.moonScore(ptr(120), 80, models.CategoryDSO, models.SubtypeReflectionNebula)
		if math.Abs(got-23.16) > 1e-9 {
			t.Errorf("got %.4f, want 23.16", got)
		}
	})

	t.Run("open cluster tolerates moonlight", func(t *testing.T) {
		cluster := s.moonScore(ptr(10), 80, models.CategoryDSO, models.SubtypeOpenCluster)
		galaxy := s.moonScore(ptr(10), 80, models.CategoryDSO, models.SubtypeGalaxy)
		if cluster <= galaxy {
			t.Errorf("open cluster %.2f should outscore galaxy %.2f under a bright moon", cluster, galaxy)
		}
	})

	t.Run("milky way is fully sensitive", func(t *testing.T) {
		// interference = 1.0 * 1.0 * 1.0 with a full close moon.
		got := s.moonScore(ptr(10), 100, models.CategoryMilkyWay, models.SubtypeNone)
		if got != 0 {
			t.Errorf("got %.2f, want 0", got)
		}
	})
}

func TestMoonSensitivityCoversAllSubtypes(t *testing.T) {
	subtypes := []models.Subtype{
		models.SubtypeGalaxy, models.SubtypeGalaxyPair, models.SubtypeGalaxyTriplet,
		models.SubtypeGalaxyGroup, models.SubtypePlanetaryNebula, models.SubtypeEmissionNebula,
		models.SubtypeHIIRegion, models.SubtypeReflectionNebula, models.SubtypeSupernovaRemnant,
		models.SubtypeNebula, models.SubtypeDarkNebula, models.SubtypeOpenCluster,
		models.SubtypeGlobularCluster, models.SubtypeDoubleStar, models.SubtypeStarAssociation,
		models.SubtypeAsterism, models.SubtypeOther,
	}
	for _, st := range subtypes {
		got := MoonSensitivity(st)
		if got <= 0 || got > 1 {
			t.Errorf("MoonSensitivity(%s) = %.2f, want in (0, 1]", st, got)
		}
	}
	if got := MoonSensitivity(models.SubtypeInnerPlanet); got != 0.5 {
		t.Errorf("unmapped subtype sensitivity = %.2f, want default 0.5", got)
	}
}

func TestTimingScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())
	dusk, dawn := testWindow()

	tests := []struct {
		name string
		peak *time.Time
		want float64
	}{
		{"nil peak", nil, 4.5},
		{"inside window", timePtr(dusk.Add(3 * time.Hour)), 15},
		{"30m before dusk", timePtr(dusk.Add(-30 * time.Minute)), 12},
		{"90m after dawn", timePtr(dawn.Add(90 * time.Minute)), 9},
		{"3h before dusk", timePtr(dusk.Add(-3 * time.Hour)), 6},
		{"6h after dawn", timePtr(dawn.Add(6 * time.Hour)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.timingScore(tt.peak, dusk, dawn)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestWeatherScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	t.Run("unknown assumes decent", func(t *testing.T) {
		got := s.weatherScore(nil, nil, nil, nil, nil, true, false)
		if math.Abs(got-10.5) > 1e-9 { // 15 * 0.7
			t.Errorf("got %.2f, want 10.5", got)
		}
	})

	t.Run("clear sky full score", func(t *testing.T) {
		got := s.weatherScore(ptr(5), nil, nil, nil, nil, true, false)
		if got != 15 {
			t.Errorf("got %.2f, want 15", got)
		}
	})

	t.Run("overcast floor", func(t *testing.T) {
		got := s.weatherScore(ptr(90), nil, nil, nil, nil, true, false)
		if math.Abs(got-1.5) > 1e-9 {
			t.Errorf("got %.2f, want 1.5", got)
		}
	})

	t.Run("aerosols hit deep sky harder", func(t *testing.T) {
		dso := s.weatherScore(ptr(5), ptr(0.4), nil, nil, nil, true, false)
		planet := s.weatherScore(ptr(5), ptr(0.4), nil, nil, nil, false, true)
		if dso >= planet {
			t.Errorf("deep sky %.2f should lose more to aerosols than planet %.2f", dso, planet)
		}
	})

	t.Run("gusts hurt planets less", func(t *testing.T) {
		planet := s.weatherScore(ptr(5), nil, nil, ptr(50.0), nil, false, true)
		dso := s.weatherScore(ptr(5), nil, nil, ptr(50.0), nil, true, false)
		if planet <= dso {
			t.Errorf("planet %.2f should tolerate gusts better than deep sky %.2f", planet, dso)
		}
	})

	t.Run("high transparency bonus", func(t *testing.T) {
		got := s.weatherScore(ptr(5), nil, nil, nil, ptr(90.0), true, false)
		if math.Abs(got-15.75) > 1e-9 { // 15 * 1.05
			t.Errorf("got %.2f, want 15.75", got)
		}
	})

	t.Run("likely rain collapses the score", func(t *testing.T) {
		got := s.weatherScore(ptr(5), nil, ptr(80.0), nil, nil, true, false)
		if math.Abs(got-4.5) > 1e-9 { // 15 * 0.3
			t.Errorf("got %.2f, want 4.5", got)
		}
	})
}

func TestSurfaceBrightnessScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	tests := []struct {
		name string
		sb   *float64
		mag  *float64
		size *float64
		want float64
	}{
		{"bright compact", ptr(18.0), nil, nil, 20},
		{"moderate", ptr(21.0), nil, nil, 16},
		{"faint", ptr(23.0), nil, nil, 12},
		{"very faint", ptr(25.0), nil, nil, 8},
		{"barely there", ptr(27.0), nil, nil, 4},
		{"nothing known", nil, nil, nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.surfaceBrightnessScore(tt.sb, tt.mag, tt.size)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}

	t.Run("estimates from magnitude and size", func(t *testing.T) {
		// A large diffuse object estimates to a dim surface brightness.
		big := s.surfaceBrightnessScore(nil, ptr(6.0), ptr(180.0))
		small := s.surfaceBrightnessScore(nil, ptr(6.0), ptr(3.0))
		if big >= small {
			t.Errorf("large diffuse object %.2f should score below compact one %.2f", big, small)
		}
	})
}

func TestTypeSuitabilityScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	t.Run("dark night favours diffuse targets", func(t *testing.T) {
		mw := s.typeSuitabilityScore(models.CategoryMilkyWay, models.SubtypeNone, 10)
		galaxy := s.typeSuitabilityScore(models.CategoryDSO, models.SubtypeGalaxy, 10)
		planet := s.typeSuitabilityScore(models.CategoryPlanet, models.SubtypeOuterPlanet, 10)
		if mw != 15 {
			t.Errorf("milky way on a dark night = %.2f, want full 15", mw)
		}
		if galaxy <= planet {
			t.Errorf("galaxy %.2f should beat planet %.2f on a dark night", galaxy, planet)
		}
	})

	t.Run("moonlit night favours resilient targets", func(t *testing.T) {
		planet := s.typeSuitabilityScore(models.CategoryPlanet, models.SubtypeOuterPlanet, 80)
		mw := s.typeSuitabilityScore(models.CategoryMilkyWay, models.SubtypeNone, 80)
		if planet != 15 {
			t.Errorf("planet under moonlight = %.2f, want full 15", planet)
		}
		if math.Abs(mw-1.5) > 1e-9 {
			t.Errorf("milky way under moonlight = %.2f, want 1.5", mw)
		}
	})
}

func TestTransientBonus(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	tests := []struct {
		name           string
		cat            models.Category
		interstellar   bool
		nearPerihelion bool
		want           float64
	}{
		{"interstellar visitor", models.CategoryComet, true, false, 25},
		{"comet near perihelion", models.CategoryComet, false, true, 17.5},
		{"quiet comet", models.CategoryComet, false, false, 12.5},
		{"asteroid", models.CategoryAsteroid, false, false, 7.5},
		{"galaxy", models.CategoryDSO, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.transientBonus(tt.cat, tt.interstellar, tt.nearPerihelion)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestSeasonalScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	// Around the equinox the sun sits near RA 0h; an object at RA 12h is
	// opposite it and peaks at midnight.
	equinox := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)

	opposite := s.seasonalScore(12, equinox)
	if math.Abs(opposite-15) > 1 {
		t.Errorf("object opposite the sun scored %.2f, want ~15", opposite)
	}

	conjunct := s.seasonalScore(0, equinox)
	if conjunct > 1 {
		t.Errorf("object near the sun scored %.2f, want ~0", conjunct)
	}
}

func TestNoveltyScore(t *testing.T) {
	s := NewScorer(DefaultWeights, zerolog.Nop())

	tests := []struct {
		name string
		want float64
	}{
		{"M31 Andromeda Galaxy", 10},
		{"M104", 10},
		{"North America Nebula", 5},
		{"Mars", 5},
		{"", 0},
	}

	for _, tt := range tests {
		got := s.noveltyScore(tt.name)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("noveltyScore(%q) = %.2f, want %.2f", tt.name, got, tt.want)
		}
	}
}

func TestScoreTier(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{190, "Excellent"},
		{150, "Excellent"},
		{149, "Very Good"},
		{100, "Very Good"},
		{99, "Good"},
		{70, "Good"},
		{69, "Fair"},
		{40, "Fair"},
		{39, "Poor"},
		{0, "Poor"},
	}

	for _, tt := range tests {
		if got := ScoreTier(tt.score); got != tt.want {
			t.Errorf("ScoreTier(%.0f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
