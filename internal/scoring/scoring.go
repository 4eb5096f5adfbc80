// Package scoring computes the merit score that ranks candidate objects
// for a night. Ten weighted factors cover imaging quality (altitude, moon,
// timing, weather), object characteristics (surface brightness, magnitude,
// type suitability) and rarity bonuses (transient, seasonal, novelty).
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/models"
)

// Weights holds the per-factor maxima. Imaging quality sums to 100,
// characteristics to 50 and bonuses to 50.
type Weights struct {
	Altitude          float64
	Moon              float64
	Timing            float64
	Weather           float64
	SurfaceBrightness float64
	Magnitude         float64
	TypeSuitability   float64
	Transient         float64
	Seasonal          float64
	Novelty           float64
}

// DefaultWeights is the standard 200-point scale.
var DefaultWeights = Weights{
	Altitude:          40,
	Moon:              30,
	Timing:            15,
	Weather:           15,
	SurfaceBrightness: 20,
	Magnitude:         15,
	TypeSuitability:   15,
	Transient:         25,
	Seasonal:          15,
	Novelty:           10,
}

// MaxScore is the theoretical ceiling with default weights.
const MaxScore = 200.0

// Input carries everything one scoring pass needs for one object on one
// night. Weather fields are nil when no forecast covers the night.
type Input struct {
	Object     models.CelestialObject
	Visibility *models.ObjectVisibility

	MoonIllumination float64 // 0-100%
	Date             time.Time
	WindowStart      time.Time
	WindowEnd        time.Time

	CloudCover        *float64
	AOD               *float64
	PrecipProbability *float64
	WindGustKmh       *float64
	Transparency      *float64

	RAHours float64
}

// Scorer evaluates merit with a fixed weight set.
type Scorer struct {
	weights Weights
	logger  zerolog.Logger
}

func NewScorer(weights Weights, logger zerolog.Logger) *Scorer {
	return &Scorer{
		weights: weights,
		logger:  logger.With().Str("component", "scoring").Logger(),
	}
}

// Score produces the scored record for one object. The breakdown always
// contains all ten factors and sums to the total.
func (s *Scorer) Score(in Input) models.ScoredObject {
	vis := in.Visibility
	breakdown := map[models.ScoreFactor]float64{
		models.FactorAltitude: s.altitudeScore(vis.MaxAltitude, vis.MinAirmass),
		models.FactorMoon: s.moonScore(vis.MoonSeparation, in.MoonIllumination,
			in.Object.Category, in.Object.Subtype),
		models.FactorTiming: s.timingScore(vis.MaxAltitudeTime, in.WindowStart, in.WindowEnd),
		models.FactorWeather: s.weatherScore(in.CloudCover, in.AOD, in.PrecipProbability,
			in.WindGustKmh, in.Transparency,
			in.Object.Category.IsDeepSky(), in.Object.Category == models.CategoryPlanet),
		models.FactorSurfaceBrightness: s.surfaceBrightnessScore(in.Object.SurfaceBrightness,
			vis.Magnitude, in.Object.AngularSizeArcmin),
		models.FactorMagnitude: s.magnitudeScore(vis.Magnitude, in.Object.Category),
		models.FactorTypeSuitability: s.typeSuitabilityScore(in.Object.Category,
			in.Object.Subtype, in.MoonIllumination),
		models.FactorTransient: s.transientBonus(in.Object.Category,
			in.Object.IsInterstellar, in.Object.NearPerihelion),
		models.FactorSeasonal: s.seasonalScore(in.RAHours, in.Date),
		models.FactorNovelty:  s.noveltyScore(in.Object.CommonName),
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}

	s.logger.Debug().
		Str("object", vis.ObjectName).
		Float64("score", total).
		Msg("scored object")

	return models.ScoredObject{
		ObjectName: vis.ObjectName,
		Category:   in.Object.Category,
		Subtype:    in.Object.Subtype,
		TotalScore: total,
		Breakdown:  breakdown,
		Reason:     scoreReason(breakdown, vis.MaxAltitude, in.MoonIllumination),
		Visibility: vis,
		Magnitude:  vis.Magnitude,
	}
}

// altitudeScore prefers airmass when known; airmass 1.0 is the zenith and
// 2.0 corresponds to 30 degrees altitude.
func (s *Scorer) altitudeScore(maxAltitude float64, minAirmass *float64) float64 {
	w := s.weights.Altitude

	if minAirmass != nil && *minAirmass < 99 {
		am := *minAirmass
		switch {
		case am <= 1.05:
			return w * 0.95
		case am <= 1.15:
			return w * 0.90
		case am <= 1.41:
			return w * 0.75
		case am <= 2.0:
			return w * 0.55
		case am <= 3.0:
			return w * 0.30
		default:
			return w * 0.10
		}
	}

	switch {
	case maxAltitude < 15:
		return 0
	case maxAltitude >= 75:
		return w * 0.95
	case maxAltitude >= 60:
		return w * 0.85
	case maxAltitude >= 45:
		return w * 0.70
	case maxAltitude >= 30:
		return w * 0.50
	default:
		return w * 0.30
	}
}

func (s *Scorer) moonScore(separation *float64, illumination float64, cat models.Category, st models.Subtype) float64 {
	w := s.weights.Moon

	// Planets shrug off moonlight; keep a small glare penalty.
	if cat == models.CategoryPlanet {
		return w * 0.9
	}
	if illumination < 5 {
		return w
	}

	var sensitivity float64
	switch {
	case cat == models.CategoryDSO && st != models.SubtypeNone:
		sensitivity = MoonSensitivity(st)
	case cat == models.CategoryComet:
		sensitivity = 0.7
	case cat == models.CategoryMilkyWay:
		sensitivity = 1.0
	default:
		sensitivity = 0.5
	}

	separationFactor := 1.0
	if separation != nil {
		switch {
		case *separation > 90:
			separationFactor = 0.3
		case *separation > 60:
			separationFactor = 0.5
		case *separation > 30:
			separationFactor = 0.7
		}
	}

	interference := illumination / 100.0 * sensitivity * separationFactor
	return w * (1.0 - interference)
}

func (s *Scorer) timingScore(peak *time.Time, windowStart, windowEnd time.Time) float64 {
	w := s.weights.Timing

	if peak == nil {
		return w * 0.3
	}
	if !peak.Before(windowStart) && !peak.After(windowEnd) {
		return w
	}

	var hoursOff float64
	if peak.Before(windowStart) {
		hoursOff = windowStart.Sub(*peak).Hours()
	} else {
		hoursOff = peak.Sub(windowEnd).Hours()
	}

	switch {
	case hoursOff < 1:
		return w * 0.8
	case hoursOff < 2:
		return w * 0.6
	case hoursOff < 4:
		return w * 0.4
	default:
		return w * 0.2
	}
}

func (s *Scorer) weatherScore(cloudCover, aod, precip, windGust, transparency *float64, isDeepSky, isPlanet bool) float64 {
	w := s.weights.Weather

	if cloudCover == nil {
		return w * 0.7 // assume decent when unknown
	}

	var base float64
	switch {
	case *cloudCover < 10:
		base = w
	case *cloudCover < 25:
		base = w * 0.9
	case *cloudCover < 50:
		base = w * 0.6
	case *cloudCover < 75:
		base = w * 0.3
	default:
		base = w * 0.1
	}

	// Aerosols dim faint extended targets more than bright point sources.
	aodFactor := 1.0
	if aod != nil {
		switch {
		case *aod < 0.1:
			aodFactor = 1.0
		case *aod < 0.2:
			aodFactor = pick(isDeepSky, 0.95, 0.98)
		case *aod < 0.3:
			aodFactor = pick(isDeepSky, 0.85, 0.92)
		case *aod < 0.5:
			aodFactor = pick(isDeepSky, 0.70, 0.85)
		default:
			aodFactor = pick(isDeepSky, 0.50, 0.75)
		}
	}

	transparencyFactor := 1.0
	if transparency != nil && isDeepSky {
		switch {
		case *transparency >= 80:
			transparencyFactor = 1.05
		case *transparency >= 60:
			transparencyFactor = 1.0
		case *transparency >= 40:
			transparencyFactor = 0.90
		default:
			transparencyFactor = 0.75
		}
	}

	precipFactor := 1.0
	if precip != nil {
		switch {
		case *precip > 70:
			precipFactor = 0.3
		case *precip > 50:
			precipFactor = 0.5
		case *precip > 30:
			precipFactor = 0.7
		case *precip > 10:
			precipFactor = 0.9
		}
	}

	// Planets use short video frames, so gusts hurt them less than
	// long-exposure targets.
	windFactor := 1.0
	if windGust != nil {
		switch {
		case *windGust < 15:
			windFactor = 1.0
		case *windGust < 25:
			windFactor = pick(isPlanet, 0.98, 0.95)
		case *windGust < 40:
			windFactor = pick(isPlanet, 0.92, 0.80)
		case *windGust < 55:
			windFactor = pick(isPlanet, 0.80, 0.60)
		default:
			windFactor = pick(isPlanet, 0.60, 0.40)
		}
	}

	return base * aodFactor * transparencyFactor * precipFactor * windFactor
}

func (s *Scorer) surfaceBrightnessScore(sb, magnitude, angularSizeArcmin *float64) float64 {
	w := s.weights.SurfaceBrightness

	if sb != nil {
		switch {
		case *sb < 20:
			return w
		case *sb < 22:
			return w * 0.8
		case *sb < 24:
			return w * 0.6
		case *sb < 26:
			return w * 0.4
		default:
			return w * 0.2
		}
	}

	size := 1.0
	if angularSizeArcmin != nil {
		size = *angularSizeArcmin
	}
	if magnitude != nil && size > 0 {
		// SB ≈ mag + 2.5*log10(area in arcsec²), treating the object
		// as a disk of the given diameter.
		area := math.Pow(size*60, 2) * math.Pi / 4
		estimated := *magnitude + 2.5*math.Log10(math.Max(area, 1))
		switch {
		case estimated < 20:
			return w
		case estimated < 22:
			return w * 0.7
		case estimated < 24:
			return w * 0.5
		default:
			return w * 0.3
		}
	}

	return w * 0.5
}

func (s *Scorer) magnitudeScore(magnitude *float64, cat models.Category) float64 {
	w := s.weights.Magnitude

	if magnitude == nil {
		return w * 0.5
	}
	m := *magnitude

	switch cat {
	case models.CategoryPlanet:
		switch {
		case m < -2:
			return w
		case m < 0:
			return w * 0.9
		case m < 2:
			return w * 0.7
		default:
			return w * 0.5
		}
	case models.CategoryComet, models.CategoryAsteroid:
		switch {
		case m < 6:
			return w
		case m < 8:
			return w * 0.8
		case m < 10:
			return w * 0.6
		case m < 12:
			return w * 0.4
		default:
			return w * 0.2
		}
	default:
		switch {
		case m < 5:
			return w
		case m < 7:
			return w * 0.9
		case m < 9:
			return w * 0.7
		case m < 11:
			return w * 0.5
		case m < 13:
			return w * 0.3
		default:
			return w * 0.2
		}
	}
}

// typeSuitabilityScore rewards matching the target to the sky: dark nights
// favour diffuse sensitive objects, moonlit nights favour resilient ones.
func (s *Scorer) typeSuitabilityScore(cat models.Category, st models.Subtype, moonIllumination float64) float64 {
	w := s.weights.TypeSuitability

	if moonIllumination < 30 {
		switch {
		case cat == models.CategoryMilkyWay:
			return w
		case st == models.SubtypeEmissionNebula, st == models.SubtypeHIIRegion,
			st == models.SubtypeReflectionNebula, st == models.SubtypeGalaxy:
			return w * 0.95
		case st == models.SubtypePlanetaryNebula, st == models.SubtypeSupernovaRemnant:
			return w * 0.85
		case cat == models.CategoryComet:
			return w * 0.8
		case st == models.SubtypeOpenCluster, st == models.SubtypeGlobularCluster:
			return w * 0.7
		case cat == models.CategoryPlanet:
			return w * 0.6
		default:
			return w * 0.5
		}
	}

	switch {
	case cat == models.CategoryPlanet:
		return w
	case st == models.SubtypeGlobularCluster, st == models.SubtypeOpenCluster:
		return w * 0.9
	case st == models.SubtypePlanetaryNebula:
		return w * 0.7
	case cat == models.CategoryComet:
		return w * 0.5
	case st == models.SubtypeGalaxy, st == models.SubtypeEmissionNebula, st == models.SubtypeHIIRegion:
		return w * 0.3
	case cat == models.CategoryMilkyWay:
		return w * 0.1
	default:
		return w * 0.4
	}
}

func (s *Scorer) transientBonus(cat models.Category, interstellar, nearPerihelion bool) float64 {
	w := s.weights.Transient

	if interstellar {
		return w
	}
	switch cat {
	case models.CategoryComet:
		if nearPerihelion {
			return w * 0.7
		}
		return w * 0.5
	case models.CategoryAsteroid:
		return w * 0.3
	}
	return 0
}

// seasonalScore peaks when the object sits opposite the sun, which puts
// it highest at local midnight.
func (s *Scorer) seasonalScore(raHours float64, date time.Time) float64 {
	w := s.weights.Seasonal

	// The sun crosses RA 0h near March 21 (day 80) and moves ~24h/year.
	dayOfYear := float64(date.YearDay())
	sunRA := math.Mod((dayOfYear-80)/365.25*24, 24)
	if sunRA < 0 {
		sunRA += 24
	}

	diff := math.Abs(raHours - sunRA)
	if diff > 12 {
		diff = 24 - diff
	}

	return w * (diff / 12.0)
}

// noveltyScore gives the full bonus to Messier designations and half to
// any other named object.
func (s *Scorer) noveltyScore(commonName string) float64 {
	w := s.weights.Novelty

	if commonName == "" {
		return 0
	}
	if isMessierName(commonName) {
		return w
	}
	return w * 0.5
}

func isMessierName(name string) bool {
	if len(name) < 2 || name[0] != 'M' {
		return false
	}
	first := strings.Fields(name)[0]
	if len(first) < 2 {
		return false
	}
	for _, r := range first[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func scoreReason(breakdown map[models.ScoreFactor]float64, maxAltitude, moonIllumination float64) string {
	var reasons []string

	switch {
	case maxAltitude >= 75:
		reasons = append(reasons, "excellent altitude")
	case maxAltitude >= 60:
		reasons = append(reasons, "very good altitude")
	case maxAltitude >= 45:
		reasons = append(reasons, "good altitude")
	case maxAltitude >= 30:
		reasons = append(reasons, "acceptable altitude")
	default:
		reasons = append(reasons, "low altitude")
	}

	switch {
	case moonIllumination < 20:
		reasons = append(reasons, "dark sky")
	case moonIllumination < 50:
		reasons = append(reasons, "moderate moonlight")
	case breakdown[models.FactorMoon] > 15:
		reasons = append(reasons, "moon tolerable")
	default:
		reasons = append(reasons, "moon interference")
	}

	if breakdown[models.FactorTransient] > 15 {
		reasons = append(reasons, "rare target")
	}
	if breakdown[models.FactorSeasonal] > 10 {
		reasons = append(reasons, "peak season")
	}

	joined := strings.Join(reasons, ", ")
	return strings.ToUpper(joined[:1]) + joined[1:]
}

// ScoreTier maps a total score to the display tier used in reports.
func ScoreTier(score float64) string {
	pct := score / MaxScore * 100
	switch {
	case pct >= 75:
		return "Excellent"
	case pct >= 50:
		return "Very Good"
	case pct >= 35:
		return "Good"
	case pct >= 20:
		return "Fair"
	default:
		return "Poor"
	}
}

func pick(cond bool, ifTrue, ifFalse float64) float64 {
	if cond {
		return ifTrue
	}
	return ifFalse
}
