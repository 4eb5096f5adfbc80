// Package analyze orchestrates one forecast run: for each night it builds
// the night structure, samples every catalog candidate through the
// position oracle, attaches the weather aggregate, scores the visible
// objects and selects the final shortlist.
package analyze

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/catalog"
	"github.com/nightseek/nightseek/internal/events"
	"github.com/nightseek/nightseek/internal/sampler"
	"github.com/nightseek/nightseek/internal/scoring"
	"github.com/nightseek/nightseek/internal/selection"
	"github.com/nightseek/nightseek/internal/weather"
	"github.com/nightseek/nightseek/models"
)

// WeatherSource is the slice of the weather client the analyzer needs.
// A nil source means weather is disabled; forecasts then carry no weather
// and the scorer assumes decent conditions.
type WeatherSource interface {
	Fetch(ctx context.Context, days int) bool
	NightHours(bounds models.NightBounds) []models.HourlyWeather
}

// NightForecast is the complete result for one night, consumed read-only
// by presentation.
type NightForecast struct {
	Night        models.NightInfo
	Weather      *models.NightWeather
	Windows      []models.WeatherWindow
	Moon         models.ObjectVisibility
	Selected     []models.ScoredObject
	Showers      []events.ActiveShower
	Conjunctions []events.Conjunction
}

// Options tunes a forecast run.
type Options struct {
	ForecastDays  int
	MinAltitude   float64 // below this peak altitude an object is not scored
	DSOMagLimit   float64
	CometMagLimit float64
	WindowSplit   time.Duration // weather windows longer than this are split
}

// Analyzer runs the visibility-and-merit pipeline.
type Analyzer struct {
	oracle   models.PositionOracle
	nights   models.NightOracle
	sampler  *sampler.Sampler
	catalog  models.CatalogProvider
	weather  WeatherSource
	scorer   *scoring.Scorer
	selector *selection.Engine
	events   *events.Detector
	opts     Options
	logger   zerolog.Logger
}

func New(
	oracle models.PositionOracle,
	nights models.NightOracle,
	smp *sampler.Sampler,
	cat models.CatalogProvider,
	wx WeatherSource,
	scorer *scoring.Scorer,
	selector *selection.Engine,
	opts Options,
	logger zerolog.Logger,
) *Analyzer {
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = 7
	}
	if opts.MinAltitude == 0 {
		opts.MinAltitude = 30
	}
	return &Analyzer{
		oracle:   oracle,
		nights:   nights,
		sampler:  smp,
		catalog:  cat,
		weather:  wx,
		scorer:   scorer,
		selector: selector,
		events:   events.NewDetector(oracle, logger),
		opts:     opts,
		logger:   logger.With().Str("component", "analyze").Logger(),
	}
}

// Forecast analyzes opts.ForecastDays nights starting at startDate.
// Catalog and weather I/O happens up front; the per-night loop is pure
// computation.
func (a *Analyzer) Forecast(ctx context.Context, startDate time.Time) ([]NightForecast, error) {
	candidates, err := a.loadCandidates(ctx)
	if err != nil {
		return nil, err
	}

	if a.weather != nil {
		if !a.weather.Fetch(ctx, a.opts.ForecastDays) {
			a.logger.Warn().Msg("weather fetch failed, forecasting without weather")
		}
	}

	forecasts := make([]NightForecast, 0, a.opts.ForecastDays)
	for day := 0; day < a.opts.ForecastDays; day++ {
		date := startDate.AddDate(0, 0, day)
		forecasts = append(forecasts, a.analyzeNight(date, candidates))
	}
	return forecasts, nil
}

// loadCandidates assembles the full candidate list. Comet or DSO catalog
// failures degrade to an empty slice of that category so a network outage
// never kills the planets-only forecast.
func (a *Analyzer) loadCandidates(ctx context.Context) ([]models.CelestialObject, error) {
	candidates := a.catalog.Planets()
	candidates = append(candidates, catalog.MilkyWay())

	dsos, err := a.catalog.DeepSkyObjects(ctx, a.opts.DSOMagLimit)
	if err != nil {
		a.logger.Warn().Err(err).Msg("deep-sky catalog unavailable")
	} else {
		candidates = append(candidates, dsos...)
	}

	comets, err := a.catalog.Comets(ctx, a.opts.CometMagLimit)
	if err != nil {
		a.logger.Warn().Err(err).Msg("comet catalog unavailable")
	} else {
		candidates = append(candidates, comets...)
	}

	candidates = append(candidates, a.catalog.MinorPlanets()...)

	a.logger.Info().Int("candidates", len(candidates)).Msg("candidate list assembled")
	return candidates, nil
}

func (a *Analyzer) analyzeNight(date time.Time, candidates []models.CelestialObject) NightForecast {
	night := a.nights.NightInfo(date)

	forecast := NightForecast{
		Night: night,
		Moon:  a.sampler.Sample(moonObject(), night, sampler.Fine()),
	}

	var hours []models.HourlyWeather
	if a.weather != nil && night.Bounds.Valid() {
		hours = a.weather.NightHours(night.Bounds)
		forecast.Weather = weather.AggregateNight(date, hours)
		forecast.Windows = weather.BuildWindows(hours, night.Bounds,
			weather.WindowOptions{SplitLongerThan: a.opts.WindowSplit})
	}

	var scored []models.ScoredObject
	var planets []events.Candidate
	for i := range candidates {
		obj := candidates[i]

		// Orbital-element objects move slowly across a night; coarse
		// sampling keeps a thousand-comet catalog tractable.
		smpOpts := sampler.Fine()
		if obj.Body.Kind == models.BodyKepler {
			smpOpts = sampler.Coarse()
		}

		vis := a.sampler.Sample(obj, night, smpOpts)

		// The conjunction scan wants every planet, including ones
		// peaking below the scoring floor.
		if obj.Category == models.CategoryPlanet {
			planets = append(planets, events.Candidate{Object: obj, Visibility: vis})
		}

		if !vis.IsVisible || vis.MaxAltitude < a.opts.MinAltitude {
			continue
		}

		scored = append(scored, a.scorer.Score(a.scoreInput(obj, &vis, night, forecast.Weather, date)))
	}

	forecast.Selected = a.selector.SelectBest(scored)
	forecast.Showers = a.events.ActiveShowers(night)
	forecast.Conjunctions = a.events.Conjunctions(planets, night)

	a.logger.Debug().
		Str("date", date.Format("2006-01-02")).
		Int("scored", len(scored)).
		Int("selected", len(forecast.Selected)).
		Msg("night analyzed")
	return forecast
}

func (a *Analyzer) scoreInput(
	obj models.CelestialObject,
	vis *models.ObjectVisibility,
	night models.NightInfo,
	nw *models.NightWeather,
	date time.Time,
) scoring.Input {
	in := scoring.Input{
		Object:           obj,
		Visibility:       vis,
		MoonIllumination: night.MoonIllumination,
		Date:             date,
		WindowStart:      night.Bounds.Dusk,
		WindowEnd:        night.Bounds.Dawn,
	}

	if nw != nil {
		avg := nw.AvgCloudCover
		in.CloudCover = &avg
		in.AOD = nw.AvgAOD
		in.PrecipProbability = nw.MaxPrecipProb
		in.WindGustKmh = nw.MaxWindGustKmh
		in.Transparency = nw.TransparencyPct
	}

	if eq, err := a.oracle.Coordinates(obj.Body, date); err == nil {
		in.RAHours = eq.RAHours
	}

	return in
}

// BestDarkNights ranks forecast indices for deep-sky imaging, best first.
// Cloud cover dominates (it blocks everything); moonlight fills the rest.
func BestDarkNights(forecasts []NightForecast) []int {
	type nightScore struct {
		index int
		score float64
	}

	ranked := make([]nightScore, 0, len(forecasts))
	for i, f := range forecasts {
		moonScore := 100 - f.Night.MoonIllumination
		score := moonScore
		if f.Weather != nil {
			cloudScore := 100 - f.Weather.AvgCloudCover
			score = cloudScore*0.7 + moonScore*0.3
		}
		ranked = append(ranked, nightScore{index: i, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	indices := make([]int, len(ranked))
	for i, ns := range ranked {
		indices[i] = ns.index
	}
	return indices
}

func moonObject() models.CelestialObject {
	return models.CelestialObject{
		Name:     "Moon",
		Category: models.CategoryMoon,
		Body:     models.MoonBody,
	}
}
