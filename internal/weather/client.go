// Package weather fetches the Open-Meteo hourly forecast and shapes it
// into per-night aggregates and category windows for the merit engine.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "github.com/nightseek/nightseek/internal/platform/http"
	"github.com/nightseek/nightseek/models"
)

// MaxForecastDays is the hourly horizon Open-Meteo provides.
const MaxForecastDays = 16

// Client fetches and holds an hourly forecast for one location.
type Client struct {
	baseURL       string
	airQualityURL string
	latitude      float64
	longitude     float64
	httpClient    *platformhttp.Client
	logger        zerolog.Logger

	hours map[time.Time]models.HourlyWeather
}

// NewClient creates a weather client for the observer location.
func NewClient(latitude, longitude float64, httpClient *platformhttp.Client) *Client {
	return &Client{
		baseURL:       "https://api.open-meteo.com/v1/forecast",
		airQualityURL: "https://air-quality-api.open-meteo.com/v1/air-quality",
		latitude:      latitude,
		longitude:     longitude,
		httpClient:    httpClient,
		logger:        log.With().Str("component", "weather_client").Logger(),
	}
}

// forecastResponse mirrors the Open-Meteo hourly payload. Optional arrays
// may be missing or carry nulls.
type forecastResponse struct {
	Hourly struct {
		Time              []string   `json:"time"`
		CloudCover        []*float64 `json:"cloud_cover"`
		CloudCoverLow     []*float64 `json:"cloud_cover_low"`
		CloudCoverMid     []*float64 `json:"cloud_cover_mid"`
		CloudCoverHigh    []*float64 `json:"cloud_cover_high"`
		Visibility        []*float64 `json:"visibility"` // meters
		WindSpeed         []*float64 `json:"wind_speed_10m"`
		WindGusts         []*float64 `json:"wind_gusts_10m"`
		Humidity          []*float64 `json:"relative_humidity_2m"`
		Temperature       []*float64 `json:"temperature_2m"`
		DewPoint          []*float64 `json:"dew_point_2m"`
		PrecipProbability []*float64 `json:"precipitation_probability"`
		Precipitation     []*float64 `json:"precipitation"`
		SurfacePressure   []*float64 `json:"surface_pressure"`
		CAPE              []*float64 `json:"cape"`
	} `json:"hourly"`
}

type airQualityResponse struct {
	Hourly struct {
		Time []string   `json:"time"`
		AOD  []*float64 `json:"aerosol_optical_depth"`
	} `json:"hourly"`
}

// Fetch downloads up to days of hourly forecast. Days beyond the provider
// horizon are not requested; callers asking for a longer forecast run the
// later nights without weather. Returns false when no usable data came
// back, which the engine treats as "no weather", never as an error.
func (c *Client) Fetch(ctx context.Context, days int) bool {
	if days > MaxForecastDays {
		return false
	}

	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&forecast_days=%d&timezone=UTC&hourly=%s",
		c.baseURL, c.latitude, c.longitude, days,
		"cloud_cover,cloud_cover_low,cloud_cover_mid,cloud_cover_high,visibility,"+
			"wind_speed_10m,wind_gusts_10m,relative_humidity_2m,temperature_2m,"+
			"dew_point_2m,precipitation_probability,precipitation,surface_pressure,cape",
	)

	body, err := c.get(ctx, url)
	if err != nil {
		c.logger.Warn().Err(err).Msg("weather fetch failed, continuing without weather")
		return false
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Warn().Err(err).Msg("weather response parse failed")
		return false
	}
	if len(data.Hourly.Time) == 0 || len(data.Hourly.CloudCover) == 0 {
		c.logger.Warn().Msg("weather response had no hourly data")
		return false
	}

	c.hours = make(map[time.Time]models.HourlyWeather, len(data.Hourly.Time))
	for i, ts := range data.Hourly.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		t = t.UTC()

		cc := 0.0
		if i < len(data.Hourly.CloudCover) && data.Hourly.CloudCover[i] != nil {
			cc = *data.Hourly.CloudCover[i]
		}

		h := models.HourlyWeather{Time: t, CloudCover: cc}
		h.CloudLow = at(data.Hourly.CloudCoverLow, i)
		h.CloudMid = at(data.Hourly.CloudCoverMid, i)
		h.CloudHigh = at(data.Hourly.CloudCoverHigh, i)
		if v := at(data.Hourly.Visibility, i); v != nil {
			km := *v / 1000.0
			h.VisibilityKm = &km
		}
		h.WindSpeedKmh = at(data.Hourly.WindSpeed, i)
		h.WindGustKmh = at(data.Hourly.WindGusts, i)
		h.Humidity = at(data.Hourly.Humidity, i)
		h.TemperatureC = at(data.Hourly.Temperature, i)
		h.DewPointC = at(data.Hourly.DewPoint, i)
		h.PrecipProbability = at(data.Hourly.PrecipProbability, i)
		h.PrecipMm = at(data.Hourly.Precipitation, i)
		h.PressureHpa = at(data.Hourly.SurfacePressure, i)
		h.CAPE = at(data.Hourly.CAPE, i)

		c.hours[t] = h
	}

	c.fetchAerosol(ctx, days)

	c.logger.Debug().Int("hours", len(c.hours)).Msg("fetched weather forecast")
	return len(c.hours) > 0
}

// fetchAerosol merges aerosol optical depth from the air-quality API into
// already-fetched hours. AOD is best effort: a failure here only costs
// the transparency refinement.
func (c *Client) fetchAerosol(ctx context.Context, days int) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&forecast_days=%d&timezone=UTC&hourly=aerosol_optical_depth",
		c.airQualityURL, c.latitude, c.longitude, days,
	)

	body, err := c.get(ctx, url)
	if err != nil {
		c.logger.Debug().Err(err).Msg("aerosol fetch failed")
		return
	}

	var data airQualityResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Debug().Err(err).Msg("aerosol response parse failed")
		return
	}

	for i, ts := range data.Hourly.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		if h, ok := c.hours[t.UTC()]; ok {
			h.AOD = at(data.Hourly.AOD, i)
			c.hours[t.UTC()] = h
		}
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

func at(arr []*float64, i int) *float64 {
	if i < len(arr) {
		return arr[i]
	}
	return nil
}

// NightHours returns the fetched hours that fall inside the night bounds,
// chronologically sorted. Empty when no forecast is loaded or the night
// is outside the fetched horizon.
func (c *Client) NightHours(bounds models.NightBounds) []models.HourlyWeather {
	if len(c.hours) == 0 || !bounds.Valid() {
		return nil
	}

	var hours []models.HourlyWeather
	for t, h := range c.hours {
		if !t.Before(bounds.Dusk.Truncate(time.Hour)) && !t.After(bounds.Dawn) {
			hours = append(hours, h)
		}
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Time.Before(hours[j].Time) })
	return hours
}
