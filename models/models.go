package models

import (
	"time"
)

// Config holds all runtime configuration, populated from environment
// variables by the command entry points.
type Config struct {
	Latitude  float64 `env:"LATITUDE"`
	Longitude float64 `env:"LONGITUDE"`

	ForecastDays int `env:"FORECAST_DAYS" envDefault:"7"`
	MaxObjects   int `env:"MAX_OBJECTS" envDefault:"8"`

	MinAltitude     float64 `env:"MIN_ALTITUDE" envDefault:"30"`
	OptimalAltitude float64 `env:"OPTIMAL_ALTITUDE" envDefault:"45"`

	SampleIntervalMin int `env:"SAMPLE_INTERVAL_MIN" envDefault:"10"`
	CoarseIntervalMin int `env:"COARSE_INTERVAL_MIN" envDefault:"60"`
	SearchHorizonDays int `env:"SEARCH_HORIZON_DAYS" envDefault:"365"`

	DSOMagLimit   float64 `env:"DSO_MAG_LIMIT" envDefault:"10"`
	CometMagLimit float64 `env:"COMET_MAG_LIMIT" envDefault:"12"`

	MinScore          float64 `env:"MIN_SCORE" envDefault:"60"`
	SoftCapPerSubtype int     `env:"SOFT_CAP_PER_SUBTYPE" envDefault:"3"`
	ExceptionalScore  float64 `env:"EXCEPTIONAL_SCORE" envDefault:"180"`
	EnsureCategories  bool    `env:"ENSURE_CATEGORIES" envDefault:"true"`

	WindowSplitHours float64 `env:"WINDOW_SPLIT_HOURS" envDefault:"2"`

	CacheDir      string  `env:"CACHE_DIR"`
	CacheTTLHours float64 `env:"CACHE_TTL_HOURS" envDefault:"24"`

	WeatherEnabled bool `env:"WEATHER_ENABLED" envDefault:"true"`

	RequestTimeout int `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	RequestsPerSec int `env:"REQUESTS_PER_SEC" envDefault:"5"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`
	DBHost        string `env:"DB_HOST"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
}

// HorizontalPosition is an apparent position relative to the observer.
type HorizontalPosition struct {
	AltitudeDeg float64 `json:"altitude_deg"`
	AzimuthDeg  float64 `json:"azimuth_deg"` // 0 = North, clockwise
}

// EquatorialPosition is a geocentric apparent RA/Dec.
type EquatorialPosition struct {
	RAHours float64 `json:"ra_hours"`
	DecDeg  float64 `json:"dec_deg"`
}

// NightBounds delimits one astronomical night (Sun 18 degrees below the
// horizon). Dawn is always after dusk; nights crossing midnight are
// expressed by a dawn on the following calendar day.
type NightBounds struct {
	Dusk time.Time `json:"dusk"`
	Dawn time.Time `json:"dawn"`
}

// Valid reports whether real bounds were established. Polar summers can
// have no astronomical darkness at all.
func (b NightBounds) Valid() bool {
	return !b.Dusk.IsZero() && !b.Dawn.IsZero() && b.Dawn.After(b.Dusk)
}

// NightInfo describes one observation night: twilight bounds and moon state.
type NightInfo struct {
	Date             time.Time   `json:"date"`
	Sunset           time.Time   `json:"sunset"`
	Sunrise          time.Time   `json:"sunrise"`
	Bounds           NightBounds `json:"bounds"`
	MoonPhase        float64     `json:"moon_phase"`        // 0 new, 0.5 full
	MoonIllumination float64     `json:"moon_illumination"` // 0-100%
	MoonRise         *time.Time  `json:"moon_rise,omitempty"`
	MoonSet          *time.Time  `json:"moon_set,omitempty"`
}

// AltitudeSample is one oracle query result on a night's altitude curve.
type AltitudeSample struct {
	Time        time.Time `json:"time"`
	AltitudeDeg float64   `json:"altitude_deg"`
	AzimuthDeg  float64   `json:"azimuth_deg"`
}

// AltitudeWindow is the span during which an object stays at or above one
// altitude threshold, at sample granularity.
type AltitudeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ObjectVisibility summarizes one object over one night.
type ObjectVisibility struct {
	ObjectName string   `json:"object_name"`
	Category   Category `json:"category"`
	Subtype    Subtype  `json:"subtype,omitempty"`

	IsVisible       bool       `json:"is_visible"`
	MaxAltitude     float64    `json:"max_altitude"`
	MaxAltitudeTime *time.Time `json:"max_altitude_time,omitempty"`
	AzimuthAtPeak   *float64   `json:"azimuth_at_peak,omitempty"`
	MinAirmass      *float64   `json:"min_airmass,omitempty"`

	Above45 *AltitudeWindow `json:"above_45,omitempty"`
	Above60 *AltitudeWindow `json:"above_60,omitempty"`
	Above75 *AltitudeWindow `json:"above_75,omitempty"`

	MoonSeparation *float64 `json:"moon_separation,omitempty"` // degrees, at peak
	MoonWarning    bool     `json:"moon_warning"`

	Magnitude *float64 `json:"magnitude,omitempty"`
}

// HourlyWeather is one hour of forecast data. Cloud cover is always
// present; everything else depends on what the provider returned.
type HourlyWeather struct {
	Time       time.Time `json:"time"`
	CloudCover float64   `json:"cloud_cover"` // 0-100%

	CloudLow          *float64 `json:"cloud_low,omitempty"`
	CloudMid          *float64 `json:"cloud_mid,omitempty"`
	CloudHigh         *float64 `json:"cloud_high,omitempty"`
	VisibilityKm      *float64 `json:"visibility_km,omitempty"`
	WindSpeedKmh      *float64 `json:"wind_speed_kmh,omitempty"`
	WindGustKmh       *float64 `json:"wind_gust_kmh,omitempty"`
	Humidity          *float64 `json:"humidity,omitempty"`
	TemperatureC      *float64 `json:"temperature_c,omitempty"`
	DewPointC         *float64 `json:"dew_point_c,omitempty"`
	PrecipProbability *float64 `json:"precip_probability,omitempty"`
	PrecipMm          *float64 `json:"precip_mm,omitempty"`
	PressureHpa       *float64 `json:"pressure_hpa,omitempty"`
	CAPE              *float64 `json:"cape,omitempty"`
	AOD               *float64 `json:"aod,omitempty"`
}

// WeatherWindow is a contiguous stretch of night sharing one weather
// category, clipped to the night bounds.
type WeatherWindow struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Category      WeatherCategory `json:"category"`
	AvgCloudCover float64         `json:"avg_cloud_cover"`
	MinCloudCover float64         `json:"min_cloud_cover"`
	MaxCloudCover float64         `json:"max_cloud_cover"`
}

// NightWeather aggregates the hourly forecast over one astronomical night.
type NightWeather struct {
	Date            time.Time       `json:"date"`
	AvgCloudCover   float64         `json:"avg_cloud_cover"`
	MinCloudCover   float64         `json:"min_cloud_cover"`
	MaxCloudCover   float64         `json:"max_cloud_cover"`
	ClearHours      float64         `json:"clear_hours"` // hours below 20% cloud
	Hours           []HourlyWeather `json:"hours"`
	MaxPrecipProb   *float64        `json:"max_precip_prob,omitempty"`
	MaxWindGustKmh  *float64        `json:"max_wind_gust_kmh,omitempty"`
	AvgAOD          *float64        `json:"avg_aod,omitempty"`
	TransparencyPct *float64        `json:"transparency_pct,omitempty"` // 0-100 derived
}

// ScoreFactor names one sub-score of the merit breakdown.
type ScoreFactor string

const (
	FactorAltitude          ScoreFactor = "altitude"
	FactorMoon              ScoreFactor = "moon"
	FactorTiming            ScoreFactor = "timing"
	FactorWeather           ScoreFactor = "weather"
	FactorSurfaceBrightness ScoreFactor = "surface_brightness"
	FactorMagnitude         ScoreFactor = "magnitude"
	FactorTypeSuitability   ScoreFactor = "type_suitability"
	FactorTransient         ScoreFactor = "transient"
	FactorSeasonal          ScoreFactor = "seasonal"
	FactorNovelty           ScoreFactor = "novelty"
)

// ScoredObject is one object's merit for one night.
type ScoredObject struct {
	ObjectName string                  `json:"object_name"`
	Category   Category                `json:"category"`
	Subtype    Subtype                 `json:"subtype,omitempty"`
	TotalScore float64                 `json:"total_score"`
	Breakdown  map[ScoreFactor]float64 `json:"breakdown"`
	Reason     string                  `json:"reason"`
	Visibility *ObjectVisibility       `json:"visibility,omitempty"`
	Magnitude  *float64                `json:"magnitude,omitempty"`
}

// CelestialObject is one catalog candidate.
type CelestialObject struct {
	Name       string   `json:"name"` // catalog designation, e.g. "NGC 224"
	CommonName string   `json:"common_name,omitempty"`
	Category   Category `json:"category"`
	Subtype    Subtype  `json:"subtype,omitempty"`
	Body       Body     `json:"-"`

	Magnitude         *float64 `json:"magnitude,omitempty"`
	AngularSizeArcmin *float64 `json:"angular_size_arcmin,omitempty"`
	SurfaceBrightness *float64 `json:"surface_brightness,omitempty"` // mag/arcsec^2
	Constellation     string   `json:"constellation,omitempty"`

	IsInterstellar bool `json:"is_interstellar,omitempty"`
	NearPerihelion bool `json:"near_perihelion,omitempty"`
}

// DisplayName prefers the common name when one exists.
func (o CelestialObject) DisplayName() string {
	if o.CommonName != "" {
		return o.CommonName
	}
	return o.Name
}
