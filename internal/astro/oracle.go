package astro

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nightseek/nightseek/models"
)

// Oracle resolves apparent sky positions for a fixed ground observer.
// It is purely computational: construct it once and share it across the
// whole run.
type Oracle struct {
	latDeg float64
	lonDeg float64
	logger zerolog.Logger
}

// NewOracle creates an Oracle for an observer at the given coordinates.
func NewOracle(latDeg, lonDeg float64) (*Oracle, error) {
	if latDeg < -90 || latDeg > 90 {
		return nil, fmt.Errorf("latitude %.2f out of range [-90, 90]", latDeg)
	}
	if lonDeg < -180 || lonDeg > 180 {
		return nil, fmt.Errorf("longitude %.2f out of range [-180, 180]", lonDeg)
	}
	return &Oracle{
		latDeg: latDeg,
		lonDeg: lonDeg,
		logger: log.With().Str("component", "oracle").Logger(),
	}, nil
}

// Latitude returns the observer latitude in degrees.
func (o *Oracle) Latitude() float64 { return o.latDeg }

// Longitude returns the observer longitude in degrees.
func (o *Oracle) Longitude() float64 { return o.lonDeg }

// equatorialAt resolves a body to geocentric RA/Dec at jd.
func (o *Oracle) equatorialAt(body models.Body, jd float64) (equatorialPos, error) {
	switch body.Kind {
	case models.BodyFixed:
		return equatorialPos{RADeg: body.RAHours * 15.0, DecDeg: body.DecDeg}, nil
	case models.BodySun:
		return sunEquatorial(jd), nil
	case models.BodyMoon:
		return moonEquatorial(jd), nil
	case models.BodyPlanet:
		return planetEquatorial(body.Planet, jd)
	case models.BodyKepler:
		if body.Elements == nil {
			return equatorialPos{}, fmt.Errorf("%s: no orbital elements", body.Name)
		}
		return keplerEquatorial(body.Elements, jd)
	default:
		return equatorialPos{}, fmt.Errorf("%s: unknown body kind %d", body.Name, body.Kind)
	}
}

// Observe returns the apparent altitude/azimuth of a body at an instant.
func (o *Oracle) Observe(body models.Body, t time.Time) (models.HorizontalPosition, error) {
	jd := JulianDate(t)
	eq, err := o.equatorialAt(body, jd)
	if err != nil {
		return models.HorizontalPosition{}, err
	}
	return o.altAz(eq, t), nil
}

// ObserveBatch resolves many instants in one call. For fixed bodies the
// RA/Dec is computed once and only the sidereal rotation varies, which is
// what makes batched night sampling cheap.
func (o *Oracle) ObserveBatch(body models.Body, times []time.Time) ([]models.HorizontalPosition, error) {
	if len(times) == 0 {
		return nil, nil
	}

	positions := make([]models.HorizontalPosition, len(times))

	if body.Kind == models.BodyFixed {
		eq := equatorialPos{RADeg: body.RAHours * 15.0, DecDeg: body.DecDeg}
		for i, t := range times {
			positions[i] = o.altAz(eq, t)
		}
		return positions, nil
	}

	for i, t := range times {
		eq, err := o.equatorialAt(body, JulianDate(t))
		if err != nil {
			return nil, err
		}
		positions[i] = o.altAz(eq, t)
	}
	return positions, nil
}

// Coordinates returns the geocentric RA/Dec of a body for a date,
// evaluated at 0h UTC.
func (o *Oracle) Coordinates(body models.Body, date time.Time) (models.EquatorialPosition, error) {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	eq, err := o.equatorialAt(body, JulianDate(d))
	if err != nil {
		return models.EquatorialPosition{}, err
	}
	return models.EquatorialPosition{RAHours: eq.RADeg / 15.0, DecDeg: eq.DecDeg}, nil
}

// altAz converts RA/Dec to apparent altitude/azimuth at the observer.
func (o *Oracle) altAz(eq equatorialPos, t time.Time) models.HorizontalPosition {
	lst := normalizeDeg(GMSTDeg(t) + o.lonDeg)
	ha := normalizeDeg(lst-eq.RADeg) * degToRad

	lat := o.latDeg * degToRad
	dec := eq.DecDeg * degToRad

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	alt := math.Asin(sinAlt)

	// Azimuth measured from North, clockwise through East.
	az := math.Atan2(
		-math.Cos(dec)*math.Sin(ha),
		math.Sin(dec)*math.Cos(lat)-math.Cos(dec)*math.Sin(lat)*math.Cos(ha),
	)

	return models.HorizontalPosition{
		AltitudeDeg: alt * radToDeg,
		AzimuthDeg:  normalizeDeg(az * radToDeg),
	}
}

// Separation returns the great-circle angle in degrees between two
// apparent positions.
func Separation(a, b models.HorizontalPosition) float64 {
	alt1 := a.AltitudeDeg * degToRad
	alt2 := b.AltitudeDeg * degToRad
	dAz := (a.AzimuthDeg - b.AzimuthDeg) * degToRad

	cosSep := math.Sin(alt1)*math.Sin(alt2) + math.Cos(alt1)*math.Cos(alt2)*math.Cos(dAz)
	if cosSep > 1 {
		cosSep = 1
	} else if cosSep < -1 {
		cosSep = -1
	}
	return math.Acos(cosSep) * radToDeg
}

// Airmass approximates atmospheric path length as 1/sin(altitude).
// Returns +Inf at or below the horizon.
func Airmass(altitudeDeg float64) float64 {
	if altitudeDeg <= 0 {
		return math.Inf(1)
	}
	return 1.0 / math.Sin(altitudeDeg*degToRad)
}

// MaxPossibleAltitude is the highest altitude an object at the given
// declination can ever reach from the given latitude.
func MaxPossibleAltitude(latDeg, decDeg float64) float64 {
	return 90.0 - math.Abs(latDeg-decDeg)
}
