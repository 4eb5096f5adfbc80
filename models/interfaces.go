package models

import (
	"context"
	"time"
)

// PositionOracle resolves where a body appears in the sky for a fixed
// ground observer. Implementations are deterministic and never touch the
// network.
type PositionOracle interface {
	// Observe returns the apparent altitude/azimuth of a body at an instant.
	Observe(body Body, t time.Time) (HorizontalPosition, error)
	// ObserveBatch resolves many instants in one call; positions[i]
	// corresponds to times[i].
	ObserveBatch(body Body, times []time.Time) ([]HorizontalPosition, error)
	// Coordinates returns the geocentric RA/Dec of a body for a date.
	Coordinates(body Body, date time.Time) (EquatorialPosition, error)
}

// NightOracle supplies per-date night structure: twilight bounds and
// moon state.
type NightOracle interface {
	NightInfo(date time.Time) NightInfo
}

// CatalogProvider enumerates candidate objects for the observer. The
// deep-sky and comet catalogs may hit the network on a cold cache.
type CatalogProvider interface {
	Planets() []CelestialObject
	DeepSkyObjects(ctx context.Context, maxMagnitude float64) ([]CelestialObject, error)
	Comets(ctx context.Context, maxMagnitude float64) ([]CelestialObject, error)
	MinorPlanets() []CelestialObject
}
