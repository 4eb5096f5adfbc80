package models

import "fmt"

// BodyKind selects how the position oracle locates a body.
type BodyKind int

const (
	BodyFixed  BodyKind = iota // fixed RA/Dec (deep-sky objects, Milky Way core)
	BodySun                    // the Sun
	BodyMoon                   // the Moon
	BodyPlanet                 // major planet by ID
	BodyKepler                 // heliocentric orbital elements (comets, minor planets)
)

// PlanetID identifies a major planet.
type PlanetID int

const (
	Mercury PlanetID = iota
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

// PlanetNames lists the major planets in orbit order.
var PlanetNames = map[PlanetID]string{
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Uranus:  "Uranus",
	Neptune: "Neptune",
}

// OrbitalElements holds heliocentric Keplerian elements referred to the
// J2000 ecliptic. For comets the perihelion distance and perihelion time
// are authoritative; for minor planets the semi-major axis and mean
// anomaly at epoch are.
type OrbitalElements struct {
	EpochJD        float64 // element epoch as Julian Date
	SemiMajorAU    float64 // a, astronomical units (0 for comets given by q)
	PerihelionAU   float64 // q, astronomical units
	Eccentricity   float64 // e
	InclinationDeg float64 // i
	NodeDeg        float64 // longitude of ascending node
	ArgPeriDeg     float64 // argument of perihelion
	MeanAnomalyDeg float64 // M at epoch (minor planets)
	PerihelionJD   float64 // time of perihelion passage (comets)

	// Absolute magnitude parameters for brightness estimation:
	// comets use m = g + 5 log10(delta) + 2.5 k log10(r).
	MagG float64
	MagK float64
}

// Body is a positional handle the oracle can resolve at any instant.
type Body struct {
	Kind     BodyKind
	Name     string
	RAHours  float64 // fixed bodies
	DecDeg   float64 // fixed bodies
	Planet   PlanetID
	Elements *OrbitalElements
}

// FixedBody builds a handle for an object with fixed equatorial coordinates.
func FixedBody(name string, raHours, decDeg float64) Body {
	return Body{Kind: BodyFixed, Name: name, RAHours: raHours, DecDeg: decDeg}
}

// PlanetBody builds a handle for a major planet.
func PlanetBody(id PlanetID) Body {
	return Body{Kind: BodyPlanet, Name: PlanetNames[id], Planet: id}
}

// KeplerBody builds a handle for an object on a heliocentric orbit.
func KeplerBody(name string, el *OrbitalElements) (Body, error) {
	if el == nil {
		return Body{}, fmt.Errorf("%s: nil orbital elements", name)
	}
	if el.Eccentricity < 0 {
		return Body{}, fmt.Errorf("%s: negative eccentricity %.3f", name, el.Eccentricity)
	}
	return Body{Kind: BodyKepler, Name: name, Elements: el}, nil
}

// SunBody and MoonBody are handles for the two bodies the engine always needs.
var (
	SunBody  = Body{Kind: BodySun, Name: "Sun"}
	MoonBody = Body{Kind: BodyMoon, Name: "Moon"}
)
