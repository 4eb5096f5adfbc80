package astro

import (
	"fmt"
	"math"

	"github.com/nightseek/nightseek/models"
)

// planetOrbit holds J2000 mean Keplerian elements and per-century rates
// from the JPL approximate-position tables (valid 1800-2050).
type planetOrbit struct {
	a, aDot   float64 // semi-major axis, AU
	e, eDot   float64 // eccentricity
	i, iDot   float64 // inclination, deg
	l, lDot   float64 // mean longitude, deg
	lp, lpDot float64 // longitude of perihelion, deg
	om, omDot float64 // longitude of ascending node, deg
}

var planetOrbits = map[models.PlanetID]planetOrbit{
	models.Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	models.Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	models.Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	models.Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	models.Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	models.Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	models.Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// Earth-Moon barycenter, used to place the observer's planet.
var earthOrbit = planetOrbit{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

// gaussianConstant is the daily mean motion coefficient: n = k / a^1.5 in
// degrees/day for a in AU.
const gaussianConstant = 0.9856076686

// solveKepler solves E - e*sin(E) = M by Newton iteration. Inputs and
// output in radians.
func solveKepler(m, e float64) float64 {
	E := m
	if e > 0.8 {
		E = math.Pi
	}
	for iter := 0; iter < 30; iter++ {
		d := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= d
		if math.Abs(d) < 1e-10 {
			break
		}
	}
	return E
}

// helioVec is a heliocentric J2000 ecliptic position vector in AU.
type helioVec struct{ X, Y, Z float64 }

// orbitalToHelio converts in-plane coordinates to heliocentric ecliptic
// using the three standard rotations (argPeri, inclination, node), all
// arguments in degrees except xp/yp in AU.
func orbitalToHelio(xp, yp, argPeriDeg, incDeg, nodeDeg float64) helioVec {
	w := argPeriDeg * degToRad
	i := incDeg * degToRad
	o := nodeDeg * degToRad

	cw, sw := math.Cos(w), math.Sin(w)
	ci, si := math.Cos(i), math.Sin(i)
	co, so := math.Cos(o), math.Sin(o)

	x := (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y := (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z := (sw*si)*xp + (cw*si)*yp

	return helioVec{x, y, z}
}

// helioFromOrbit computes a heliocentric position from classical elements.
// meanAnomalyDeg is M at the requested instant.
func helioFromOrbit(aAU, e, meanAnomalyDeg, argPeriDeg, incDeg, nodeDeg float64) helioVec {
	m := normalizeDeg(meanAnomalyDeg) * degToRad
	E := solveKepler(m, e)

	xp := aAU * (math.Cos(E) - e)
	yp := aAU * math.Sqrt(1-e*e) * math.Sin(E)

	return orbitalToHelio(xp, yp, argPeriDeg, incDeg, nodeDeg)
}

// planetHelio returns a major planet's heliocentric position at jd.
func planetHelio(orbit planetOrbit, jd float64) helioVec {
	t := (jd - j2000) / 36525.0

	a := orbit.a + orbit.aDot*t
	e := orbit.e + orbit.eDot*t
	i := orbit.i + orbit.iDot*t
	l := orbit.l + orbit.lDot*t
	lp := orbit.lp + orbit.lpDot*t
	om := orbit.om + orbit.omDot*t

	argPeri := lp - om
	meanAnomaly := l - lp

	return helioFromOrbit(a, e, meanAnomaly, argPeri, i, om)
}

// earthHelio returns Earth's heliocentric position at jd.
func earthHelio(jd float64) helioVec {
	return planetHelio(earthOrbit, jd)
}

// helioToEquatorial turns a heliocentric ecliptic position into the
// geocentric apparent RA/Dec seen from Earth at jd.
func helioToEquatorial(p helioVec, jd float64) equatorialPos {
	earth := earthHelio(jd)

	gx := p.X - earth.X
	gy := p.Y - earth.Y
	gz := p.Z - earth.Z

	dist := math.Sqrt(gx*gx + gy*gy + gz*gz)
	lon := normalizeDeg(math.Atan2(gy, gx) * radToDeg)
	lat := math.Asin(gz/dist) * radToDeg

	return eclipticToEquatorial(eclipticPos{LonDeg: lon, LatDeg: lat, DistAU: dist}, jd)
}

// planetEquatorial returns a planet's geocentric RA/Dec at jd.
func planetEquatorial(id models.PlanetID, jd float64) (equatorialPos, error) {
	orbit, ok := planetOrbits[id]
	if !ok {
		return equatorialPos{}, fmt.Errorf("unknown planet id %d", id)
	}
	return helioToEquatorial(planetHelio(orbit, jd), jd), nil
}

// maxKeplerEccentricity bounds the elliptic solver; near-parabolic and
// hyperbolic orbits are reported as unresolvable so callers treat the
// lookup as inconclusive.
const maxKeplerEccentricity = 0.995

// keplerEquatorial returns the geocentric RA/Dec of a body on a
// heliocentric elliptical orbit at jd.
func keplerEquatorial(el *models.OrbitalElements, jd float64) (equatorialPos, error) {
	if el.Eccentricity >= maxKeplerEccentricity {
		return equatorialPos{}, fmt.Errorf("eccentricity %.3f too close to parabolic", el.Eccentricity)
	}

	a := el.SemiMajorAU
	if a == 0 {
		a = el.PerihelionAU / (1 - el.Eccentricity)
	}
	if a <= 0 {
		return equatorialPos{}, fmt.Errorf("cannot derive semi-major axis (a=%.3f, q=%.3f)", el.SemiMajorAU, el.PerihelionAU)
	}

	n := gaussianConstant / math.Pow(a, 1.5) // deg/day

	var meanAnomaly float64
	if el.PerihelionJD != 0 {
		meanAnomaly = n * (jd - el.PerihelionJD)
	} else {
		meanAnomaly = el.MeanAnomalyDeg + n*(jd-el.EpochJD)
	}

	p := helioFromOrbit(a, el.Eccentricity, meanAnomaly, el.ArgPeriDeg, el.InclinationDeg, el.NodeDeg)
	return helioToEquatorial(p, jd), nil
}

// HelioDistanceAU returns the body's current distance from the Sun, used
// for comet brightness estimation.
func HelioDistanceAU(el *models.OrbitalElements, jd float64) (float64, error) {
	if el.Eccentricity >= maxKeplerEccentricity {
		return 0, fmt.Errorf("eccentricity %.3f too close to parabolic", el.Eccentricity)
	}
	a := el.SemiMajorAU
	if a == 0 {
		a = el.PerihelionAU / (1 - el.Eccentricity)
	}
	if a <= 0 {
		return 0, fmt.Errorf("cannot derive semi-major axis")
	}

	n := gaussianConstant / math.Pow(a, 1.5)
	var meanAnomaly float64
	if el.PerihelionJD != 0 {
		meanAnomaly = n * (jd - el.PerihelionJD)
	} else {
		meanAnomaly = el.MeanAnomalyDeg + n*(jd-el.EpochJD)
	}

	E := solveKepler(normalizeDeg(meanAnomaly)*degToRad, el.Eccentricity)
	return a * (1 - el.Eccentricity*math.Cos(E)), nil
}

// GeoDistanceAU returns the body's current distance from Earth.
func GeoDistanceAU(el *models.OrbitalElements, jd float64) (float64, error) {
	eq, err := keplerEquatorial(el, jd)
	if err != nil {
		return 0, err
	}
	return eq.DistAU, nil
}
