package astro

import "math"

// eclipticPos is a geocentric or heliocentric ecliptic position.
type eclipticPos struct {
	LonDeg float64
	LatDeg float64
	DistAU float64
}

// equatorialPos is an RA/Dec pair with distance.
type equatorialPos struct {
	RADeg  float64
	DecDeg float64
	DistAU float64
}

// obliquityDeg returns the mean obliquity of the ecliptic.
func obliquityDeg(jd float64) float64 {
	n := jd - j2000
	return 23.439 - 0.0000004*n
}

// sunEcliptic returns the Sun's geocentric ecliptic position using the
// low-precision formulae from the Astronomical Almanac (accuracy ~0.01 deg,
// 1950-2050).
func sunEcliptic(jd float64) eclipticPos {
	n := jd - j2000

	l := normalizeDeg(280.460 + 0.9856474*n) // mean longitude
	g := normalizeDeg(357.528 + 0.9856003*n) // mean anomaly
	gRad := g * degToRad

	lambda := normalizeDeg(l + 1.915*math.Sin(gRad) + 0.020*math.Sin(2*gRad))
	dist := 1.00014 - 0.01671*math.Cos(gRad) - 0.00014*math.Cos(2*gRad)

	return eclipticPos{LonDeg: lambda, LatDeg: 0, DistAU: dist}
}

// eclipticToEquatorial rotates an ecliptic position into RA/Dec.
func eclipticToEquatorial(p eclipticPos, jd float64) equatorialPos {
	eps := obliquityDeg(jd) * degToRad
	lon := p.LonDeg * degToRad
	lat := p.LatDeg * degToRad

	sinLon := math.Sin(lon)
	ra := math.Atan2(sinLon*math.Cos(eps)-math.Tan(lat)*math.Sin(eps), math.Cos(lon))
	dec := math.Asin(math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*sinLon)

	return equatorialPos{
		RADeg:  normalizeDeg(ra * radToDeg),
		DecDeg: dec * radToDeg,
		DistAU: p.DistAU,
	}
}

// sunEquatorial returns the Sun's apparent geocentric RA/Dec.
func sunEquatorial(jd float64) equatorialPos {
	return eclipticToEquatorial(sunEcliptic(jd), jd)
}
