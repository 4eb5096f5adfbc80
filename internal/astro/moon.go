package astro

import "math"

// moonEcliptic returns the Moon's geocentric ecliptic position using the
// truncated series from the Astronomical Almanac low-precision method
// (accuracy ~0.3 deg, good enough for rise/set and separation thresholds).
func moonEcliptic(jd float64) eclipticPos {
	t := (jd - j2000) / 36525.0

	sinDeg := func(d float64) float64 { return math.Sin(d * degToRad) }
	cosDeg := func(d float64) float64 { return math.Cos(d * degToRad) }

	lon := 218.32 + 481267.881*t +
		6.29*sinDeg(135.0+477198.87*t) -
		1.27*sinDeg(259.3-413335.36*t) +
		0.66*sinDeg(235.7+890534.22*t) +
		0.21*sinDeg(269.9+954397.74*t) -
		0.19*sinDeg(357.5+35999.05*t) -
		0.11*sinDeg(186.5+966404.03*t)

	lat := 5.13*sinDeg(93.3+483202.02*t) +
		0.28*sinDeg(228.2+960400.89*t) -
		0.28*sinDeg(318.3+6003.15*t) -
		0.17*sinDeg(217.6-407332.21*t)

	// Horizontal parallax gives the distance in Earth radii.
	par := 0.9508 +
		0.0518*cosDeg(135.0+477198.87*t) +
		0.0095*cosDeg(259.3-413335.36*t) +
		0.0078*cosDeg(235.7+890534.22*t) +
		0.0028*cosDeg(269.9+954397.74*t)
	distEarthRadii := 1.0 / sinDeg(par)

	// One AU is about 23455 Earth radii.
	return eclipticPos{
		LonDeg: normalizeDeg(lon),
		LatDeg: lat,
		DistAU: distEarthRadii / 23455.0,
	}
}

// moonEquatorial returns the Moon's geocentric RA/Dec.
func moonEquatorial(jd float64) equatorialPos {
	return eclipticToEquatorial(moonEcliptic(jd), jd)
}

// MoonElongationDeg returns the Moon's elongation east of the Sun in
// [0, 360): 0 at new moon, 180 at full, waxing below 180.
func MoonElongationDeg(jd float64) float64 {
	moon := moonEcliptic(jd)
	sun := sunEcliptic(jd)
	return normalizeDeg(moon.LonDeg - sun.LonDeg)
}

// MoonIllumination returns the illuminated fraction as a percentage,
// derived from elongation the same way the phase display does: linear
// from 0% at new to 100% at full.
func MoonIllumination(jd float64) float64 {
	e := MoonElongationDeg(jd)
	if e <= 180 {
		return e / 180.0 * 100.0
	}
	return (360.0 - e) / 180.0 * 100.0
}

// MoonPhase returns the phase as a fraction of the synodic cycle:
// 0 = new, 0.5 = full.
func MoonPhase(jd float64) float64 {
	return MoonElongationDeg(jd) / 360.0
}
