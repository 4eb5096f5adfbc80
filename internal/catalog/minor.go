package catalog

import "github.com/nightseek/nightseek/models"

// Embedded J2000 elements for the IAU dwarf planets and a few bright
// main-belt asteroids. Keeping these local avoids pulling the full MPC
// orbit database, which runs to hundreds of megabytes.
type minorPlanet struct {
	name        string
	designation string
	category    models.Category
	magnitudeH  float64
	elements    models.OrbitalElements
}

var minorPlanets = []minorPlanet{
	{
		name: "Pluto", designation: "134340",
		category: models.CategoryDwarfPlanet, magnitudeH: -0.7,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 39.482, Eccentricity: 0.2488,
			InclinationDeg: 17.16, NodeDeg: 110.3, ArgPeriDeg: 113.76,
			MeanAnomalyDeg: 14.53,
		},
	},
	{
		name: "Ceres", designation: "1",
		category: models.CategoryDwarfPlanet, magnitudeH: 3.34,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 2.7675, Eccentricity: 0.0758,
			InclinationDeg: 10.59, NodeDeg: 80.33, ArgPeriDeg: 73.6,
			MeanAnomalyDeg: 77.37,
		},
	},
	{
		name: "Eris", designation: "136199",
		category: models.CategoryDwarfPlanet, magnitudeH: -1.2,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 67.864, Eccentricity: 0.4407,
			InclinationDeg: 44.04, NodeDeg: 35.87, ArgPeriDeg: 151.64,
			MeanAnomalyDeg: 205.99,
		},
	},
	{
		name: "Makemake", designation: "136472",
		category: models.CategoryDwarfPlanet, magnitudeH: -0.3,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 45.43, Eccentricity: 0.161,
			InclinationDeg: 29.0, NodeDeg: 79.36, ArgPeriDeg: 298.83,
			MeanAnomalyDeg: 85.13,
		},
	},
	{
		name: "Haumea", designation: "136108",
		category: models.CategoryDwarfPlanet, magnitudeH: 0.2,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 43.116, Eccentricity: 0.1951,
			InclinationDeg: 28.19, NodeDeg: 121.79, ArgPeriDeg: 240.21,
			MeanAnomalyDeg: 218.21,
		},
	},
	{
		name: "Vesta", designation: "4",
		category: models.CategoryAsteroid, magnitudeH: 3.2,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 2.3615, Eccentricity: 0.0887,
			InclinationDeg: 7.14, NodeDeg: 103.85, ArgPeriDeg: 149.84,
			MeanAnomalyDeg: 20.86,
		},
	},
	{
		name: "Pallas", designation: "2",
		category: models.CategoryAsteroid, magnitudeH: 4.13,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 2.772, Eccentricity: 0.2305,
			InclinationDeg: 34.83, NodeDeg: 173.09, ArgPeriDeg: 310.04,
			MeanAnomalyDeg: 96.15,
		},
	},
	{
		name: "Juno", designation: "3",
		category: models.CategoryAsteroid, magnitudeH: 5.33,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 2.67, Eccentricity: 0.2562,
			InclinationDeg: 12.98, NodeDeg: 169.85, ArgPeriDeg: 247.84,
			MeanAnomalyDeg: 115.42,
		},
	},
	{
		name: "Hygiea", designation: "10",
		category: models.CategoryAsteroid, magnitudeH: 5.43,
		elements: models.OrbitalElements{
			EpochJD: 2451545.0, SemiMajorAU: 3.1421, Eccentricity: 0.1146,
			InclinationDeg: 3.84, NodeDeg: 283.2, ArgPeriDeg: 312.32,
			MeanAnomalyDeg: 156.08,
		},
	},
}

// MinorPlanets returns the built-in dwarf planets and notable asteroids.
func (p *Provider) MinorPlanets() []models.CelestialObject {
	objects := make([]models.CelestialObject, 0, len(minorPlanets))
	for i := range minorPlanets {
		mp := minorPlanets[i]
		body, err := models.KeplerBody(mp.name, &mp.elements)
		if err != nil {
			p.logger.Warn().Err(err).Str("object", mp.name).Msg("skipping minor planet")
			continue
		}
		mag := mp.magnitudeH
		objects = append(objects, models.CelestialObject{
			Name:      mp.name,
			Category:  mp.category,
			Body:      body,
			Magnitude: &mag,
		})
	}
	return objects
}
