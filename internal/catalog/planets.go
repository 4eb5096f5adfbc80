package catalog

import "github.com/nightseek/nightseek/models"

// Typical apparent magnitudes; actual brightness varies with phase and
// distance but these suffice for merit scoring.
var planetMagnitudes = map[models.PlanetID]float64{
	models.Mercury: 0.0,
	models.Venus:   -4.2,
	models.Mars:    0.7,
	models.Jupiter: -2.2,
	models.Saturn:  0.6,
	models.Uranus:  5.7,
	models.Neptune: 7.8,
}

var planetSubtypes = map[models.PlanetID]models.Subtype{
	models.Mercury: models.SubtypeInnerPlanet,
	models.Venus:   models.SubtypeInnerPlanet,
	models.Mars:    models.SubtypeInnerPlanet,
	models.Jupiter: models.SubtypeOuterPlanet,
	models.Saturn:  models.SubtypeOuterPlanet,
	models.Uranus:  models.SubtypeOuterPlanet,
	models.Neptune: models.SubtypeOuterPlanet,
}

// Planets returns the seven major planets in orbit order.
func (p *Provider) Planets() []models.CelestialObject {
	ids := []models.PlanetID{
		models.Mercury, models.Venus, models.Mars,
		models.Jupiter, models.Saturn, models.Uranus, models.Neptune,
	}

	objects := make([]models.CelestialObject, 0, len(ids))
	for _, id := range ids {
		mag := planetMagnitudes[id]
		objects = append(objects, models.CelestialObject{
			Name:      models.PlanetNames[id],
			Category:  models.CategoryPlanet,
			Subtype:   planetSubtypes[id],
			Body:      models.PlanetBody(id),
			Magnitude: &mag,
		})
	}
	return objects
}
