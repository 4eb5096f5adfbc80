package scoring

import "github.com/nightseek/nightseek/models"

// moonSensitivity rates how badly moonlight washes out each object type.
// 0 means immune, 1 means ruined by any bright moon. Low-surface-brightness
// diffuse targets suffer most; compact or stellar targets barely care.
var moonSensitivity = map[models.Subtype]float64{
	models.SubtypeGalaxy:           0.8,
	models.SubtypeGalaxyPair:       0.8,
	models.SubtypeGalaxyTriplet:    0.8,
	models.SubtypeGalaxyGroup:      0.8,
	models.SubtypePlanetaryNebula:  0.5,
	models.SubtypeEmissionNebula:   0.9,
	models.SubtypeHIIRegion:        0.9,
	models.SubtypeReflectionNebula: 0.95,
	models.SubtypeSupernovaRemnant: 0.85,
	models.SubtypeNebula:           0.85,
	models.SubtypeDarkNebula:       1.0,
	models.SubtypeOpenCluster:      0.3,
	models.SubtypeGlobularCluster:  0.4,
	models.SubtypeDoubleStar:       0.1,
	models.SubtypeStarAssociation:  0.3,
	models.SubtypeAsterism:         0.2,
	models.SubtypeOther:            0.5,
}

// MoonSensitivity returns the moonlight sensitivity for a subtype,
// defaulting to moderate when the type has no entry.
func MoonSensitivity(st models.Subtype) float64 {
	if s, ok := moonSensitivity[st]; ok {
		return s
	}
	return 0.5
}
