package models

import "fmt"

// Category is the closed set of celestial object categories the engine
// understands. Anything else is rejected at construction time.
type Category string

const (
	CategoryPlanet      Category = "planet"
	CategoryDSO         Category = "dso"
	CategoryComet       Category = "comet"
	CategoryDwarfPlanet Category = "dwarf_planet"
	CategoryAsteroid    Category = "asteroid"
	CategoryMilkyWay    Category = "milky_way"
	CategoryMoon        Category = "moon"
)

var validCategories = map[Category]bool{
	CategoryPlanet:      true,
	CategoryDSO:         true,
	CategoryComet:       true,
	CategoryDwarfPlanet: true,
	CategoryAsteroid:    true,
	CategoryMilkyWay:    true,
	CategoryMoon:        true,
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !validCategories[c] {
		return "", fmt.Errorf("unknown object category %q", s)
	}
	return c, nil
}

// IsDeepSky reports whether the category is an extended, diffuse target
// (long exposures, sensitive to moonlight and poor transparency).
func (c Category) IsDeepSky() bool {
	return c == CategoryDSO || c == CategoryMilkyWay || c == CategoryComet
}

// Subtype refines a category: DSO morphological types from OpenNGC,
// inner/outer for planets, interstellar for hyperbolic comets.
type Subtype string

const (
	// Planets.
	SubtypeInnerPlanet Subtype = "inner"
	SubtypeOuterPlanet Subtype = "outer"

	// Comets.
	SubtypeComet        Subtype = "comet"
	SubtypeInterstellar Subtype = "interstellar"

	// Galaxies.
	SubtypeGalaxy        Subtype = "galaxy"
	SubtypeGalaxyPair    Subtype = "galaxy_pair"
	SubtypeGalaxyTriplet Subtype = "galaxy_triplet"
	SubtypeGalaxyGroup   Subtype = "galaxy_group"

	// Nebulae.
	SubtypeEmissionNebula   Subtype = "emission_nebula"
	SubtypeReflectionNebula Subtype = "reflection_nebula"
	SubtypePlanetaryNebula  Subtype = "planetary_nebula"
	SubtypeSupernovaRemnant Subtype = "supernova_remnant"
	SubtypeNebula           Subtype = "nebula"
	SubtypeHIIRegion        Subtype = "hii_region"

	// Clusters.
	SubtypeOpenCluster     Subtype = "open_cluster"
	SubtypeGlobularCluster Subtype = "globular_cluster"

	// Stars and associations.
	SubtypeDoubleStar      Subtype = "double_star"
	SubtypeAsterism        Subtype = "asterism"
	SubtypeStarAssociation Subtype = "star_association"

	// Dark objects.
	SubtypeDarkNebula Subtype = "dark_nebula"

	SubtypeOther Subtype = "other"
	SubtypeNone  Subtype = ""
)

var validSubtypes = map[Subtype]bool{
	SubtypeInnerPlanet:      true,
	SubtypeOuterPlanet:      true,
	SubtypeComet:            true,
	SubtypeInterstellar:     true,
	SubtypeGalaxy:           true,
	SubtypeGalaxyPair:       true,
	SubtypeGalaxyTriplet:    true,
	SubtypeGalaxyGroup:      true,
	SubtypeEmissionNebula:   true,
	SubtypeReflectionNebula: true,
	SubtypePlanetaryNebula:  true,
	SubtypeSupernovaRemnant: true,
	SubtypeNebula:           true,
	SubtypeHIIRegion:        true,
	SubtypeOpenCluster:      true,
	SubtypeGlobularCluster:  true,
	SubtypeDoubleStar:       true,
	SubtypeAsterism:         true,
	SubtypeStarAssociation:  true,
	SubtypeDarkNebula:       true,
	SubtypeOther:            true,
	SubtypeNone:             true,
}

// ParseSubtype validates a raw subtype string.
func ParseSubtype(s string) (Subtype, error) {
	st := Subtype(s)
	if !validSubtypes[st] {
		return "", fmt.Errorf("unknown object subtype %q", s)
	}
	return st, nil
}

// OpenNGCSubtypes maps OpenNGC catalog type codes to subtypes.
var OpenNGCSubtypes = map[string]Subtype{
	"G":      SubtypeGalaxy,
	"GPair":  SubtypeGalaxyPair,
	"GTrpl":  SubtypeGalaxyTriplet,
	"GGroup": SubtypeGalaxyGroup,
	"PN":     SubtypePlanetaryNebula,
	"HII":    SubtypeHIIRegion,
	"EmN":    SubtypeEmissionNebula,
	"RfN":    SubtypeReflectionNebula,
	"SNR":    SubtypeSupernovaRemnant,
	"Neb":    SubtypeNebula,
	"OCl":    SubtypeOpenCluster,
	"GCl":    SubtypeGlobularCluster,
	"Cl+N":   SubtypeOpenCluster, // cluster with nebulosity
	"Ast":    SubtypeAsterism,
	"DN":     SubtypeDarkNebula,
}

// WeatherCategory grades one hour (or window) of sky for observing.
type WeatherCategory string

const (
	WeatherExcellent WeatherCategory = "excellent"
	WeatherGood      WeatherCategory = "good"
	WeatherFair      WeatherCategory = "fair"
	WeatherPoor      WeatherCategory = "poor"
	WeatherBad       WeatherCategory = "bad"
	WeatherUnknown   WeatherCategory = "unknown"
)

// CategorizeCloudCover maps a cloud cover percentage to a weather category.
// Tiers match the cloud tiers the scorer uses.
func CategorizeCloudCover(cloudCover float64) WeatherCategory {
	switch {
	case cloudCover < 10:
		return WeatherExcellent
	case cloudCover < 25:
		return WeatherGood
	case cloudCover < 50:
		return WeatherFair
	case cloudCover < 75:
		return WeatherPoor
	default:
		return WeatherBad
	}
}

// VisibilityStatus classifies an object lookup result.
type VisibilityStatus string

const (
	StatusVisibleTonight VisibilityStatus = "visible_tonight"
	StatusVisibleSoon    VisibilityStatus = "visible_soon"
	StatusVisibleLater   VisibilityStatus = "visible_later"
	StatusBelowHorizon   VisibilityStatus = "below_horizon"
	StatusNeverVisible   VisibilityStatus = "never_visible"
)
