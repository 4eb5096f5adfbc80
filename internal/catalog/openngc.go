package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/nightseek/nightseek/models"
)

// nebulaDefaultMag is assigned to nebulae the catalog lists without a
// magnitude; large emission nebulae are often photographically bright.
const nebulaDefaultMag = 10.0

var nebulaTypeCodes = map[string]bool{
	"Neb": true, "HII": true, "EmN": true, "RfN": true, "Cl+N": true, "SNR": true,
}

// DeepSkyObjects loads the OpenNGC catalog, filtered by magnitude and by
// the observer's declination window.
func (p *Provider) DeepSkyObjects(ctx context.Context, maxMagnitude float64) ([]models.CelestialObject, error) {
	data, err := p.fetchCached(ctx, openNGCCacheName, openNGCURL, p.ngc)
	if err != nil {
		return nil, err
	}

	objects, err := p.parseOpenNGC(data, maxMagnitude)
	if err != nil {
		return nil, err
	}

	for _, extra := range messierSupplement {
		if extra.Magnitude != nil && *extra.Magnitude > maxMagnitude {
			continue
		}
		if !p.reachable(extra.Body.DecDeg) {
			continue
		}
		objects = append(objects, extra)
	}

	p.logger.Info().Int("count", len(objects)).Msg("loaded deep-sky catalog")
	return objects, nil
}

func (p *Provider) parseOpenNGC(data []byte, maxMagnitude float64) ([]models.CelestialObject, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var objects []models.CelestialObject
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}

		typeCode := field(row, "Type")
		// Skip nonexistent entries, duplicates and single/double stars.
		switch typeCode {
		case "NonEx", "Dup", "", "*", "**", "*Ass":
			continue
		}

		magnitude, ok := parseMagnitude(field(row, "V-Mag"), field(row, "B-Mag"), typeCode)
		if !ok || magnitude > maxMagnitude {
			continue
		}

		ra, ok := parseRA(field(row, "RA"))
		if !ok {
			continue
		}
		dec, ok := parseDec(field(row, "Dec"))
		if !ok {
			continue
		}
		if !p.reachable(dec) {
			continue
		}

		name := formatDesignation(field(row, "Name"))
		if name == "" {
			continue
		}

		subtype, ok := models.OpenNGCSubtypes[typeCode]
		if !ok {
			subtype = models.SubtypeOther
		}

		obj := models.CelestialObject{
			Name:          name,
			CommonName:    commonNameFor(name, field(row, "M"), field(row, "Common names")),
			Category:      models.CategoryDSO,
			Subtype:       subtype,
			Body:          models.FixedBody(name, ra, dec),
			Constellation: field(row, "Const"),
		}

		mag := magnitude
		obj.Magnitude = &mag

		size := parseSize(field(row, "MajAx"))
		obj.AngularSizeArcmin = &size

		if sb, err := strconv.ParseFloat(field(row, "SurfBr"), 64); err == nil {
			obj.SurfaceBrightness = &sb
		}

		objects = append(objects, obj)
	}

	return objects, nil
}

func parseMagnitude(vMag, bMag, typeCode string) (float64, bool) {
	for _, s := range []string{vMag, bMag} {
		if m, err := strconv.ParseFloat(s, 64); err == nil {
			return m, true
		}
	}
	if nebulaTypeCodes[typeCode] {
		return nebulaDefaultMag, true
	}
	return 0, false
}

// parseRA converts "HH:MM:SS.s" to decimal hours.
func parseRA(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	for i, div := range []float64{60, 3600} {
		if len(parts) > i+1 {
			v, err := strconv.ParseFloat(parts[i+1], 64)
			if err != nil {
				return 0, false
			}
			hours += v / div
		}
	}
	return hours, true
}

// parseDec converts "+DD:MM:SS.s" or "-DD:MM:SS.s" to decimal degrees.
func parseDec(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
	}
	s = strings.TrimLeft(s, "+-")

	parts := strings.Split(s, ":")
	deg, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	for i, div := range []float64{60, 3600} {
		if len(parts) > i+1 {
			v, err := strconv.ParseFloat(parts[i+1], 64)
			if err != nil {
				return 0, false
			}
			deg += v / div
		}
	}
	return sign * deg, true
}

func parseSize(majAx string) float64 {
	if major, err := strconv.ParseFloat(majAx, 64); err == nil && major > 0 {
		return major
	}
	return 1.0
}

// formatDesignation normalizes catalog names: "NGC0224" becomes "NGC 224".
func formatDesignation(name string) string {
	for _, prefix := range []string{"NGC", "IC"} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			num := strings.TrimLeft(name[len(prefix):], "0")
			if num == "" {
				num = "0"
			}
			return prefix + " " + num
		}
	}
	return name
}

// commonNameFor prefers "M42 Orion Nebula" style names: the Messier
// designation first, then the best-known common name.
func commonNameFor(designation, messier, csvCommonName string) string {
	base := wellKnownNames[designation]
	if base == "" {
		base = csvCommonName
	}

	if messier == "" {
		return base
	}
	num := strings.TrimLeft(messier, "0")
	if num == "" {
		num = "0"
	}
	if base == "" {
		return "M" + num
	}
	return "M" + num + " " + base
}

// messierSupplement covers Messier objects without an NGC/IC designation.
var messierSupplement = []models.CelestialObject{
	{
		Name:       "Mel 22",
		CommonName: "M45 Pleiades",
		Category:   models.CategoryDSO,
		Subtype:    models.SubtypeOpenCluster,
		Body:       models.FixedBody("Mel 22", 3.7833, 24.1167),
		Magnitude:  ptr(1.6), AngularSizeArcmin: ptr(110.0),
		Constellation: "Tau",
	},
	{
		Name:       "WNC 4",
		CommonName: "M40 Winnecke 4",
		Category:   models.CategoryDSO,
		Subtype:    models.SubtypeDoubleStar,
		Body:       models.FixedBody("WNC 4", 12.3667, 58.0833),
		Magnitude:  ptr(8.4), AngularSizeArcmin: ptr(0.8),
		Constellation: "UMa",
	},
	{
		Name:       "M73",
		CommonName: "M73",
		Category:   models.CategoryDSO,
		Subtype:    models.SubtypeAsterism,
		Body:       models.FixedBody("M73", 20.9833, -12.6333),
		Magnitude:  ptr(9.0), AngularSizeArcmin: ptr(2.8),
		Constellation: "Aqr",
	},
}

func ptr(v float64) *float64 { return &v }

// wellKnownNames carries common names for popular NGC/IC targets; the
// catalog's own name column fills in the rest.
var wellKnownNames = map[string]string{
	// Galaxies.
	"NGC 224":  "Andromeda Galaxy",
	"NGC 253":  "Sculptor Galaxy",
	"NGC 598":  "Triangulum Galaxy",
	"NGC 3031": "Bode's Galaxy",
	"NGC 3034": "Cigar Galaxy",
	"NGC 4565": "Needle Galaxy",
	"NGC 4594": "Sombrero Galaxy",
	"NGC 4631": "Whale Galaxy",
	"NGC 4826": "Black Eye Galaxy",
	"NGC 5128": "Centaurus A",
	"NGC 5194": "Whirlpool Galaxy",
	"NGC 5457": "Pinwheel Galaxy",
	"NGC 5866": "Spindle Galaxy",

	// Emission and reflection nebulae.
	"NGC 281":  "Pacman Nebula",
	"NGC 1499": "California Nebula",
	"NGC 1952": "Crab Nebula",
	"NGC 1976": "Orion Nebula",
	"NGC 2024": "Flame Nebula",
	"NGC 2237": "Rosette Nebula",
	"NGC 2264": "Cone Nebula",
	"NGC 2359": "Thor's Helmet",
	"NGC 3372": "Carina Nebula",
	"NGC 6514": "Trifid Nebula",
	"NGC 6523": "Lagoon Nebula",
	"NGC 6611": "Eagle Nebula",
	"NGC 6618": "Omega Nebula",
	"NGC 6888": "Crescent Nebula",
	"NGC 6960": "Western Veil Nebula",
	"NGC 6992": "Eastern Veil Nebula",
	"NGC 7000": "North America Nebula",
	"NGC 7380": "Wizard Nebula",
	"NGC 7635": "Bubble Nebula",

	// Planetary nebulae.
	"NGC 650":  "Little Dumbbell Nebula",
	"NGC 2392": "Eskimo Nebula",
	"NGC 3242": "Ghost of Jupiter",
	"NGC 3587": "Owl Nebula",
	"NGC 6543": "Cat's Eye Nebula",
	"NGC 6720": "Ring Nebula",
	"NGC 6826": "Blinking Planetary",
	"NGC 6853": "Dumbbell Nebula",
	"NGC 7009": "Saturn Nebula",
	"NGC 7293": "Helix Nebula",
	"NGC 7662": "Blue Snowball Nebula",

	// Clusters.
	"NGC 104":  "47 Tucanae",
	"NGC 869":  "Double Cluster (h Persei)",
	"NGC 884":  "Double Cluster (chi Persei)",
	"NGC 2632": "Beehive Cluster",
	"NGC 5139": "Omega Centauri",
	"NGC 6205": "Hercules Cluster",
	"NGC 6405": "Butterfly Cluster",
	"NGC 6705": "Wild Duck Cluster",
	"NGC 7078": "Great Pegasus Cluster",
	"NGC 7789": "Caroline's Rose",

	// IC objects.
	"IC 434":  "Horsehead Nebula",
	"IC 1396": "Elephant Trunk Nebula",
	"IC 1805": "Heart Nebula",
	"IC 1848": "Soul Nebula",
	"IC 2118": "Witch Head Nebula",
	"IC 2177": "Seagull Nebula",
	"IC 5070": "Pelican Nebula",
	"IC 5146": "Cocoon Nebula",
}
