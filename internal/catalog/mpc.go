package catalog

import (
	"bufio"
	"bytes"
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nightseek/nightseek/internal/astro"
	"github.com/nightseek/nightseek/models"
)

// nearPerihelionWindow flags comets within this span of their perihelion
// passage; they brighten fastest there.
const nearPerihelionWindow = 60 * 24 * time.Hour

// Comets loads the Minor Planet Center's observable-comet elements and
// returns those brighter than maxMagnitude by absolute magnitude. Each
// entry carries an estimated apparent magnitude for the current epoch.
func (p *Provider) Comets(ctx context.Context, maxMagnitude float64) ([]models.CelestialObject, error) {
	data, err := p.fetchCached(ctx, cometElsCacheName, cometElsURL, p.mpc)
	if err != nil {
		return nil, err
	}

	now := p.now()
	nowJD := astro.JulianDate(now)

	var objects []models.CelestialObject
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		comet, ok := parseCometLine(scanner.Text())
		if !ok {
			continue
		}
		if comet.Elements.MagG >= maxMagnitude {
			continue
		}

		// No declination pre-filter here: comet coordinates move, so
		// the per-night sampler decides visibility.
		obj := comet.toObject(nowJD)
		if mag := estimateCometMagnitude(comet.Elements, nowJD); mag != nil {
			obj.Magnitude = mag
		}

		objects = append(objects, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p.logger.Info().Int("count", len(objects)).Msg("loaded comet catalog")
	return objects, nil
}

// cometRecord is one parsed line of CometEls.txt.
type cometRecord struct {
	Designation string
	Name        string
	Elements    *models.OrbitalElements
}

func (c cometRecord) toObject(nowJD float64) models.CelestialObject {
	subtype := models.SubtypeComet
	interstellar := c.Elements.Eccentricity > 1.0
	if interstellar {
		subtype = models.SubtypeInterstellar
	}

	body, _ := models.KeplerBody(c.Designation, c.Elements)
	return models.CelestialObject{
		Name:           c.Designation,
		CommonName:     c.Name,
		Category:       models.CategoryComet,
		Subtype:        subtype,
		Body:           body,
		IsInterstellar: interstellar,
		NearPerihelion: math.Abs(nowJD-c.Elements.PerihelionJD) < nearPerihelionWindow.Hours()/24,
	}
}

// parseCometLine decodes one fixed-width record of the MPC comet element
// export format. Malformed lines are skipped.
func parseCometLine(line string) (cometRecord, bool) {
	if len(line) < 103 {
		return cometRecord{}, false
	}

	year, err1 := strconv.Atoi(strings.TrimSpace(sub(line, 15, 18)))
	month, err2 := strconv.Atoi(strings.TrimSpace(sub(line, 20, 21)))
	day, err3 := parseFloat(sub(line, 23, 29))
	q, err4 := parseFloat(sub(line, 31, 39))
	e, err5 := parseFloat(sub(line, 42, 49))
	argPeri, err6 := parseFloat(sub(line, 52, 59))
	node, err7 := parseFloat(sub(line, 62, 69))
	incl, err8 := parseFloat(sub(line, 72, 79))
	magG, err9 := parseFloat(sub(line, 92, 95))
	magK, err10 := parseFloat(sub(line, 97, 101))
	for _, err := range []error{err1, err2, err3, err4, err5, err6, err7, err8, err9, err10} {
		if err != nil {
			return cometRecord{}, false
		}
	}

	fullName := strings.TrimSpace(sub(line, 103, 158))
	designation, name := splitCometName(fullName)

	perihelionJD := calendarToJD(year, month, day)

	return cometRecord{
		Designation: designation,
		Name:        name,
		Elements: &models.OrbitalElements{
			EpochJD:        perihelionJD,
			PerihelionAU:   q,
			Eccentricity:   e,
			InclinationDeg: incl,
			NodeDeg:        node,
			ArgPeriDeg:     argPeri,
			PerihelionJD:   perihelionJD,
			MagG:           magG,
			MagK:           magK,
		},
	}, true
}

// sub extracts 1-indexed inclusive columns, the convention the MPC format
// description uses.
func sub(line string, from, to int) string {
	if to > len(line) {
		to = len(line)
	}
	if from > to {
		return ""
	}
	return line[from-1 : to]
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// splitCometName handles the MPC designation styles:
// "C/2023 A3 (Tsuchinshan-ATLAS)", "186P/Garradd" and bare "C/2023 A3".
func splitCometName(full string) (designation, name string) {
	if open := strings.Index(full, "("); open >= 0 {
		if end := strings.LastIndex(full, ")"); end > open {
			return strings.TrimSpace(full[:open]), full[open+1 : end]
		}
	}
	if slash := strings.Index(full, "/"); slash > 0 && !strings.HasPrefix(full, "C/") &&
		!strings.HasPrefix(full, "P/") && !strings.HasPrefix(full, "D/") &&
		!strings.HasPrefix(full, "X/") && !strings.HasPrefix(full, "A/") &&
		!strings.HasPrefix(full, "I/") {
		return full[:slash], full[slash+1:]
	}
	return full, full
}

// calendarToJD converts a TT calendar date with fractional day to a
// Julian Date (Fliegel-Van Flandern).
func calendarToJD(year, month int, day float64) float64 {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4
	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) +
		day + float64(b) - 1524.5
	return jd
}

// estimateCometMagnitude applies the standard comet brightness law
// m = g + 5 log10(delta) + 2.5 k log10(r). Returns nil when the orbit
// cannot be solved (near-parabolic).
func estimateCometMagnitude(el *models.OrbitalElements, jd float64) *float64 {
	r, err := astro.HelioDistanceAU(el, jd)
	if err != nil || r <= 0 {
		return nil
	}
	delta, err := astro.GeoDistanceAU(el, jd)
	if err != nil || delta <= 0 {
		return nil
	}
	m := el.MagG + 5*math.Log10(delta) + 2.5*el.MagK*math.Log10(r)
	return &m
}
