package catalog

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/cache"
	"github.com/nightseek/nightseek/models"
)

func testProvider(t *testing.T, lat float64) *Provider {
	t.Helper()
	return NewProvider(Options{
		ObserverLatitude:  &lat,
		MinUsefulAltitude: 30,
		CacheDir:          t.TempDir(),
	}, nil, zerolog.Nop())
}

const openNGCHeader = "Name;Type;RA;Dec;Const;MajAx;B-Mag;V-Mag;SurfBr;M;Common names"

func TestParseOpenNGC(t *testing.T) {
	rows := []string{
		openNGCHeader,
		"NGC0224;G;00:42:44.3;+41:16:08;And;177.83;4.36;3.44;13.3;031;",
		"NGC7000;HII;20:59:17.1;+44:31:44;Cyg;120.0;;;;;",
		"NGC5139;GCl;13:26:47.3;-47:28:46;Cen;57.0;;3.68;;;", // unreachable dec
		"NGC1234;G;01:00:00.0;+10:00:00;Psc;2.0;;14.5;;;",    // too faint
		"NGC0003;Dup;00:00:00.0;+10:00:00;Psc;;;;;;",         // duplicate entry
		"HD0001;*;05:00:00.0;+20:00:00;Ori;;;4.0;;;",         // single star
		"NGC0005;G;;+10:00:00;Psc;;;8.0;;;",                  // unparsable RA
	}
	data := []byte(strings.Join(rows, "\n"))

	p := testProvider(t, 41)
	objects, err := p.parseOpenNGC(data, 11)
	if err != nil {
		t.Fatalf("parseOpenNGC: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2: %+v", len(objects), objects)
	}

	andromeda := objects[0]
	if andromeda.Name != "NGC 224" {
		t.Errorf("designation = %q, want \"NGC 224\"", andromeda.Name)
	}
	if andromeda.CommonName != "M31 Andromeda Galaxy" {
		t.Errorf("common name = %q, want \"M31 Andromeda Galaxy\"", andromeda.CommonName)
	}
	if andromeda.Category != models.CategoryDSO || andromeda.Subtype != models.SubtypeGalaxy {
		t.Errorf("got category %v subtype %v", andromeda.Category, andromeda.Subtype)
	}
	if andromeda.Magnitude == nil || math.Abs(*andromeda.Magnitude-3.44) > 1e-9 {
		t.Errorf("magnitude = %v, want 3.44", andromeda.Magnitude)
	}
	if andromeda.SurfaceBrightness == nil || math.Abs(*andromeda.SurfaceBrightness-13.3) > 1e-9 {
		t.Errorf("surface brightness = %v, want 13.3", andromeda.SurfaceBrightness)
	}
	if andromeda.AngularSizeArcmin == nil || math.Abs(*andromeda.AngularSizeArcmin-177.83) > 1e-9 {
		t.Errorf("angular size = %v, want 177.83", andromeda.AngularSizeArcmin)
	}
	if math.Abs(andromeda.Body.RAHours-0.712306) > 1e-3 {
		t.Errorf("RA = %v hours, want ~0.712", andromeda.Body.RAHours)
	}
	if math.Abs(andromeda.Body.DecDeg-41.2689) > 1e-3 {
		t.Errorf("dec = %v, want ~41.269", andromeda.Body.DecDeg)
	}
	if andromeda.Constellation != "And" {
		t.Errorf("constellation = %q, want \"And\"", andromeda.Constellation)
	}

	northAmerica := objects[1]
	if northAmerica.Name != "NGC 7000" {
		t.Errorf("designation = %q, want \"NGC 7000\"", northAmerica.Name)
	}
	if northAmerica.CommonName != "North America Nebula" {
		t.Errorf("common name = %q, want \"North America Nebula\"", northAmerica.CommonName)
	}
	if northAmerica.Subtype != models.SubtypeHIIRegion {
		t.Errorf("subtype = %v, want HII region", northAmerica.Subtype)
	}
	// Nebulae without a listed magnitude get the photographic default.
	if northAmerica.Magnitude == nil || *northAmerica.Magnitude != nebulaDefaultMag {
		t.Errorf("magnitude = %v, want default %v", northAmerica.Magnitude, nebulaDefaultMag)
	}
	if northAmerica.SurfaceBrightness != nil {
		t.Errorf("surface brightness = %v, want nil", *northAmerica.SurfaceBrightness)
	}
}

func TestParseOpenNGCNoDecFilterWithoutLatitude(t *testing.T) {
	data := []byte(openNGCHeader + "\n" +
		"NGC5139;GCl;13:26:47.3;-47:28:46;Cen;57.0;;3.68;;;")

	p := NewProvider(Options{CacheDir: t.TempDir()}, nil, zerolog.Nop())
	objects, err := p.parseOpenNGC(data, 11)
	if err != nil {
		t.Fatalf("parseOpenNGC: %v", err)
	}
	if len(objects) != 1 || objects[0].Name != "NGC 5139" {
		t.Fatalf("expected NGC 5139 without a latitude filter, got %+v", objects)
	}
}

func TestDeepSkyObjectsFromCache(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	data := []byte(openNGCHeader + "\n" +
		"NGC0224;G;00:42:44.3;+41:16:08;And;177.83;4.36;3.44;13.3;031;")
	if err := cache.New(dir, openNGCCacheTTL, 2).Write(openNGCCacheName, data, now); err != nil {
		t.Fatal(err)
	}

	lat := 41.0
	p := NewProvider(Options{ObserverLatitude: &lat, CacheDir: dir}, nil, zerolog.Nop())
	p.now = func() time.Time { return now }

	objects, err := p.DeepSkyObjects(context.Background(), 11)
	if err != nil {
		t.Fatalf("DeepSkyObjects: %v", err)
	}

	// One parsed row plus the Messier supplement (M45, M40, M73 are all
	// reachable from 41N).
	if len(objects) != 4 {
		t.Fatalf("got %d objects, want 4", len(objects))
	}
	names := map[string]bool{}
	for _, o := range objects {
		names[o.Name] = true
	}
	for _, want := range []string{"NGC 224", "Mel 22", "WNC 4", "M73"} {
		if !names[want] {
			t.Errorf("missing %q in %v", want, names)
		}
	}
}

func TestParseRA(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"00:42:44.3", 0.7123056, true},
		{"12:00:00", 12, true},
		{"5:30", 5.5, true},
		{"6", 6, true},
		{"", 0, false},
		{"xx:30:00", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseRA(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-4) {
			t.Errorf("parseRA(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"+41:16:08", 41.2689, true},
		{"-47:28:46", -47.4794, true},
		{"+00:30:00", 0.5, true},
		{"-00:30:00", -0.5, true},
		{"", 0, false},
		{"+xx:00:00", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDec(tt.in)
		if ok != tt.ok || (ok && math.Abs(got-tt.want) > 1e-3) {
			t.Errorf("parseDec(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatDesignation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"NGC0224", "NGC 224"},
		{"NGC7000", "NGC 7000"},
		{"IC0434", "IC 434"},
		{"IC5146", "IC 5146"},
		{"Mel 22", "Mel 22"},
		{"NGC0000", "NGC 0"},
	}

	for _, tt := range tests {
		if got := formatDesignation(tt.in); got != tt.want {
			t.Errorf("formatDesignation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCommonNameFor(t *testing.T) {
	tests := []struct {
		name        string
		designation string
		messier     string
		csvName     string
		want        string
	}{
		{"well-known with messier", "NGC 224", "031", "", "M31 Andromeda Galaxy"},
		{"well-known without messier", "NGC 7000", "", "", "North America Nebula"},
		{"csv fallback", "NGC 9999", "", "Test Nebula", "Test Nebula"},
		{"messier only", "NGC 9999", "042", "", "M42"},
		{"nothing known", "NGC 9999", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commonNameFor(tt.designation, tt.messier, tt.csvName)
			if got != tt.want {
				t.Errorf("commonNameFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlanets(t *testing.T) {
	p := testProvider(t, 45)
	planets := p.Planets()
	if len(planets) != 7 {
		t.Fatalf("got %d planets, want 7", len(planets))
	}
	if planets[0].Name != "Mercury" || planets[6].Name != "Neptune" {
		t.Errorf("unexpected orbit order: %s ... %s", planets[0].Name, planets[6].Name)
	}
	for _, pl := range planets {
		if pl.Category != models.CategoryPlanet {
			t.Errorf("%s: category %v, want planet", pl.Name, pl.Category)
		}
		if pl.Magnitude == nil {
			t.Errorf("%s: missing magnitude", pl.Name)
		}
		if pl.Body.Kind != models.BodyPlanet {
			t.Errorf("%s: body kind %v, want planet", pl.Name, pl.Body.Kind)
		}
	}
}

func TestMinorPlanets(t *testing.T) {
	p := testProvider(t, 45)
	objects := p.MinorPlanets()
	if len(objects) == 0 {
		t.Fatal("expected built-in minor planets")
	}
	for _, o := range objects {
		if o.Body.Kind != models.BodyKepler {
			t.Errorf("%s: body kind %v, want kepler", o.Name, o.Body.Kind)
		}
		if o.Body.Elements == nil {
			t.Errorf("%s: missing orbital elements", o.Name)
		}
		if o.Magnitude == nil {
			t.Errorf("%s: missing magnitude", o.Name)
		}
	}
}

func TestMilkyWay(t *testing.T) {
	mw := MilkyWay()
	if mw.Category != models.CategoryMilkyWay {
		t.Errorf("category = %v, want milky way", mw.Category)
	}
	if math.Abs(mw.Body.RAHours-17.761) > 1e-6 || math.Abs(mw.Body.DecDeg-(-29.008)) > 1e-6 {
		t.Errorf("core position = (%v, %v)", mw.Body.RAHours, mw.Body.DecDeg)
	}
}

func TestReachable(t *testing.T) {
	p := testProvider(t, 41)

	tests := []struct {
		dec  float64
		want bool
	}{
		{41, true},   // passes overhead
		{-19, true},  // peaks exactly at the 30 degree floor
		{-20, false}, // just below
		{-47, false}, // far south
		{89, true},   // circumpolar
	}
	for _, tt := range tests {
		if got := p.reachable(tt.dec); got != tt.want {
			t.Errorf("reachable(%v) = %v, want %v", tt.dec, got, tt.want)
		}
	}
}
