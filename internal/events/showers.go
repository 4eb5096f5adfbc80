package events

// MeteorShower is one calendar entry. Activity dates and zenithal hourly
// rates follow the International Meteor Organization calendar; radiant
// coordinates are the position at peak.
type MeteorShower struct {
	Name          string
	Code          string // IAU three-letter code
	PeakMonth     int
	PeakDay       int
	StartMonth    int
	StartDay      int
	EndMonth      int
	EndDay        int
	ZHR           int // zenithal hourly rate at peak
	RadiantRADeg  float64
	RadiantDecDeg float64
	VelocityKms   float64
	ParentObject  string
}

// meteorShowers is the major annual showers. Dates drift by at most a day
// between years, so a single calendar serves every forecast year.
var meteorShowers = []MeteorShower{
	{
		Name: "Quadrantids", Code: "QUA",
		PeakMonth: 1, PeakDay: 3,
		StartMonth: 12, StartDay: 28, EndMonth: 1, EndDay: 12,
		ZHR: 120, RadiantRADeg: 230.0, RadiantDecDeg: 49.0,
		VelocityKms: 40.4, ParentObject: "2003 EH1 (Asteroid)",
	},
	{
		Name: "Lyrids", Code: "LYR",
		PeakMonth: 4, PeakDay: 22,
		StartMonth: 4, StartDay: 14, EndMonth: 4, EndDay: 30,
		ZHR: 18, RadiantRADeg: 271.0, RadiantDecDeg: 34.0,
		VelocityKms: 49.0, ParentObject: "C/1861 G1 (Thatcher)",
	},
	{
		Name: "Eta Aquariids", Code: "ETA",
		PeakMonth: 5, PeakDay: 6,
		StartMonth: 4, StartDay: 19, EndMonth: 5, EndDay: 28,
		ZHR: 50, RadiantRADeg: 338.0, RadiantDecDeg: -1.0,
		VelocityKms: 65.4, ParentObject: "1P/Halley",
	},
	{
		Name: "Southern Delta Aquariids", Code: "SDA",
		PeakMonth: 7, PeakDay: 30,
		StartMonth: 7, StartDay: 12, EndMonth: 8, EndDay: 23,
		ZHR: 25, RadiantRADeg: 340.0, RadiantDecDeg: -16.4,
		VelocityKms: 41.0, ParentObject: "96P/Machholz",
	},
	{
		Name: "Alpha Capricornids", Code: "CAP",
		PeakMonth: 7, PeakDay: 30,
		StartMonth: 7, StartDay: 3, EndMonth: 8, EndDay: 15,
		ZHR: 5, RadiantRADeg: 307.0, RadiantDecDeg: -10.0,
		VelocityKms: 23.0, ParentObject: "169P/NEAT",
	},
	{
		Name: "Perseids", Code: "PER",
		PeakMonth: 8, PeakDay: 12,
		StartMonth: 7, StartDay: 17, EndMonth: 8, EndDay: 24,
		ZHR: 100, RadiantRADeg: 48.0, RadiantDecDeg: 58.1,
		VelocityKms: 59.0, ParentObject: "109P/Swift-Tuttle",
	},
	{
		Name: "Orionids", Code: "ORI",
		PeakMonth: 10, PeakDay: 21,
		StartMonth: 10, StartDay: 2, EndMonth: 11, EndDay: 7,
		ZHR: 20, RadiantRADeg: 95.0, RadiantDecDeg: 15.8,
		VelocityKms: 66.0, ParentObject: "1P/Halley",
	},
	{
		Name: "Southern Taurids", Code: "STA",
		PeakMonth: 11, PeakDay: 5,
		StartMonth: 9, StartDay: 20, EndMonth: 11, EndDay: 20,
		ZHR: 5, RadiantRADeg: 52.0, RadiantDecDeg: 14.5,
		VelocityKms: 27.0, ParentObject: "2P/Encke",
	},
	{
		Name: "Northern Taurids", Code: "NTA",
		PeakMonth: 11, PeakDay: 12,
		StartMonth: 10, StartDay: 20, EndMonth: 12, EndDay: 10,
		ZHR: 5, RadiantRADeg: 58.0, RadiantDecDeg: 22.2,
		VelocityKms: 29.0, ParentObject: "2P/Encke",
	},
	{
		Name: "Leonids", Code: "LEO",
		PeakMonth: 11, PeakDay: 17,
		StartMonth: 11, StartDay: 6, EndMonth: 11, EndDay: 30,
		ZHR: 15, RadiantRADeg: 152.0, RadiantDecDeg: 21.8,
		VelocityKms: 69.7, ParentObject: "55P/Tempel-Tuttle",
	},
	{
		Name: "Geminids", Code: "GEM",
		PeakMonth: 12, PeakDay: 14,
		StartMonth: 12, StartDay: 4, EndMonth: 12, EndDay: 17,
		ZHR: 150, RadiantRADeg: 112.0, RadiantDecDeg: 33.0,
		VelocityKms: 35.0, ParentObject: "3200 Phaethon (Asteroid)",
	},
	{
		Name: "Ursids", Code: "URS",
		PeakMonth: 12, PeakDay: 22,
		StartMonth: 12, StartDay: 17, EndMonth: 12, EndDay: 26,
		ZHR: 10, RadiantRADeg: 217.0, RadiantDecDeg: 76.0,
		VelocityKms: 33.1, ParentObject: "8P/Tuttle",
	},
}
