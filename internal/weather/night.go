package weather

import (
	"time"

	"github.com/nightseek/nightseek/models"
)

// clearSkyThreshold is the cloud cover below which an hour counts toward
// the night's clear duration.
const clearSkyThreshold = 20.0

// AggregateNight summarizes the hours of one astronomical night. Returns
// nil when no hourly data covers the night, which downstream scoring
// treats as "weather unknown".
func AggregateNight(date time.Time, hours []models.HourlyWeather) *models.NightWeather {
	if len(hours) == 0 {
		return nil
	}

	nw := &models.NightWeather{
		Date:          date,
		Hours:         hours,
		MinCloudCover: hours[0].CloudCover,
		MaxCloudCover: hours[0].CloudCover,
	}

	var cloudSum float64
	var aodSum float64
	var aodCount int

	for _, h := range hours {
		cloudSum += h.CloudCover
		if h.CloudCover < nw.MinCloudCover {
			nw.MinCloudCover = h.CloudCover
		}
		if h.CloudCover > nw.MaxCloudCover {
			nw.MaxCloudCover = h.CloudCover
		}
		if h.CloudCover < clearSkyThreshold {
			nw.ClearHours++
		}

		if h.PrecipProbability != nil {
			if nw.MaxPrecipProb == nil || *h.PrecipProbability > *nw.MaxPrecipProb {
				nw.MaxPrecipProb = h.PrecipProbability
			}
		}
		if h.WindGustKmh != nil {
			if nw.MaxWindGustKmh == nil || *h.WindGustKmh > *nw.MaxWindGustKmh {
				nw.MaxWindGustKmh = h.WindGustKmh
			}
		}
		if h.AOD != nil {
			aodSum += *h.AOD
			aodCount++
		}
	}

	nw.AvgCloudCover = cloudSum / float64(len(hours))
	if aodCount > 0 {
		avg := aodSum / float64(aodCount)
		nw.AvgAOD = &avg
	}

	if t := transparency(hours, nw.AvgAOD); t != nil {
		nw.TransparencyPct = t
	}

	return nw
}

// transparency derives a 0-100 sky transparency score from aerosol load,
// humidity, and reported visibility. Nil when none of those inputs exist.
func transparency(hours []models.HourlyWeather, avgAOD *float64) *float64 {
	var humSum, visSum float64
	var humCount, visCount int
	for _, h := range hours {
		if h.Humidity != nil {
			humSum += *h.Humidity
			humCount++
		}
		if h.VisibilityKm != nil {
			visSum += *h.VisibilityKm
			visCount++
		}
	}

	if avgAOD == nil && humCount == 0 && visCount == 0 {
		return nil
	}

	score := 100.0
	if avgAOD != nil {
		switch {
		case *avgAOD < 0.1:
			// pristine
		case *avgAOD < 0.2:
			score -= 10
		case *avgAOD < 0.3:
			score -= 25
		case *avgAOD < 0.5:
			score -= 40
		default:
			score -= 60
		}
	}
	if humCount > 0 {
		avgHum := humSum / float64(humCount)
		switch {
		case avgHum > 90:
			score -= 25
		case avgHum > 80:
			score -= 15
		case avgHum > 70:
			score -= 5
		}
	}
	if visCount > 0 {
		avgVis := visSum / float64(visCount)
		switch {
		case avgVis < 5:
			score -= 30
		case avgVis < 10:
			score -= 15
		case avgVis < 20:
			score -= 5
		}
	}

	if score < 0 {
		score = 0
	}
	return &score
}
