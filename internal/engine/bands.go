package engine

import "airquality/internal/models"

// Band is the marker colour of a reading on the map.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandOrange Band = "orange"
	BandRed    Band = "red"
	BandBlue   Band = "blue" // pollutant without thresholds
)

// upper bounds (inclusive) of green, yellow and orange; above is red.
var bandLimits = map[string][3]float64{
	"no2":   {15, 20, 25},
	"pm10":  {15, 17, 19},
	"pm2.5": {8, 10, 12},
}

func Classify(pollutant string, value float64) Band {
	lim, ok := bandLimits[models.CanonicalPollutant(pollutant)]
	if !ok {
		return BandBlue
	}
	switch {
	case value <= lim[0]:
		return BandGreen
	case value <= lim[1]:
		return BandYellow
	case value <= lim[2]:
		return BandOrange
	default:
		return BandRed
	}
}

// Markers tags points with their colour band.
func Markers(pollutant string, points []models.DataPoint) []models.Marker {
	out := make([]models.Marker, len(points))
	for i, p := range points {
		out[i] = models.Marker{DataPoint: p, Band: string(Classify(pollutant, p.Value))}
	}
	return out
}
