package models

import "strings"

// DataPoint is one measurement on the national grid
type DataPoint struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	GridCode int     `json:"gridcode"`
	Value    float64 `json:"value"`
}

// Dataset is the content of one input file, tagged with pollutant and year.
type Dataset struct {
	Pollutant string      `json:"pollutant"`
	Year      string      `json:"year"`
	Points    []DataPoint `json:"points"`
}

func NewDataset(pollutant, year string) *Dataset {
	return &Dataset{Pollutant: CanonicalPollutant(pollutant), Year: year}
}

// Append is only used while a loader is building the dataset.
func (d *Dataset) Append(p DataPoint) {
	d.Points = append(d.Points, p)
}

// Known years and pollutants of the corpus.
var (
	Years      = []string{"2018", "2019", "2020", "2021", "2022", "2023"}
	Pollutants = []string{"no2", "pm10", "pm2.5"}
)

func CanonicalPollutant(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

func ValidYear(y string) bool {
	for _, v := range Years {
		if v == y {
			return true
		}
	}
	return false
}

func ValidPollutant(p string) bool {
	p = CanonicalPollutant(p)
	for _, v := range Pollutants {
		if v == p {
			return true
		}
	}
	return false
}

// --- API payloads ---

type SeriesPoint struct {
	Year  string  `json:"year"`
	Value float64 `json:"value"`
}

type PollutantSummary struct {
	Pollutant  string     `json:"pollutant"`
	Average    *float64   `json:"average,omitempty"`
	Highest    *DataPoint `json:"highest,omitempty"`
	PointCount int        `json:"point_count"`
}

type PollutantComparison struct {
	Pollutant         string   `json:"pollutant"`
	AverageDifference *float64 `json:"average_difference,omitempty"`
	HighestDifference *float64 `json:"highest_difference,omitempty"`
}

type Marker struct {
	DataPoint
	Band string `json:"band"`
}

type RegionInfo struct {
	Name string `json:"name"`
	MinX int    `json:"min_x"`
	MaxX int    `json:"max_x"`
	MinY int    `json:"min_y"`
	MaxY int    `json:"max_y"`
}

type IngestStatus struct {
	State      string   `json:"state"`
	RunID      string   `json:"run_id,omitempty"`
	Files      int      `json:"files"`
	Loaded     int      `json:"loaded"`
	Failed     int      `json:"failed"`
	PointsKept int      `json:"points_kept"`
	Dropped    int      `json:"points_dropped"`
	DurationMs int64    `json:"duration_ms"`
	Failures   []string `json:"failures,omitempty"`
}
