package engine

import (
	"sort"
	"time"

	"airquality/internal/models"
)

type bucketKey struct {
	Year      string
	Pollutant string
}

// Store holds every in-region point of the corpus, bucketed by
// (year, pollutant). It is built once by Load and never written again, so
// queries take no locks.
type Store struct {
	buckets map[bucketKey][]models.DataPoint
	years   []string // sorted, years present in buckets
	catalog *Catalog
	report  Report
}

// Report describes one ingestion run.
type Report struct {
	RunID         string
	Root          string
	Files         int
	Loaded        int
	Failures      []IngestionError
	PointsKept    int
	PointsDropped int
	Duration      time.Duration
}

// NewStore builds a store straight from datasets, applying the same region
// filter as Load. Datasets sharing a (year, pollutant) are concatenated in
// argument order.
func NewStore(catalog *Catalog, datasets ...*models.Dataset) *Store {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	s := &Store{buckets: make(map[bucketKey][]models.DataPoint), catalog: catalog}
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		kept, dropped := filterDataset(ds, catalog)
		s.add(kept)
		s.report.Loaded++
		s.report.PointsKept += len(kept.Points)
		s.report.PointsDropped += dropped
	}
	s.report.Files = len(datasets)
	s.finish()
	return s
}

func (s *Store) add(ds *models.Dataset) {
	k := bucketKey{Year: ds.Year, Pollutant: models.CanonicalPollutant(ds.Pollutant)}
	s.buckets[k] = append(s.buckets[k], ds.Points...)
}

func (s *Store) finish() {
	seen := make(map[string]bool)
	s.years = s.years[:0]
	for k := range s.buckets {
		if !seen[k.Year] {
			seen[k.Year] = true
			s.years = append(s.years, k.Year)
		}
	}
	sort.Strings(s.years)
}

// filterDataset keeps the points inside any catalog region.
func filterDataset(ds *models.Dataset, catalog *Catalog) (*models.Dataset, int) {
	out := models.NewDataset(ds.Pollutant, ds.Year)
	for _, p := range ds.Points {
		if catalog.InLocation(p, LocationAll) {
			out.Append(p)
		}
	}
	return out, len(ds.Points) - len(out.Points)
}

func (s *Store) Catalog() *Catalog { return s.catalog }

func (s *Store) Report() Report { return s.report }

// Years lists the years that have at least one bucket, ascending.
func (s *Store) Years() []string {
	return append([]string(nil), s.years...)
}

// Len counts all points held by the store.
func (s *Store) Len() int {
	n := 0
	for _, pts := range s.buckets {
		n += len(pts)
	}
	return n
}

// Status renders the report for the API.
func (r Report) Status(state State) models.IngestStatus {
	st := models.IngestStatus{
		State:      state.String(),
		RunID:      r.RunID,
		Files:      r.Files,
		Loaded:     r.Loaded,
		Failed:     len(r.Failures),
		PointsKept: r.PointsKept,
		Dropped:    r.PointsDropped,
		DurationMs: r.Duration.Milliseconds(),
	}
	for i := range r.Failures {
		st.Failures = append(st.Failures, r.Failures[i].Error())
	}
	return st
}
