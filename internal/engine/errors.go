package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned by averages over an empty set of points.
	ErrNoData = errors.New("no data points")
	// ErrNotReady is returned by a Pending store that is still loading.
	ErrNotReady = errors.New("data store is still loading")

	ErrUnknownPollutant = errors.New("unknown pollutant")
	ErrUnknownYear      = errors.New("unknown year")
	ErrMalformedRow     = errors.New("malformed row")
	ErrMissingHeader    = errors.New("missing gridcode header row")
)

// IngestionError records one file (or directory) that could not be loaded.
// Ingestion carries on past it.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }
