package engine

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"airquality/internal/models"
)

// Loader turns one input file into a Dataset.
type Loader interface {
	Load(path string) (*models.Dataset, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc func(path string) (*models.Dataset, error)

func (f LoaderFunc) Load(path string) (*models.Dataset, error) { return f(path) }

// --- 1. FAST FIELD PARSERS ---

// parseInt parses an optionally signed run of digits. Runs longer than 18
// digits go through strconv so that overflow is rejected.
func parseInt(b []byte) (int, bool) {
	orig := b
	neg := false
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		b = b[1:]
	}
	if len(b) == 0 {
		return 0, false
	}
	if len(b) > 18 {
		n, err := strconv.Atoi(string(orig))
		return n, err == nil
	}
	var n int
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// parseFloat handles the plain "123.45" shape inline and hands anything
// else (exponents, long mantissas) to strconv.
func parseFloat(b []byte) (float64, bool) {
	s := b
	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var mant int64
	var i, digits, frac int
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		mant = mant*10 + int64(s[i]-'0')
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			mant = mant*10 + int64(s[i]-'0')
			i++
			digits++
			frac++
		}
	}
	if i != len(s) || digits == 0 || digits > 15 {
		f, err := strconv.ParseFloat(string(b), 64)
		return f, err == nil
	}
	num := float64(mant) / pow10[frac]
	if neg {
		num = -num
	}
	return num, true
}

var pow10 = [...]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15}

func isYear(b []byte) bool {
	if len(b) != 4 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// --- 2. CSV LOADER ---

// CSVLoader reads the per-year/per-pollutant grid files. A file starts with
// free-form preamble rows, then a header row whose first cell is "gridcode",
// then one "gridcode,x,y,value" row per cell. The pollutant and year are the
// first preamble cells that name a known pollutant and a four digit year; if
// the preamble has neither, the header's value column ("no22018") is used.
// Rows whose value is MISSING or empty carry no reading and are skipped.
type CSVLoader struct{}

var missing = []byte("missing")

func (CSVLoader) Load(path string) (*models.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sep := []byte{','}
	var pollutant, year string
	var ds *models.Dataset
	lineNo := 0

	for len(content) > 0 {
		var line []byte
		if i := bytes.IndexByte(content, '\n'); i != -1 {
			line, content = content[:i], content[i+1:]
		} else {
			line, content = content, nil
		}
		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		// Preamble and header
		if ds == nil {
			first, rest, _ := bytes.Cut(line, sep)
			if !bytes.EqualFold(bytes.TrimSpace(first), []byte("gridcode")) {
				for _, cell := range bytes.Split(line, sep) {
					cell = bytes.TrimSpace(cell)
					if pollutant == "" && models.ValidPollutant(string(cell)) {
						pollutant = models.CanonicalPollutant(string(cell))
					} else if year == "" && isYear(cell) {
						year = string(cell)
					}
				}
				continue
			}
			if pollutant == "" || year == "" {
				p, y := splitValueColumn(rest)
				if pollutant == "" {
					pollutant = p
				}
				if year == "" {
					year = y
				}
			}
			if !models.ValidPollutant(pollutant) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownPollutant, pollutant)
			}
			if !models.ValidYear(year) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownYear, year)
			}
			ds = models.NewDataset(pollutant, year)
			continue
		}

		// Data rows: gridcode,x,y,value
		var f [4][]byte
		rest := line
		for k := 0; k < 3; k++ {
			var found bool
			if f[k], rest, found = bytes.Cut(rest, sep); !found {
				return nil, fmt.Errorf("line %d: %w: want 4 fields", lineNo, ErrMalformedRow)
			}
		}
		f[3], _, _ = bytes.Cut(rest, sep)

		val := bytes.TrimSpace(f[3])
		if len(val) == 0 || bytes.EqualFold(val, missing) {
			continue
		}
		gc, ok1 := parseInt(bytes.TrimSpace(f[0]))
		x, ok2 := parseInt(bytes.TrimSpace(f[1]))
		y, ok3 := parseInt(bytes.TrimSpace(f[2]))
		v, ok4 := parseFloat(val)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedRow, line)
		}
		ds.Append(models.DataPoint{X: x, Y: y, GridCode: gc, Value: v})
	}

	if ds == nil {
		return nil, ErrMissingHeader
	}
	return ds, nil
}

// splitValueColumn reads "no22018"-style column names from the header cells
// after "gridcode".
func splitValueColumn(header []byte) (pollutant, year string) {
	cells := bytes.Split(header, []byte{','})
	if len(cells) == 0 {
		return "", ""
	}
	col := strings.ToLower(string(bytes.TrimSpace(cells[len(cells)-1])))
	for _, p := range models.Pollutants {
		if rest, ok := strings.CutPrefix(col, p); ok && isYear([]byte(rest)) {
			return p, rest
		}
	}
	return "", ""
}
