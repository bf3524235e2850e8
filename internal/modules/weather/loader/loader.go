// Package loader reads the fixed six-column weather CSV into a store.
//
// The first line is a header and is skipped without inspection. Every data
// line must hold a date token of at most ten characters followed by five
// numbers; anything else is dropped silently and only counted.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cloudpico-analyzer/internal/modules/weather/store"
	"cloudpico-analyzer/internal/modules/weather/types"
)

const (
	fieldCount    = 6
	maxDateLength = 10
	maxLineBytes  = 1 << 20
)

// ErrFileNotReadable is returned when the input cannot be opened or read.
var ErrFileNotReadable = errors.New("file not readable")

// Result counts what happened to the data lines of one input.
type Result struct {
	Lines     int `json:"lines"`
	Loaded    int `json:"loaded"`
	Skipped   int `json:"skipped"`
	Truncated int `json:"truncated"`
}

// Load opens path and reads it into a new store of the given capacity.
func Load(path string, capacity int) (*store.Store, Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Result{}, fmt.Errorf("%w: %s: %w", ErrFileNotReadable, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("close input", "path", path, "error", closeErr)
		}
	}()

	s, res, err := Read(f, capacity)
	if err != nil {
		return nil, res, fmt.Errorf("%w: %s: %w", ErrFileNotReadable, path, err)
	}
	slog.Debug("input loaded",
		"path", path,
		"lines", res.Lines,
		"loaded", res.Loaded,
		"skipped", res.Skipped,
		"truncated", res.Truncated,
	)
	return s, res, nil
}

// Read consumes r to the end. Lines past the store capacity are still read
// so that Result reflects the whole input.
func Read(r io.Reader, capacity int) (*store.Store, Result, error) {
	s := store.New(capacity)
	var res Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		res.Lines++

		rec, ok := ParseLine(scanner.Text())
		if !ok {
			res.Skipped++
			continue
		}
		if s.Append(rec) {
			res.Loaded++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, res, err
	}

	res.Truncated = s.Truncated()
	return s, res, nil
}

// ParseLine parses one data line. Fields beyond the sixth are ignored.
func ParseLine(line string) (types.Record, bool) {
	fields := strings.SplitN(line, ",", fieldCount+1)
	if len(fields) < fieldCount {
		return types.Record{}, false
	}

	date := fields[0]
	if date == "" || len(date) > maxDateLength {
		return types.Record{}, false
	}

	var values [fieldCount - 1]float64
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return types.Record{}, false
		}
		values[i] = v
	}

	return types.Record{
		Date:        date,
		Temperature: values[0],
		Humidity:    values[1],
		Pressure:    values[2],
		WindSpeed:   values[3],
		Rainfall:    values[4],
	}, true
}
