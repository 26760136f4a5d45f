package projectfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"1/2/2006",
}

// LoadWeather reads a weather CSV file
func LoadWeather(path string, opts ...weather.Option) (*weather.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weather file: %w", err)
	}
	defer f.Close()

	s, err := ReadWeather(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadWeather parses hourly weather rows. The first column is the
// timestamp; every other column is numeric (waveheight, windspeed,
// windspeed_<h>m).
func ReadWeather(r io.Reader, opts ...weather.Option) (*weather.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("weather file is empty")
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, errors.New("weather file needs a timestamp column and at least one data column")
	}

	var times []time.Time
	columns := make(map[string][]float64, len(header)-1)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		times = append(times, t)
		for i, name := range header[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, name, err)
			}
			columns[name] = append(columns[name], v)
		}
	}
	return weather.NewSeries(times, columns, opts...)
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := weather.ParseDate(raw); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}
