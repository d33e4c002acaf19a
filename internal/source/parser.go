// Package source loads historical monthly records from files and provides the
// fallback seed series.
package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/theirongolddev/runway/internal/model"
)

// ErrUnsupportedFormat is returned for file extensions LoadFile cannot read.
var ErrUnsupportedFormat = errors.New("unsupported history format")

// FormatOf maps a path's extension to a Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadFile reads a history file. Empty files yield an empty slice; the caller
// decides whether to fall back to SeedHistory.
func LoadFile(path string) ([]model.MonthlyRecord, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // user-supplied history file
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// Parse decodes records in the given format.
func Parse(r io.Reader, format Format) ([]model.MonthlyRecord, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(r)
	case FormatYAML:
		return ParseYAML(r)
	case FormatCSV:
		return ParseCSV(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// ParseJSON accepts a bare array of months or the service envelope
// {"monthlyData": [...]}.
func ParseJSON(r io.Reader) ([]model.MonthlyRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(data)
}

// DecodeJSON is ParseJSON over a byte slice.
func DecodeJSON(data []byte) ([]model.MonthlyRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raws []rawRecord
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
	case '{':
		var env struct {
			MonthlyData []rawRecord `json:"monthlyData"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		raws = env.MonthlyData
	default:
		return nil, fmt.Errorf("expected a JSON array or object, got %q", data[0])
	}

	out := make([]model.MonthlyRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, raw.record())
	}
	return Check(out)
}

// DecodeRecord decodes one month in the same wire format as DecodeJSON.
func DecodeRecord(data []byte) (model.MonthlyRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.MonthlyRecord{}, err
	}
	rec := raw.record()
	if err := rec.Validate(); err != nil {
		return model.MonthlyRecord{}, err
	}
	return rec, nil
}

// ParseYAML reads a YAML list of months, or a mapping with a monthlyData key.
func ParseYAML(r io.Reader) ([]model.MonthlyRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []model.MonthlyRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		var env struct {
			MonthlyData []model.MonthlyRecord `yaml:"monthlyData"`
		}
		if envErr := yaml.Unmarshal(data, &env); envErr != nil {
			return nil, err
		}
		records = env.MonthlyData
	}
	return Check(records)
}

// ParseCSV reads a header row naming the record fields followed by one row per
// month. Header names match the JSON field names; case, spaces, dashes and
// underscores are ignored.
func ParseCSV(r io.Reader) ([]model.MonthlyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[csvKey(h)] = i
	}
	if _, ok := cols["monthname"]; !ok {
		return nil, errors.New("csv header must include monthName")
	}

	var out []model.MonthlyRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := csvRecord(cols, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return Check(out)
}

func csvKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func csvRecord(cols map[string]int, row []string) (model.MonthlyRecord, error) {
	get := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var raw rawRecord
	raw.MonthName = get("monthname")

	numbers := []struct {
		key string
		dst *flexFloat
	}{
		{"marketingspend", &raw.MarketingSpend},
		{"burnrate", &raw.BurnRate},
		{"cac", &raw.CAC},
		{"churnrate", &raw.ChurnRate},
		{"arpu", &raw.ARPU},
		{"teamsize", &raw.TeamSize},
		{"productimprovements", &raw.ProductImprovements},
		{"marketexpansion", &raw.MarketExpansion},
	}
	for _, n := range numbers {
		v, err := parseNumber(get(n.key))
		if err != nil {
			return model.MonthlyRecord{}, fmt.Errorf("%s: %w", n.key, err)
		}
		*n.dst = flexFloat(v)
	}

	round, err := model.ParseFundingRound(get("fundinground"))
	if err != nil {
		return model.MonthlyRecord{}, err
	}
	raw.FundingRound = round

	return raw.record(), nil
}
