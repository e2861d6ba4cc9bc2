// Package ingest reads batches of shipment records from JSON or CSV files,
// runs them through the detector, and writes annotated output. A batch never
// ends in a silent empty result: every run yields a manifest enumerating
// exactly which files and records were processed, skipped, or failed.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// decoderFor maps an encoding name to a charset decoder. An empty name or any
// UTF-8 spelling means no transformation.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ReadRecords parses shipment records from a single file. The format is
// chosen by extension: .json holds a record or an array of records, .csv
// holds one record per row with JSON-embedded cargo and route columns.
// A non-UTF-8 encodingName is honoured via a charmap transform.
func ReadRecords(path, encodingName string) ([]domain.ShipmentRecord, error) {
	dec, err := decoderFor(encodingName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if dec != nil {
		r = dec.Reader(f)
	}

	switch {
	case strings.HasSuffix(path, ".json"):
		records, err := parseJSON(r)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return records, nil
	case strings.HasSuffix(path, ".csv"):
		records, err := parseCSV(r)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%s: unsupported file type (want .json or .csv)", path)
	}
}

// parseJSON accepts either an array of records or a single record object.
func parseJSON(r io.Reader) ([]domain.ShipmentRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var records []domain.ShipmentRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var single domain.ShipmentRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []domain.ShipmentRecord{single}, nil
}

// parseCSV reads one shipment per row. Structured columns (origin,
// destination, cargo, planned_route, actual_route) carry embedded JSON;
// single-quoted payloads from older exports are tolerated.
func parseCSV(r io.Reader) ([]domain.ShipmentRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var records []domain.ShipmentRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := recordFromRow(row, col)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordFromRow(row []string, col map[string]int) (domain.ShipmentRecord, error) {
	cell := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := domain.ShipmentRecord{
		ID:        cell("id"),
		Status:    domain.ShipmentStatus(cell("status")),
		DriverID:  cell("driver_id"),
		VehicleID: cell("vehicle_id"),
	}

	if err := embeddedJSON(cell("origin"), &rec.Origin); err != nil {
		return rec, fmt.Errorf("record %s: origin: %w", rec.ID, err)
	}
	if err := embeddedJSON(cell("destination"), &rec.Destination); err != nil {
		return rec, fmt.Errorf("record %s: destination: %w", rec.ID, err)
	}
	if err := embeddedJSON(cell("cargo"), &rec.Cargo); err != nil {
		return rec, fmt.Errorf("record %s: cargo: %w", rec.ID, err)
	}
	if err := embeddedJSON(cell("planned_route"), &rec.PlannedRoute); err != nil {
		return rec, fmt.Errorf("record %s: planned_route: %w", rec.ID, err)
	}
	if err := embeddedJSON(cell("actual_route"), &rec.ActualRoute); err != nil {
		return rec, fmt.Errorf("record %s: actual_route: %w", rec.ID, err)
	}

	if ts, ok := parseTime(cell("estimated_arrival_time")); ok {
		rec.EstimatedArrivalTime = ts
	}
	if ts, ok := parseTime(cell("actual_arrival_time")); ok {
		rec.ActualArrivalTime = &ts
	}
	return rec, nil
}

// embeddedJSON unmarshals a JSON cell, tolerating single-quoted exports.
func embeddedJSON(cell string, v any) error {
	if cell == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(cell), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(strings.ReplaceAll(cell, "'", `"`)), v)
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
