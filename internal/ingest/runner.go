package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/api/metrics"
	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// Processor is the batch detection contract the runner drives. The detector
// satisfies it directly.
type Processor interface {
	Process(records []domain.ShipmentRecord) []domain.AnnotatedShipment
}

// FileFailure records one input file the batch had to skip, and why.
type FileFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Manifest summarises a batch run. A run always produces a manifest, so the
// caller can enumerate partial failures instead of guessing from an empty
// output directory.
type Manifest struct {
	FilesProcessed int           `json:"files_processed"`
	FilesFailed    []FileFailure `json:"files_failed"`
	RecordsIn      int           `json:"records_in"`
	RecordsOut     int           `json:"records_out"`
	RecordsInvalid int           `json:"records_invalid"`
	Flagged        int           `json:"flagged"`
}

// Runner wires file reading, detection, and output writing into one batch
// operation over a file or a directory of files.
type Runner struct {
	proc     Processor
	encoding string
	log      zerolog.Logger
}

func NewRunner(proc Processor, encodingName string, log zerolog.Logger) *Runner {
	return &Runner{proc: proc, encoding: encodingName, log: log}
}

// Run processes inputPath (a .json/.csv file or a directory of them) and
// writes one annotated JSON array per input file under outputPath. Per-file
// failures are recorded in the manifest and do not abort the batch; the
// returned error is reserved for the input path being unusable at all.
func (r *Runner) Run(inputPath, outputPath string) (Manifest, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("input %s: %w", inputPath, err)
	}

	if !info.IsDir() {
		var m Manifest
		r.runFile(inputPath, outputPath, &m)
		return m, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("read input directory %s: %w", inputPath, err)
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create output directory %s: %w", outputPath, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".json") || strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var m Manifest
	for _, name := range names {
		r.runFile(filepath.Join(inputPath, name), filepath.Join(outputPath, outputName(name)), &m)
	}
	return m, nil
}

// runFile processes one input file into one output file, folding results and
// failures into the manifest.
func (r *Runner) runFile(inPath, outPath string, m *Manifest) {
	records, err := ReadRecords(inPath, r.encoding)
	if err != nil {
		r.log.Error().Err(err).Str("file", inPath).Msg("input file skipped")
		m.FilesFailed = append(m.FilesFailed, FileFailure{File: inPath, Reason: err.Error()})
		return
	}
	m.RecordsIn += len(records)
	for i := range records {
		if records[i].Validate() != nil {
			m.RecordsInvalid++
			metrics.RecordsInvalidTotal.Inc()
		}
	}

	annotated := r.proc.Process(records)
	for _, a := range annotated {
		if a.HasHighSeverityAnomalies {
			m.Flagged++
		}
	}

	if err := writeAnnotated(outPath, annotated); err != nil {
		r.log.Error().Err(err).Str("file", outPath).Msg("output file not written")
		m.FilesFailed = append(m.FilesFailed, FileFailure{File: inPath, Reason: err.Error()})
		return
	}

	m.FilesProcessed++
	m.RecordsOut += len(annotated)
	r.log.Info().
		Str("file", inPath).
		Int("records", len(annotated)).
		Msg("file processed")
}

// outputName mirrors the input file name; CSV inputs become *_processed.json.
func outputName(name string) string {
	if strings.HasSuffix(name, ".csv") {
		return strings.TrimSuffix(name, ".csv") + "_processed.json"
	}
	return name
}

// writeAnnotated serialises one JSON array of annotated shipments.
func writeAnnotated(path string, annotated []domain.AnnotatedShipment) error {
	if annotated == nil {
		annotated = []domain.AnnotatedShipment{}
	}
	data, err := json.MarshalIndent(annotated, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
