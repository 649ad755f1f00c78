package logging

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"rbfrl/internal/eval"
	"rbfrl/internal/fa"
)

// NewConsole creates a text logger writing to stderr at the given level
func NewConsole(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// FeatureLogger writes evaluated feature vectors to CSV and JSON lines files
type FeatureLogger struct {
	csvPath       string
	jsonPath      string
	writeFeatures bool
	csvFile       *os.File
	csvWriter     *csv.Writer
	jsonFile      *os.File
	jsonEnc       *json.Encoder
	initialized   bool
	logger        logrus.FieldLogger
}

// NewFeatureLogger creates a new feature logger
func NewFeatureLogger(csvPath, jsonPath string, writeFeatures bool, logger logrus.FieldLogger) (*FeatureLogger, error) {
	l := &FeatureLogger{
		csvPath:       csvPath,
		jsonPath:      jsonPath,
		writeFeatures: writeFeatures,
		logger:        logger,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, errors.Wrap(err, "create csv dir")
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, errors.Wrap(err, "create json dir")
	}

	return l, nil
}

// Init opens the output files and writes the CSV header
func (l *FeatureLogger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"sample", "action", "len", "peak_index", "peak", "mean", "std", "sum", "non_zero", "error",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open json")
	}
	l.jsonEnc = json.NewEncoder(l.jsonFile)

	l.initialized = true
	return nil
}

// Close flushes and closes all files. Calling it again is a no-op.
func (l *FeatureLogger) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		keep(l.csvWriter.Error())
	}
	if l.csvFile != nil {
		keep(l.csvFile.Close())
	}
	if l.jsonFile != nil {
		keep(l.jsonFile.Close())
	}
	l.csvWriter, l.csvFile, l.jsonFile, l.jsonEnc = nil, nil, nil, nil
	l.initialized = false
	return firstErr
}

// FeatureRecord is one JSON line
type FeatureRecord struct {
	Sample   int              `json:"sample"`
	Action   int              `json:"action"`
	Stats    *fa.FeatureStats `json:"stats,omitempty"`
	Features []float64        `json:"features,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// LogResult writes one evaluation result
func (l *FeatureLogger) LogResult(r eval.Result) error {
	if !l.initialized {
		return nil
	}

	rec := FeatureRecord{Sample: r.Index, Action: r.Action}
	row := []string{strconv.Itoa(r.Index), strconv.Itoa(r.Action)}
	if r.Err != nil {
		rec.Error = r.Err.Error()
		row = append(row, "", "", "", "", "", "", "", rec.Error)
	} else {
		stats := r.Stats
		rec.Stats = &stats
		if l.writeFeatures {
			rec.Features = mat.Col(nil, 0, r.Features)
		}
		row = append(row,
			strconv.Itoa(stats.Len),
			strconv.Itoa(stats.PeakIndex),
			formatFloat(stats.Peak),
			formatFloat(stats.Mean),
			formatFloat(stats.Std),
			formatFloat(stats.Sum),
			strconv.Itoa(stats.NonZero),
			"",
		)
	}

	if err := l.csvWriter.Write(row); err != nil {
		return errors.Wrap(err, "write csv row")
	}
	return errors.Wrap(l.jsonEnc.Encode(rec), "write json line")
}

// LogResults writes a batch of results and reports the aggregate
func (l *FeatureLogger) LogResults(results []eval.Result) error {
	if !l.initialized {
		return nil
	}
	for _, r := range results {
		if err := l.LogResult(r); err != nil {
			return err
		}
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}

	s := eval.Summarize(results)
	l.logger.WithFields(logrus.Fields{
		"evaluated": s.Evaluated,
		"rejected":  s.Rejected,
		"peak_mean": s.PeakMean,
		"sum_mean":  s.SumMean,
	}).Info("features written")
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
