package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
)

// OutputManager writes per-rebuild CSV logs into an output directory.
type OutputManager struct {
	dir       string
	facesFile *os.File
	perfFile  *os.File

	// Track if headers have been written
	facesHeaderWritten bool
	perfHeaderWritten  bool

	rebuilds int
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "faces.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating faces.csv: %w", err)
	}
	om.facesFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.facesFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteResult appends one record per face to faces.csv.
func (om *OutputManager) WriteResult(res *planet.Result) error {
	if om == nil || res == nil {
		return nil
	}
	om.rebuilds++
	records := FaceRecords(om.rebuilds, res)

	if !om.facesHeaderWritten {
		if err := gocsv.Marshal(records, om.facesFile); err != nil {
			return fmt.Errorf("writing faces: %w", err)
		}
		om.facesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.facesFile); err != nil {
			return fmt.Errorf("writing faces: %w", err)
		}
	}
	return nil
}

// WritePerf appends a rolling-window stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV()}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}
	return nil
}

// Path returns name joined to the output directory.
func (om *OutputManager) Path(name string) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, name)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.facesFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
