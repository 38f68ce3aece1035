package sink

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"PricePulse/internal/model"
)

// FileSink writes prices.json and prediction.json into an output directory,
// creating parent directories as needed. Each file goes through a temp file
// plus rename so readers never see a partially written document.
type FileSink struct {
	Dir string
}

// NewFileSink creates a sink targeting the given directory.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Write(prices *model.PricesDocument, prediction *model.PredictionDocument) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := s.writeJSON("prices.json", prices); err != nil {
		return err
	}
	if err := s.writeJSON("prediction.json", prediction); err != nil {
		return err
	}
	return nil
}

func (s *FileSink) writeJSON(name string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(s.Dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}
	log.Printf("[INFO] wrote %s", path)
	return nil
}
