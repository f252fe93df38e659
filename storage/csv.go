package storage

import (
	"encoding/csv"
	"os"

	"github.com/use-agent/listgrab/models"
)

// CSVWriter persists listings as a UTF-8 CSV with the fixed column order
// id, title, price, link.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer targeting path. The file is created (or
// truncated) on Write.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write persists the listings in order. A header row is always written,
// even for zero records, so a completed-but-empty run is distinguishable
// from a run that never produced a file.
func (w *CSVWriter) Write(listings []models.Listing) error {
	file, err := os.Create(w.path)
	if err != nil {
		return models.NewScrapeError(models.ErrCodePersist, "create "+w.path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	if err := cw.Write(models.CSVHeader); err != nil {
		return models.NewScrapeError(models.ErrCodePersist, "write header", err)
	}
	for _, l := range listings {
		if err := cw.Write(l.CSVRecord()); err != nil {
			return models.NewScrapeError(models.ErrCodePersist, "write record", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return models.NewScrapeError(models.ErrCodePersist, "flush "+w.path, err)
	}
	return nil
}
