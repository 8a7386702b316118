package storage

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Visits []Visit     `json:"visits"`
}

func ExportJSON(path string, meta RunMetadata, visits []Visit) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Visits: visits})
}

func ExportCSV(path string, visits []Visit) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, visits); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
