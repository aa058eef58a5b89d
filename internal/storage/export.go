package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run        RunMetadata `json:"run"`
	Steps      int         `json:"steps"`
	Times      []float64   `json:"times"`
	Positions  []float64   `json:"positions"`
	Velocities []float64   `json:"velocities"`
	Targets    []float64   `json:"targets"`
}

func ExportJSON(path string, meta *RunMetadata, tr *Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeExport(file, meta, tr)
}

func ExportJSONStdout(meta *RunMetadata, tr *Trace) error {
	return writeExport(os.Stdout, meta, tr)
}

func writeExport(w io.Writer, meta *RunMetadata, tr *Trace) error {
	data := ExportData{
		Run:        *meta,
		Steps:      len(tr.Times),
		Times:      tr.Times,
		Positions:  tr.Positions,
		Velocities: tr.Velocities,
		Targets:    tr.Targets,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
