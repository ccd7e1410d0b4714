package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/subsim/internal/sim"
)

// CSVHeader is the column order WriteCSV emits.
var CSVHeader = []string{"time", "depth", "target", "air", "velocity", "output"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.Depth),
			formatFloat(s.Target),
			formatFloat(s.AirLevel),
			formatFloat(s.Velocity),
			formatFloat(s.Output),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportData is the JSON form of a finished run.
type ExportData struct {
	Scenario string             `json:"scenario"`
	Kp       float64            `json:"kp"`
	Ki       float64            `json:"ki"`
	Kd       float64            `json:"kd"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Metrics  map[string]float64 `json:"metrics"`
	Samples  []sim.Sample       `json:"samples"`
}

func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportCSV(path string, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := WriteCSV(file, samples); err != nil {
		return err
	}
	return file.Close()
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := WriteJSON(file, data); err != nil {
		return err
	}
	return file.Close()
}

// ReadCSV parses a file written by WriteCSV. Rows that do not parse are
// skipped.
func ReadCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(CSVHeader) {
			continue
		}
		var vals [6]float64
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		samples = append(samples, sim.Sample{
			Time:     vals[0],
			Depth:    vals[1],
			Target:   vals[2],
			Error:    vals[2] - vals[1],
			AirLevel: vals[3],
			Velocity: vals[4],
			Output:   vals[5],
		})
	}
	return samples, nil
}
