package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

type ExportData struct {
	Run   RunMetadata `json:"run"`
	Steps int         `json:"steps"`
	Times []float64   `json:"times"`
	Probe []float64   `json:"probe"`
}

// ExportJSON writes a run and its probe series as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, probe, err := s.LoadProbe(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Run:   *meta,
		Steps: len(times),
		Times: times,
		Probe: probe,
	})
}

// ExportCSV writes the probe series as time,probe rows.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	times, probe, err := s.LoadProbe(runID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "probe"}); err != nil {
		return err
	}
	for i := range times {
		if err := cw.Write([]string{formatFloat(times[i]), formatFloat(probe[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
