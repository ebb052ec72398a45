// Package store persists comparison runs: one directory per run holding
// metadata and the spectrum captured at each time-window boundary.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/hitsim/internal/spectral"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Resolution    int                `json:"resolution"`
	Modes         int                `json:"modes"`
	LengthScale   float64            `json:"length_scale"`
	VelocityScale float64            `json:"velocity_scale"`
	Nu            float64            `json:"nu"`
	Dt            float64            `json:"dt"`
	Seed          int64              `json:"seed"`
	Windows       []float64          `json:"windows"`
	Scheme        string             `json:"scheme"`
	SmagorinskyCs float64            `json:"smagorinsky_cs"`
	Metrics       map[string]float64 `json:"metrics"`
}

// NewRunID builds the conventional run identifier from resolution and the
// current clock.
func NewRunID(resolution int) string {
	return fmt.Sprintf("hit_N%d_%d", resolution, time.Now().Unix())
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// SaveMetadata writes (or rewrites) a run's metadata.json, creating the run
// directory if needed.
func (s *Store) SaveMetadata(meta *RunMetadata) error {
	dir := s.runDir(meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func spectrumFile(ctu float64) string {
	return fmt.Sprintf("spectrum_t%.2f.csv", ctu)
}

// SaveSpectrum writes one captured spectrum as a two-column CSV.
func (s *Store) SaveSpectrum(runID string, ctu float64, c *spectral.Curve) error {
	dir := s.runDir(runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return WriteSpectrumCSV(filepath.Join(dir, spectrumFile(ctu)), c)
}

// WriteSpectrumCSV writes a spectrum to an arbitrary path in the same
// format the run store uses.
func WriteSpectrumCSV(path string, c *spectral.Curve) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"k", "E"}); err != nil {
		return err
	}
	for i := range c.K {
		row := []string{
			strconv.FormatFloat(c.K[i], 'g', -1, 64),
			strconv.FormatFloat(c.E[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSpectrum reads back the spectrum captured at a window boundary.
func (s *Store) LoadSpectrum(runID string, ctu float64) (*spectral.Curve, error) {
	file, err := os.Open(filepath.Join(s.runDir(runID), spectrumFile(ctu)))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("store: spectrum for t=%.2f is empty", ctu)
	}

	curve := &spectral.Curve{}
	for _, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("store: malformed spectrum row %v", record)
		}
		k, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, err
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, err
		}
		curve.K = append(curve.K, k)
		curve.E = append(curve.E, e)
	}
	return curve, nil
}
