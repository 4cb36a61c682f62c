package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Particles   int                `json:"particles"`
	Density     float64            `json:"density"`
	Temperature float64            `json:"temperature"`
	Seed        int64              `json:"seed"`
	Steps       int64              `json:"steps"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Sample is one row of the sampled trajectory trace.
type Sample struct {
	Step       int64
	Energy     float64
	EnergyPerN float64
	Acceptance float64
}

func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	runID := fmt.Sprintf("lj_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trace.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"step", "energy", "energy_per_particle", "acceptance"}); err != nil {
		return "", err
	}

	for _, sample := range samples {
		row := []string{
			strconv.FormatInt(sample.Step, 10),
			strconv.FormatFloat(sample.Energy, 'f', 6, 64),
			strconv.FormatFloat(sample.EnergyPerN, 'f', 6, 64),
			strconv.FormatFloat(sample.Acceptance, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]Sample, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trace.csv")
	file, err := os.Open(csvPath)
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
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		step, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			continue
		}
		energy, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		energyPerN, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		acceptance, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			continue
		}

		samples = append(samples, Sample{
			Step:       step,
			Energy:     energy,
			EnergyPerN: energyPerN,
			Acceptance: acceptance,
		})
	}

	return samples, nil
}
