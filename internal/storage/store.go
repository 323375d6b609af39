package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/orbitsim/internal/body"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	tracksFile   = "tracks.csv"
)

// Store keeps one directory per run under baseDir.
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
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Bodies     int                `json:"bodies"`
	Frames     int                `json:"frames"`
	FrameDelta float64            `json:"frame_delta"`
	SimTime    float64            `json:"sim_time"`
	Gravity    string             `json:"gravity"`
	Warp       string             `json:"warp"`
	Survivors  int                `json:"survivors"`
	Removals   []body.Removal     `json:"removals,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and the recording's tracks to a new run directory and
// returns its id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta *RunMetadata, rec *Recorder) (string, error) {
	now := time.Now()
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if rec != nil {
		meta.Removals = rec.Removals()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, tracksFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	var tracks []Track
	if rec != nil {
		tracks = rec.Tracks()
	}
	if err := WriteCSV(csvFile, tracks); err != nil {
		return "", fmt.Errorf("write tracks: %w", err)
	}

	return runID, nil
}

// List returns every readable run, oldest first. Unreadable directories are
// skipped.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTracks reads a run's sampled positions. Malformed rows are skipped.
func (s *Store) LoadTracks(runID string) ([]Track, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, tracksFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Track{}, nil
	}

	tracks := make([]Track, 0, len(records)-1)
	for _, record := range records[1:] {
		t, err := parseTrack(record)
		if err != nil {
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
