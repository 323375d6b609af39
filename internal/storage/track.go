package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Track is one sampled body position.
type Track struct {
	Seq     uint64      `json:"seq"`
	SimTime float64     `json:"sim_time"`
	ID      body.ID     `json:"id"`
	Name    string      `json:"name"`
	Kind    body.Kind   `json:"kind"`
	Pos     dynamo.Vec3 `json:"pos"`
	Speed   float64     `json:"speed"`
}

var trackHeader = []string{"seq", "sim_time", "id", "name", "kind", "x", "y", "z", "speed"}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func (t Track) record() []string {
	return []string{
		strconv.FormatUint(t.Seq, 10),
		formatFloat(t.SimTime),
		strconv.FormatUint(uint64(t.ID), 10),
		t.Name,
		t.Kind.String(),
		formatFloat(t.Pos[0]),
		formatFloat(t.Pos[1]),
		formatFloat(t.Pos[2]),
		formatFloat(t.Speed),
	}
}

func parseTrack(rec []string) (Track, error) {
	if len(rec) != len(trackHeader) {
		return Track{}, fmt.Errorf("track row has %d fields, want %d", len(rec), len(trackHeader))
	}
	var (
		t   Track
		err error
	)
	if t.Seq, err = strconv.ParseUint(rec[0], 10, 64); err != nil {
		return Track{}, err
	}
	if t.SimTime, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return Track{}, err
	}
	id, err := strconv.ParseUint(rec[2], 10, 64)
	if err != nil {
		return Track{}, err
	}
	t.ID = body.ID(id)
	t.Name = rec[3]
	if t.Kind, err = body.ParseKind(rec[4]); err != nil {
		return Track{}, err
	}
	for i := 0; i < 3; i++ {
		if t.Pos[i], err = strconv.ParseFloat(rec[5+i], 64); err != nil {
			return Track{}, err
		}
	}
	if t.Speed, err = strconv.ParseFloat(rec[8], 64); err != nil {
		return Track{}, err
	}
	return t, nil
}

// WriteCSV writes tracks with a header row.
func WriteCSV(w io.Writer, tracks []Track) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trackHeader); err != nil {
		return err
	}
	for _, t := range tracks {
		if err := cw.Write(t.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	Run    *RunMetadata `json:"run"`
	Tracks []Track      `json:"tracks"`
}

// WriteJSON writes a run and its tracks as one indented document.
func WriteJSON(w io.Writer, meta *RunMetadata, tracks []Track) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Tracks: tracks})
}

// Recorder samples every Every-th frame into tracks and keeps every
// removal. It implements dynamo.Observer.
type Recorder struct {
	Every int

	frames   int
	tracks   []Track
	removals []body.Removal
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnFrame(f *dynamo.Frame) {
	r.removals = append(r.removals, f.Removed...)
	r.frames++
	if (r.frames-1)%r.Every != 0 {
		return
	}
	for _, b := range f.Bodies {
		r.tracks = append(r.tracks, Track{
			Seq:     f.Seq,
			SimTime: f.SimTime,
			ID:      b.ID,
			Name:    b.Name,
			Kind:    b.Kind,
			Pos:     b.Pos,
			Speed:   b.Speed,
		})
	}
}

func (r *Recorder) Tracks() []Track          { return r.tracks }
func (r *Recorder) Removals() []body.Removal { return r.removals }
func (r *Recorder) Frames() int              { return r.frames }
