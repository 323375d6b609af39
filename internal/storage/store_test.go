package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

func frame(seq uint64, removed ...body.Removal) *dynamo.Frame {
	return &dynamo.Frame{
		Seq:     seq,
		SimTime: float64(seq) * 0.5,
		Bodies: []dynamo.BodyView{
			{ID: 1, Name: "ARES", Kind: body.Rocky, Pos: dynamo.Vec3{180, 0, float64(seq)}, Speed: 52.7},
			{ID: 2, Name: "NIX, II", Kind: body.Gas, Pos: dynamo.Vec3{300, 0, 0}, Speed: 40.8},
		},
		Removed: removed,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rec := NewRecorder(2)
	rec.OnFrame(frame(1))
	rec.OnFrame(frame(2, body.Removal{ID: 3, Name: "OLD", Reason: body.Crash}))
	rec.OnFrame(frame(3))

	meta := &RunMetadata{Preset: "default", Seed: 42, Frames: 3, Metrics: map[string]float64{"energy": -1.5}}
	runID, err := st.Save(meta, rec)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "default_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Metrics["energy"] != -1.5 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if len(loaded.Removals) != 1 || loaded.Removals[0].Reason != body.Crash {
		t.Errorf("expected crash removal kept, got %+v", loaded.Removals)
	}

	tracks, err := st.LoadTracks(runID)
	if err != nil {
		t.Fatalf("load tracks failed: %v", err)
	}
	// Frames 1 and 3 are sampled, two bodies each.
	if len(tracks) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(tracks))
	}
	if tracks[1].Name != "NIX, II" || tracks[1].Kind != body.Gas {
		t.Errorf("expected quoted name and kind to survive, got %+v", tracks[1])
	}
	if tracks[2].Seq != 3 || tracks[2].Pos[2] != 3 {
		t.Errorf("unexpected third track %+v", tracks[2])
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v %v", runs, err)
	}

	first, _ := st.Save(&RunMetadata{Preset: "a"}, nil)
	second, _ := st.Save(&RunMetadata{Preset: "b"}, nil)

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected runs oldest first, got %+v", runs)
	}
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTracks("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := NewRecorder(1)
	rec.OnFrame(frame(1))

	var buf bytes.Buffer
	if err := WriteJSON(&buf, &RunMetadata{ID: "x"}, rec.Tracks()); err != nil {
		t.Fatal(err)
	}
	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Run.ID != "x" || len(out.Tracks) != 2 || out.Tracks[0].Kind != body.Rocky {
		t.Errorf("unexpected export %+v", out)
	}
}

func TestParseTrackRejectsShortRows(t *testing.T) {
	if _, err := parseTrack([]string{"1", "2"}); err == nil {
		t.Error("expected error for short row")
	}
}
