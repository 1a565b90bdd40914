package replay

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"atc-planner/internal/game/aircraft"
	"atc-planner/internal/game/airspace"
	"atc-planner/internal/game/planner"
	"atc-planner/internal/wire"
	"atc-planner/pkg/types"
)

func testState(y float64) planner.TickState {
	return planner.TickState{
		Objects: []planner.Entity{
			planner.Plane{Aircraft: aircraft.NewAircraft("A1", types.NewVec2(100, y), 180, 2, 5, 10)},
			planner.Plane{Aircraft: aircraft.NewAircraft("B2", types.NewVec2(300, y), 0, 2, 5, 10)},
		},
		Runway:   airspace.Runway{Position: types.NewVec2(100, 200)},
		Boundary: airspace.Boundary{Min: types.NewVec2(0, -200), Max: types.NewVec2(800, 600)},
	}
}

// record runs the planner over a few ticks and writes what it decided.
func record(t *testing.T, w *Writer, opts planner.Options) {
	t.Helper()
	p := planner.New(opts, nil)
	sess := planner.NewSession()
	for i := 0; i < 5; i++ {
		st := testState(100 + float64(i)*10)
		res, err := p.Tick(sess, st)
		if err != nil {
			t.Fatal(err)
		}
		tick := wire.NewTick(st)
		frame, err := tick.State()
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Write(Record{Tick: i, Holding: opts.Holding, State: wire.NewTick(st), Decisions: frame.Decisions(res.Decisions)}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	record(t, w, planner.Options{})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Fatalf("read %d records, want 5", len(recs))
	}
	for i, rec := range recs {
		if rec.Tick != i {
			t.Errorf("record %d has tick %d", i, rec.Tick)
		}
		if len(rec.Decisions) != 2 {
			t.Errorf("record %d has %d decisions", i, len(rec.Decisions))
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after the last record, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.rec")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	record(t, w, planner.Options{})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	t.Run("reproduces", func(t *testing.T) {
		r, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		n, mismatches, err := Verify(r, planner.New(planner.Options{}, nil))
		if err != nil {
			t.Fatal(err)
		}
		if n != 5 {
			t.Errorf("replayed %d ticks, want 5", n)
		}
		if len(mismatches) != 0 {
			t.Errorf("unexpected mismatches: %v", mismatches)
		}
	})

	t.Run("detects tampering", func(t *testing.T) {
		r, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		recs, err := r.ReadAll()
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		recs[2].Decisions[0].Waypoint.X += 1
		recs[3].Decisions[1].PlaneID = wire.ID{Value: "GHOST"}

		var buf bytes.Buffer
		w, err := NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		for _, rec := range recs {
			if err := w.Write(rec); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}

		rr, err := NewReader(&buf)
		if err != nil {
			t.Fatal(err)
		}
		defer rr.Close()
		_, mismatches, err := Verify(rr, planner.New(planner.Options{}, nil))
		if err != nil {
			t.Fatal(err)
		}
		if len(mismatches) != 2 {
			t.Fatalf("got %d mismatches, want 2: %v", len(mismatches), mismatches)
		}
		if mismatches[0].Tick != 2 || mismatches[0].PlaneID != "A1" {
			t.Errorf("first mismatch = %v", mismatches[0])
		}
		if !mismatches[1].Missing || mismatches[1].PlaneID != "GHOST" {
			t.Errorf("second mismatch = %v", mismatches[1])
		}
	})
}

func TestVerifyChecksPlannerOptions(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	record(t, w, planner.Options{Holding: true})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	t.Run("different options", func(t *testing.T) {
		r, err := NewReader(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		n, mismatches, err := Verify(r, planner.New(planner.Options{}, nil))
		if !errors.Is(err, ErrOptionsMismatch) {
			t.Fatalf("expected ErrOptionsMismatch, got %v", err)
		}
		if n != 0 || len(mismatches) != 0 {
			t.Errorf("nothing should be compared, got %d ticks and %v", n, mismatches)
		}
	})

	t.Run("same options", func(t *testing.T) {
		r, err := NewReader(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		defer r.Close()
		n, mismatches, err := Verify(r, planner.New(planner.Options{Holding: true}, nil))
		if err != nil {
			t.Fatal(err)
		}
		if n != 5 || len(mismatches) != 0 {
			t.Errorf("replayed %d ticks with mismatches %v", n, mismatches)
		}
	})
}
