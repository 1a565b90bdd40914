package kafkabridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"atc-planner/internal/config"
	"atc-planner/internal/game/planner"
	"atc-planner/internal/wire"

	"github.com/segmentio/kafka-go"
)

const tick = `{"objects": [
	{"type": "plane", "id": "A", "position": {"x": 100, "y": 100}, "rotation": 180, "speed": 2, "turn_speed": 5, "collision_radius": 10}
], "runway": {"x": 100, "y": 200}}`

// landing is a tick in which A is already on the runway.
const landing = `{"objects": [
	{"type": "plane", "id": "A", "position": {"x": 100, "y": 198}, "rotation": 0, "speed": 2, "turn_speed": 5, "collision_radius": 10}
], "runway": {"x": 100, "y": 200}}`

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func msg(game string, offset int64, value string, headers ...kafka.Header) kafka.Message {
	return kafka.Message{Key: []byte(game), Offset: offset, Value: []byte(value), Headers: headers}
}

func newBridge(r MessageReader, w MessageWriter) *Bridge {
	return New(r, w, wire.JSON, planner.New(planner.Options{}, nil), config.DefaultConfig().Planner, nil)
}

func TestRunPublishesDecisions(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{
		msg("game-1", 0, tick),
		msg("game-1", 1, `not json`),
		msg("game-2", 2, tick),
	}}
	w := &fakeWriter{}
	b := newBridge(r, w)

	ctx, cancel := context.WithCancel(context.Background())
	b.OnTick = func(game string, res *planner.TickResult) {
		if len(r.msgs) == 0 {
			cancel()
		}
	}
	err := b.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}

	if len(w.msgs) != 2 {
		t.Fatalf("published %d replies, want 2", len(w.msgs))
	}
	for i, game := range []string{"game-1", "game-2"} {
		m := w.msgs[i]
		if string(m.Key) != game {
			t.Errorf("reply %d has key %q, want %q", i, m.Key, game)
		}
		var out []map[string]interface{}
		if err := json.Unmarshal(m.Value, &out); err != nil {
			t.Fatalf("reply %d: %v", i, err)
		}
		if len(out) != 1 || out[0]["plane_id"] != "A" {
			t.Errorf("reply %d = %v", i, out)
		}
		if len(m.Headers) != 1 || string(m.Headers[0].Value) != wire.ContentTypeJSON {
			t.Errorf("reply %d headers = %v", i, m.Headers)
		}
	}
	if len(r.committed) < 2 || r.committed[0] != 0 || r.committed[1] != 1 {
		t.Errorf("committed offsets %v, want the malformed one committed too", r.committed)
	}
	if b.Games() != 2 {
		t.Errorf("tracking %d games, want 2", b.Games())
	}
}

func TestSessionsArePerGame(t *testing.T) {
	b := newBridge(&fakeReader{}, &fakeWriter{})

	if _, err := b.Handle(msg("g1", 0, landing)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Handle(msg("g2", 0, tick)); err != nil {
		t.Fatal(err)
	}
	if got := b.Session("g1").LandedCount; got != 1 {
		t.Errorf("g1 landed count = %d, want 1", got)
	}
	if got := b.Session("g2").LandedCount; got != 0 {
		t.Errorf("g2 landed count = %d, want 0", got)
	}
	if b.Session("g1").Ticks != 1 || b.Session("g2").Ticks != 1 {
		t.Errorf("each game should have seen one tick")
	}
}

func TestSessionCacheEvicts(t *testing.T) {
	cfg := config.DefaultConfig().Planner
	cfg.SessionCacheSize = 1
	b := New(&fakeReader{}, &fakeWriter{}, wire.JSON, planner.New(planner.Options{}, nil), cfg, nil)

	b.Handle(msg("g1", 0, landing))
	b.Handle(msg("g2", 0, tick))
	if b.Games() != 1 {
		t.Fatalf("tracking %d games, want 1", b.Games())
	}
	if got := b.Session("g1").LandedCount; got != 0 {
		t.Errorf("evicted game should start over, landed count = %d", got)
	}
}

func TestHandleContentType(t *testing.T) {
	b := newBridge(&fakeReader{}, &fakeWriter{})

	t.Run("unsupported", func(t *testing.T) {
		_, err := b.Handle(msg("g", 0, tick, kafka.Header{Key: ContentTypeHeader, Value: []byte("text/xml")}))
		if !errors.Is(err, wire.ErrUnsupportedContentType) {
			t.Errorf("expected ErrUnsupportedContentType, got %v", err)
		}
	})

	t.Run("msgpack", func(t *testing.T) {
		frame, err := wire.DecodeTick(wire.JSON, []byte(tick))
		if err != nil {
			t.Fatal(err)
		}
		data, err := wire.EncodeTick(wire.Msgpack, frame.State)
		if err != nil {
			t.Fatal(err)
		}
		reply, err := b.Handle(msg("g", 0, string(data), kafka.Header{Key: ContentTypeHeader, Value: []byte(wire.ContentTypeMsgpack)}))
		if err != nil {
			t.Fatal(err)
		}
		var out []wire.Decision
		if err := wire.Msgpack.Unmarshal(reply.Value, &out); err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].PlaneID.Value != "A" {
			t.Errorf("unexpected reply %+v", out)
		}
	})
}

func TestRunStopsOnPublishError(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{msg("g", 7, tick)}}
	w := &fakeWriter{err: errors.New("broker down")}
	b := newBridge(r, w)

	err := b.Run(context.Background())
	if err == nil || !errors.Is(err, w.err) {
		t.Fatalf("Run returned %v, want the publish error", err)
	}
	if len(r.committed) != 0 {
		t.Errorf("offset should not be committed when publishing fails, committed %v", r.committed)
	}

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if !r.closed || !w.closed {
		t.Error("Close should close both reader and writer")
	}
}
