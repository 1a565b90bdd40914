// Package replay records tick snapshots and the decisions made for them,
// and reads them back. A recording is a stream of msgpack-encoded Records
// compressed with zstd.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"atc-planner/internal/wire"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

type Record struct {
	Tick      int             `msgpack:"tick"`
	// Holding is the planner's holding option when the tick was planned.
	Holding   bool            `msgpack:"holding"`
	State     wire.Tick       `msgpack:"state"`
	Decisions []wire.Decision `msgpack:"decisions"`
}

type Writer struct {
	zw  *zstd.Encoder
	enc *msgpack.Encoder
	f   io.Closer
}

func NewWriter(w io.Writer) (*Writer, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	return &Writer{zw: zw, enc: msgpack.NewEncoder(zw)}, nil
}

// Create opens path for writing, truncating any earlier recording.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.f = f
	return w, nil
}

func (w *Writer) Write(r Record) error {
	if err := w.enc.Encode(&r); err != nil {
		return fmt.Errorf("failed to encode tick %d: %w", r.Tick, err)
	}
	return nil
}

// Close flushes the compressed stream. It also closes the file if the
// Writer came from Create.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

type Reader struct {
	zr  *zstd.Decoder
	dec *msgpack.Decoder
	f   io.Closer
}

func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return &Reader{zr: zr, dec: msgpack.NewDecoder(zr)}, nil
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// Next returns the next record, or io.EOF once the recording is done.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

func (r *Reader) Close() error {
	r.zr.Close()
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return recs, nil
		} else if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}
