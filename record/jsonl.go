// SPDX-License-Identifier: MIT

package record

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/klauspost/compress/zstd"

	"github.com/katalvlaran/recom/partition"
)

// ErrMalformedRecord indicates a line that is not a JSON array of integers.
var ErrMalformedRecord = errors.New("record: malformed assignment record")

// maxLineBytes bounds one record line.
const maxLineBytes = 64 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	compress bool
	level    zstd.EncoderLevel
}

// WithCompression zstd-compresses the stream at the given level.
func WithCompression(level zstd.EncoderLevel) WriterOption {
	return func(c *writerConfig) {
		c.compress = true
		c.level = level
	}
}

// Writer appends one assignment record per line.
type Writer struct {
	buf *bufio.Writer
	zw  *zstd.Encoder
	enc *json.Encoder
	n   int
}

// NewWriter wraps w. Close must be called to flush buffered and compressed data;
// it does not close w.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := &Writer{}
	sink := w
	if cfg.compress {
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(cfg.level))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		out.zw = zw
		sink = zw
	}
	out.buf = bufio.NewWriter(sink)
	out.enc = json.NewEncoder(out.buf)

	return out, nil
}

// Write appends one assignment.
func (w *Writer) Write(assignment []int) error {
	if err := w.enc.Encode(assignment); err != nil {
		return fmt.Errorf("record %d: %w", w.n, err)
	}
	w.n++

	return nil
}

// WritePlan appends the assignment of p.
func (w *Writer) WritePlan(p *partition.Plan) error { return w.Write(p.Assignment()) }

// Count returns the number of records written.
func (w *Writer) Count() int { return w.n }

// Close flushes all pending output.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.zw != nil {
		return w.zw.Close()
	}

	return nil
}

// WriteChain drains plans into w and returns the number of records written.
func WriteChain(w *Writer, plans iter.Seq2[int, *partition.Plan]) (int, error) {
	n := 0
	for _, p := range plans {
		if err := w.WritePlan(p); err != nil {
			return n, err
		}
		n++
	}

	return n, nil
}

// Reader iterates assignment records.
type Reader struct {
	sc   *bufio.Scanner
	zr   *zstd.Decoder
	cur  []int
	line int
	err  error
}

// NewReader wraps r, transparently decompressing zstd input.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	out := &Reader{}
	var src io.Reader = br
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		out.zr = zr
		src = zr
	}
	out.sc = bufio.NewScanner(src)
	out.sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	return out, nil
}

// Next decodes the next record. Blank lines are skipped.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var a []int
		if err := json.Unmarshal(line, &a); err != nil {
			r.err = fmt.Errorf("line %d: %w: %v", r.line, ErrMalformedRecord, err)
			return false
		}
		r.cur = a
		return true
	}
	r.err = r.sc.Err()

	return false
}

// Assignment returns the current record.
func (r *Reader) Assignment() []int { return r.cur }

// Err returns the first read or decode error.
func (r *Reader) Err() error { return r.err }

// Close releases decompression resources.
func (r *Reader) Close() {
	if r.zr != nil {
		r.zr.Close()
	}
}
