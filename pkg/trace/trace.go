// Package trace records and replays detection sessions.
//
// A trace is JSON Lines: one record per tick with the tick's offset from
// session start and the detections observed. Traces captured with
// `sightline run --record` can be re-run deterministically with
// `sightline replay`.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

// Detection is the wire form of one detection.
type Detection struct {
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"box"` // x1, y1, x2, y2, normalized
}

// Record is one tick of a recorded session.
type Record struct {
	// Offset is seconds from session start.
	Offset float64 `json:"offset"`

	Detections []Detection `json:"detections"`
}

// FromFrame converts a detection frame into a trace record.
func FromFrame(offset time.Duration, frame []vision.Detection) Record {
	rec := Record{
		Offset:     offset.Seconds(),
		Detections: make([]Detection, len(frame)),
	}
	for i, d := range frame {
		rec.Detections[i] = Detection{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box:        [4]float64{d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2},
		}
	}
	return rec
}

// Frame converts a record back into a detection frame.
func (r Record) Frame() []vision.Detection {
	frame := make([]vision.Detection, len(r.Detections))
	for i, d := range r.Detections {
		frame[i] = vision.Detection{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box: vision.BBox{
				X1: d.Box[0], Y1: d.Box[1],
				X2: d.Box[2], Y2: d.Box[3],
			},
		}
	}
	return frame
}

// Writer appends records to a trace stream.
type Writer struct {
	enc *json.Encoder
}

// NewWriter creates a trace writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("write trace record: %w", err)
	}
	return nil
}

// Reader reads records from a trace stream.
type Reader struct {
	dec *json.Decoder
}

// NewReader creates a trace reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

// Read returns the next record. It returns io.EOF at end of stream.
func (r *Reader) Read() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return rec, io.EOF
		}
		return rec, fmt.Errorf("read trace record: %w", err)
	}
	return rec, nil
}
