package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"drawstream/internal/draw"
	"drawstream/internal/middleware"

	"github.com/google/uuid"
)

var (
	ErrStaleTimestamp = errors.New("timestamp older than previous point")
	ErrStrokeTooLong  = errors.New("stroke at maximum point capacity")
)

// Point: one MOVING position inside a stroke
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp float64 `json:"timestamp"`
}

// Stroke is the run of MOVING points closed by an END.
type Stroke struct {
	ID     string  `json:"id"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Start: timestamp of the first point
func (s Stroke) Start() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[0].Timestamp
}

// Finish: timestamp of the last point
func (s Stroke) Finish() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Timestamp
}

// StrokeSink receives every completed stroke
type StrokeSink interface {
	StrokeCompleted(ctx context.Context, s Stroke) error
}

// SinkFunc adapts a function to a StrokeSink
type SinkFunc func(ctx context.Context, s Stroke) error

func (f SinkFunc) StrokeCompleted(ctx context.Context, s Stroke) error {
	return f(ctx, s)
}

// LogSink: logs completed strokes
type LogSink struct {
	StreamID string
}

func (l LogSink) StrokeCompleted(_ context.Context, s Stroke) error {
	log.Printf("Stream %s: stroke %s completed (%d points, color %s, %v..%v)",
		l.StreamID, s.ID, len(s.Points), s.Color, s.Start(), s.Finish())
	return nil
}

// StrokeHandler folds the draw messages of one connection into strokes
type StrokeHandler struct {
	config       *middleware.RateLimit
	sink         StrokeSink
	defaultColor string
	current      *Stroke
	mu           sync.Mutex
}

// NewStrokeHandler: defaultColor is used for strokes whose points carry none
func NewStrokeHandler(config *middleware.RateLimit, sink StrokeSink, defaultColor string) *StrokeHandler {
	return &StrokeHandler{
		config:       config,
		sink:         sink,
		defaultColor: defaultColor,
	}
}

// HandleMoving: appends a point to the stroke in progress
func (h *StrokeHandler) HandleMoving(_ context.Context, p draw.OrderedParamsMoving) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		h.current = &Stroke{ID: uuid.NewString()}
	}
	s := h.current

	if n := len(s.Points); n > 0 && p.Timestamp < s.Points[n-1].Timestamp {
		return fmt.Errorf("%w: %v < %v", ErrStaleTimestamp, p.Timestamp, s.Points[n-1].Timestamp)
	}

	if h.config != nil && !h.config.CanAddPoint(len(s.Points)) {
		return ErrStrokeTooLong
	}

	// first color sent wins for the whole stroke
	if s.Color == "" && p.HasColor() {
		s.Color = p.Color
	}

	s.Points = append(s.Points, Point{X: p.X, Y: p.Y, Timestamp: p.Timestamp})
	return nil
}

// HandleEnd: completes the stroke in progress. END with no stroke is a no-op.
func (h *StrokeHandler) HandleEnd(ctx context.Context) error {
	h.mu.Lock()
	s := h.current
	h.current = nil
	h.mu.Unlock()

	if s == nil {
		return nil
	}
	if s.Color == "" {
		s.Color = h.defaultColor
	}

	if h.sink == nil {
		return nil
	}
	if err := h.sink.StrokeCompleted(ctx, *s); err != nil {
		return fmt.Errorf("complete stroke %s: %w", s.ID, err)
	}
	return nil
}

// Abort: drops the stroke in progress, returns how many points were lost
func (h *StrokeHandler) Abort() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		return 0
	}
	n := len(h.current.Points)
	h.current = nil
	return n
}
