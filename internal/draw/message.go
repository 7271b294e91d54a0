package draw

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// MessageType: discriminator carried in the "type" field
type MessageType string

const (
	TypeMoving MessageType = "MOVING"
	TypeEnd    MessageType = "END"
)

var (
	ErrMissingType   = errors.New("missing message type")
	ErrUnknownType   = errors.New("unknown message type")
	ErrInvalidParams = errors.New("invalid message params")
	ErrMalformed     = errors.New("malformed message")
)

// Valid: reports whether t is one of the known message types
func (t MessageType) Valid() bool {
	return t == TypeMoving || t == TypeEnd
}

// ParamsMoving is a pointer position on the canvas. Color is optional; an
// empty string means no color was sent.
type ParamsMoving struct {
	X     float64 `json:"x" validate:"finite"`
	Y     float64 `json:"y" validate:"finite"`
	Color string  `json:"color,omitempty" validate:"omitempty,max=50,color"`
}

// HasColor: reports whether the sender attached a color
func (p ParamsMoving) HasColor() bool {
	return p.Color != ""
}

// OrderedParamsMoving is a ParamsMoving stamped for ordering. The timestamp
// is whatever the sender counts in (epoch millis or a sequence number).
type OrderedParamsMoving struct {
	ParamsMoving
	Timestamp float64 `json:"timestamp" validate:"finite"`
}

// Message is a draw message: exactly one of Moving or End.
type Message interface {
	Type() MessageType
	isDrawMessage()
}

// Moving: a position update within a stroke
type Moving struct {
	Params OrderedParamsMoving
}

// End: terminates the current stroke
type End struct{}

func (Moving) Type() MessageType { return TypeMoving }
func (End) Type() MessageType    { return TypeEnd }

func (Moving) isDrawMessage() {}
func (End) isDrawMessage()    {}

// NewMoving builds a MOVING message. x, y and timestamp must be finite.
func NewMoving(params OrderedParamsMoving) (Moving, error) {
	if err := checkFinite(params); err != nil {
		return Moving{}, err
	}
	return Moving{Params: params}, nil
}

// NewEnd builds an END message
func NewEnd() End {
	return End{}
}

func checkFinite(p OrderedParamsMoving) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"x", p.X},
		{"y", p.Y},
		{"timestamp", p.Timestamp},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: '%s' must be a finite number", ErrInvalidParams, f.name)
		}
	}
	return nil
}

type movingFrame struct {
	Type   MessageType         `json:"type"`
	Params OrderedParamsMoving `json:"params"`
}

type endFrame struct {
	Type   MessageType `json:"type"`
	Params struct{}    `json:"params"`
}

// MarshalJSON: {"type":"MOVING","params":{...}}
func (m Moving) MarshalJSON() ([]byte, error) {
	return json.Marshal(movingFrame{Type: TypeMoving, Params: m.Params})
}

// MarshalJSON: {"type":"END","params":{}}
func (e End) MarshalJSON() ([]byte, error) {
	return json.Marshal(endFrame{Type: TypeEnd})
}
