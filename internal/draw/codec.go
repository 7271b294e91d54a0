package draw

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Codec: encodes and decodes draw messages in their JSON wire form
type Codec struct {
	validator *Validator
}

func NewCodec(v *Validator) *Codec {
	if v == nil {
		v = NewValidator()
	}
	return &Codec{validator: v}
}

var defaultCodec = NewCodec(nil)

// Decode parses a wire message with the default codec
func Decode(data []byte) (Message, error) {
	return defaultCodec.Decode(data)
}

// Encode serializes a message with the default codec
func Encode(msg Message) ([]byte, error) {
	return defaultCodec.Encode(msg)
}

type envelope struct {
	Type   *string         `json:"type"`
	Params json.RawMessage `json:"params"`
}

// movingParams: pointers so a missing field is told apart from a zero value
type movingParams struct {
	X         *float64 `json:"x" validate:"required,finite"`
	Y         *float64 `json:"y" validate:"required,finite"`
	Timestamp *float64 `json:"timestamp" validate:"required,finite"`
	Color     *string  `json:"color" validate:"omitempty,max=50,color"`
}

// Decode: parses and validates one wire message
func (c *Codec) Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if env.Type == nil || *env.Type == "" {
		return nil, ErrMissingType
	}

	switch MessageType(*env.Type) {
	case TypeMoving:
		return c.decodeMoving(env.Params)
	case TypeEnd:
		return decodeEnd(env.Params)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, *env.Type)
	}
}

func (c *Codec) decodeMoving(raw json.RawMessage) (Message, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("%w: missing params", ErrInvalidParams)
	}

	var wire movingParams
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	if wire.Color != nil {
		// an empty color, or one that was only markup, counts as no color
		if clean := c.validator.SanitizeColor(*wire.Color); clean == "" {
			wire.Color = nil
		} else {
			wire.Color = &clean
		}
	}

	if err := c.validator.check(wire); err != nil {
		return nil, err
	}

	params := OrderedParamsMoving{
		ParamsMoving: ParamsMoving{X: *wire.X, Y: *wire.Y},
		Timestamp:    *wire.Timestamp,
	}
	if wire.Color != nil {
		params.Color = *wire.Color
	}

	return Moving{Params: params}, nil
}

func decodeEnd(raw json.RawMessage) (Message, error) {
	if isNull(raw) {
		return End{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: END params must be an object: %v", ErrInvalidParams, err)
	}
	if len(fields) > 0 {
		return nil, fmt.Errorf("%w: END params must be empty", ErrInvalidParams)
	}
	return End{}, nil
}

// Encode: validates and serializes one message
func (c *Codec) Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case Moving:
		if err := c.validator.ValidateMoving(m.Params); err != nil {
			return nil, err
		}
		return json.Marshal(m)
	case *Moving:
		if m == nil {
			return nil, fmt.Errorf("%w: nil MOVING message", ErrInvalidParams)
		}
		return c.Encode(*m)
	case End, *End:
		return json.Marshal(End{})
	case nil:
		return nil, ErrMissingType
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
