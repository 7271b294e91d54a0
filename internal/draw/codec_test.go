package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMoving(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"MOVING","params":{"x":10,"y":20,"timestamp":1700000000}}`))
	require.NoError(t, err)

	assert.Equal(t, TypeMoving, msg.Type())
	m, ok := msg.(Moving)
	require.True(t, ok)
	assert.Equal(t, 10.0, m.Params.X)
	assert.Equal(t, 20.0, m.Params.Y)
	assert.Equal(t, 1700000000.0, m.Params.Timestamp)
	assert.False(t, m.Params.HasColor())
}

func TestDecodeMovingZeroValues(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"MOVING","params":{"x":0,"y":0,"timestamp":0}}`))
	require.NoError(t, err)
	assert.Equal(t, Moving{}, msg)
}

func TestDecodeMovingColor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"named", `"red"`, "red"},
		{"hex canonical", `"#ABC"`, "#aabbcc"},
		{"markup stripped", `"<b>blue</b>"`, "blue"},
		{"empty is absent", `""`, ""},
		{"blank is absent", `"   "`, ""},
		{"markup only is absent", `"<b></b>"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"type":"MOVING","params":{"x":1.5,"y":-2,"timestamp":3,"color":` + tt.in + `}}`
			msg, err := Decode([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg.(Moving).Params.Color)
			assert.Equal(t, tt.want != "", msg.(Moving).Params.HasColor())
		})
	}
}

func TestDecodeEnd(t *testing.T) {
	for _, raw := range []string{
		`{"type":"END","params":{}}`,
		`{"type":"END"}`,
		`{"type":"END","params":null}`,
	} {
		msg, err := Decode([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, End{}, msg)
		assert.Equal(t, TypeEnd, msg.Type())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
		msg  string
	}{
		{"not json", `{`, ErrMalformed, ""},
		{"type not a string", `{"type":5}`, ErrMalformed, ""},
		{"missing type", `{"params":{}}`, ErrMissingType, ""},
		{"empty type", `{"type":""}`, ErrMissingType, ""},
		{"unknown type", `{"type":"START","params":{}}`, ErrUnknownType, "START"},
		{"lower case type", `{"type":"moving","params":{"x":1,"y":1,"timestamp":1}}`, ErrUnknownType, ""},
		{"moving without params", `{"type":"MOVING"}`, ErrInvalidParams, "missing params"},
		{"moving missing y and timestamp", `{"type":"MOVING","params":{"x":10}}`, ErrInvalidParams, "'y' is required"},
		{"moving missing timestamp", `{"type":"MOVING","params":{"x":10,"y":20}}`, ErrInvalidParams, "'timestamp' is required"},
		{"moving string coordinate", `{"type":"MOVING","params":{"x":"10","y":20,"timestamp":1}}`, ErrInvalidParams, ""},
		{"moving bad color", `{"type":"MOVING","params":{"x":1,"y":2,"timestamp":1,"color":"red;"}}`, ErrInvalidParams, "'color' is not a valid color"},
		{"moving color not a string", `{"type":"MOVING","params":{"x":1,"y":2,"timestamp":1,"color":7}}`, ErrInvalidParams, ""},
		{"end with payload", `{"type":"END","params":{"x":1}}`, ErrInvalidParams, "must be empty"},
		{"end with array", `{"type":"END","params":[]}`, ErrInvalidParams, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			assert.Nil(t, msg)
			require.ErrorIs(t, err, tt.err)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestDecodeIgnoresUnknownParamFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"MOVING","params":{"x":1,"y":2,"timestamp":3,"pressure":0.4}}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, msg.(Moving).Params.X)
}

func TestEncode(t *testing.T) {
	m, err := NewMoving(OrderedParamsMoving{
		ParamsMoving: ParamsMoving{X: 10, Y: 20},
		Timestamp:    1700000000,
	})
	require.NoError(t, err)

	data, err := Encode(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MOVING","params":{"x":10,"y":20,"timestamp":1700000000}}`, string(data))

	m.Params.Color = "#ff0000"
	data, err = Encode(&m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MOVING","params":{"x":10,"y":20,"color":"#ff0000","timestamp":1700000000}}`, string(data))

	data, err = Encode(NewEnd())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"END","params":{}}`, string(data))
}

func TestEncodeRejectsInvalid(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = Encode((*Moving)(nil))
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Encode(Moving{Params: OrderedParamsMoving{Timestamp: math.NaN()}})
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Contains(t, err.Error(), "'timestamp' must be a finite number")

	_, err = Encode(Moving{Params: OrderedParamsMoving{ParamsMoving: ParamsMoving{Color: "javascript:x"}}})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestRoundTrip(t *testing.T) {
	codec := NewCodec(NewValidator())

	in := []Message{
		Moving{Params: OrderedParamsMoving{ParamsMoving: ParamsMoving{X: -3.25, Y: 1e6, Color: "hsl(10, 50%, 50%)"}, Timestamp: 42.5}},
		End{},
	}
	for _, msg := range in {
		data, err := codec.Encode(msg)
		require.NoError(t, err)

		out, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, msg, out)
	}
}
