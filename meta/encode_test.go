/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package meta

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	values := []Value{
		Count(3),
		Text("tab\there"),
		Text(""),
		Int(-42),
		Float(6.02e23),
		Bool(true),
		Time(strfmt.DateTime(time.Date(2023, 11, 5, 8, 30, 15, 250e6, time.UTC))),
		Bytes([]byte{0, 255, 16}),
	}

	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			kind, text, err := Encode(v)
			require.NoError(t, err)
			assert.Equal(t, v.Kind().String(), kind)

			back, err := Decode(kind, text)
			require.NoError(t, err)
			assert.True(t, v.Equal(back), "%#v decoded as %#v", v, back)
		})
	}
}

func TestEncodeAbsent(t *testing.T) {
	_, _, err := Encode(Absent())
	assert.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct{ kind, text string }{
		{"colour", "red"},
		{"absent", ""},
		{"int", "x"},
		{"count", "-"},
		{"float", "x"},
		{"bool", "x"},
		{"timestamp", "x"},
		{"bytes", "%"},
	}
	for _, tt := range tests {
		_, err := Decode(tt.kind, tt.text)
		assert.Error(t, err, "%s %q", tt.kind, tt.text)
	}
}

func TestEncodeTimestampPrecision(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.FixedZone("CET", 3600))
	kind, text, err := Encode(Time(strfmt.DateTime(ts)))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T02:04:05.123456789Z", text)

	back, err := Decode(kind, text)
	require.NoError(t, err)
	got, ok := back.AsTime()
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Time(got)), "nanoseconds survive, got %s", time.Time(got))

	legacy, err := Decode("timestamp", "2023-11-05T08:30:15.250Z")
	require.NoError(t, err)
	assert.True(t, legacy.Equal(Time(strfmt.DateTime(time.Date(2023, 11, 5, 8, 30, 15, 250e6, time.UTC)))))
}
