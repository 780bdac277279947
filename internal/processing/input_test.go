package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cfg := []byte("cfg")
	dat := []byte("dat")
	cff := []byte("cff")

	tests := []struct {
		name     string
		input    Input
		wantKind ShapeKind
		wantErr  bool
	}{
		{"combined only", Input{Combined: cff}, ShapeCombined, false},
		{"split pair", Input{Config: cfg, Data: dat}, ShapeSplit, false},
		{"combined wins over pair", Input{Combined: cff, Config: cfg, Data: dat}, ShapeCombined, false},
		{"empty combined is present", Input{Combined: []byte{}}, ShapeCombined, false},
		{"empty pair is present", Input{Config: []byte{}, Data: []byte{}}, ShapeSplit, false},
		{"config only", Input{Config: cfg}, ShapeInvalid, true},
		{"data only", Input{Data: dat}, ShapeInvalid, true},
		{"nothing", Input{}, ShapeInvalid, true},
		{"encoding alone", Input{Encoding: "latin1"}, ShapeInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.input.Kind())

			shape, err := Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindInvalidInputShape, KindOf(err))
				assert.Equal(t, invalidShapeMessage, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, shape.Kind)
		})
	}
}

func TestNormalize_CombinedIsNotDecoded(t *testing.T) {
	raw := []byte("STR\xd6M")
	shape, err := Normalize(Input{Combined: raw, Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, raw, shape.Combined)
	assert.Equal(t, "utf-8", shape.Charset.Name)
}

func TestNormalize_DecodesConfig(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		want     string
	}{
		{"latin1 label", "latin1", "STRÖM"},
		{"no label defaults to utf-8", "", "STR�M"},
		{"unknown label falls back to utf-8", "no-such-charset", "STR�M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, err := Normalize(Input{Config: []byte("STR\xd6M"), Data: []byte{}, Encoding: tt.encoding})
			require.NoError(t, err)
			assert.Equal(t, ShapeSplit, shape.Kind)
			assert.Equal(t, tt.want, string(shape.Config))
		})
	}
}

func TestShapeKindString(t *testing.T) {
	assert.Equal(t, "combined", ShapeCombined.String())
	assert.Equal(t, "split", ShapeSplit.String())
	assert.Equal(t, "invalid", ShapeInvalid.String())
}

func TestInputSize(t *testing.T) {
	in := Input{Combined: make([]byte, 3), Config: make([]byte, 4), Data: make([]byte, 5)}
	assert.Equal(t, 12, in.Size())
}
