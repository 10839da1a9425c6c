package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaValidation(t *testing.T) {
	tests := []struct {
		name    string
		width   uint8
		split   uint8
		wantErr bool
	}{
		{"valid 8/4", 8, 4, false},
		{"valid 16/8", 16, 8, false},
		{"valid 32/16", 32, 16, false},
		{"valid 32/20", 32, 20, false},
		{"valid 64/32", 64, 32, false},
		{"valid split=1", 8, 1, false},
		{"valid split=width-1", 8, 7, false},
		{"invalid width", 24, 12, true},
		{"split zero", 8, 0, true},
		{"split equals width", 8, 8, true},
		{"split exceeds width", 8, 9, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSchema(tc.width, tc.split)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchemaPresets(t *testing.T) {
	cases := []struct {
		schema      Schema
		width, split uint8
	}{
		{Schema8x4, 8, 4},
		{Schema16x8, 16, 8},
		{Schema32x16, 32, 16},
		{Schema32x20, 32, 20},
		{Schema64x32, 64, 32},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.width, tc.schema.Width)
		assert.Equal(t, tc.split, tc.schema.Split)
	}
	assert.Equal(t, Schema32x20, DefaultSchema)
}

func TestSchemaNullAndMaxEntities(t *testing.T) {
	s, err := NewSchema(8, 4)
	require.NoError(t, err)
	assert.Equal(t, Entity(15), s.Null())
	assert.Equal(t, uint64(15), s.MaxEntities())
}

func TestSchemaComposeIdGenRoundTrip(t *testing.T) {
	s := Schema32x20
	e := s.compose(12345, 7)
	assert.Equal(t, uint64(12345), s.id(e))
	assert.Equal(t, uint64(7), s.gen(e))
}

func TestSchemaNextGenWraps(t *testing.T) {
	s, err := NewSchema(8, 1) // 7-bit generation, max 127
	require.NoError(t, err)

	g := uint64(0)
	for i := 0; i < 127; i++ {
		g = s.nextGen(g)
	}
	assert.Equal(t, uint64(127), g)
	assert.Equal(t, uint64(0), s.nextGen(g))
}

func TestSchema32x20GenerationWraps(t *testing.T) {
	s := Schema32x20
	g := uint64(0)
	max := s.genMask // 2^12 - 1 = 4095
	for i := uint64(0); i <= max; i++ {
		g = s.nextGen(g)
	}
	assert.Equal(t, uint64(0), g)
}
