package recicla_test

import (
	"testing"

	"github.com/reciclamais/recicla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceArea_Validate(t *testing.T) {
	area := recicla.DefaultServiceArea

	tests := []struct {
		name    string
		lat     string
		lng     string
		want    recicla.Point
		wantErr bool
	}{
		{name: "city center", lat: "-3.7319", lng: "-38.5267", want: recicla.Point{Lat: -3.7319, Lng: -38.5267}},
		{name: "padded", lat: " -3.7 ", lng: "\t-38.5", want: recicla.Point{Lat: -3.7, Lng: -38.5}},
		{name: "south west corner", lat: "-3.8", lng: "-38.7", want: recicla.Point{Lat: -3.8, Lng: -38.7}},
		{name: "north east corner", lat: "-3.6", lng: "-38.4", want: recicla.Point{Lat: -3.6, Lng: -38.4}},
		{name: "too far south", lat: "-3.81", lng: "-38.5", wantErr: true},
		{name: "too far east", lat: "-3.7", lng: "-38.39", wantErr: true},
		{name: "swapped", lat: "-38.5", lng: "-3.7", wantErr: true},
		{name: "missing latitude", lat: "", lng: "-38.5", wantErr: true},
		{name: "not a number", lat: "abc", lng: "-38.5", wantErr: true},
		{name: "NaN", lat: "NaN", lng: "-38.5", wantErr: true},
		{name: "infinite", lat: "-3.7", lng: "-Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := area.Validate(tt.lat, tt.lng)
			if tt.wantErr {
				assert.Equal(t, recicla.EINVALID, recicla.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceArea_ValidatePoint(t *testing.T) {
	_, err := recicla.DefaultServiceArea.ValidatePoint(recicla.Point{Lat: -3.7, Lng: -38.5})
	assert.NoError(t, err)

	_, err = recicla.DefaultServiceArea.ValidatePoint(recicla.Point{Lat: -23.55, Lng: -46.63})
	assert.Contains(t, recicla.ErrorMessage(err), "Fortaleza")
}

func TestBoundingBoxAround(t *testing.T) {
	box := recicla.BoundingBoxAround(recicla.Point{Lat: -3.7, Lng: -38.5}, 2000)

	assert.InDelta(t, -3.718, box.MinLat, 1e-9)
	assert.InDelta(t, -3.682, box.MaxLat, 1e-9)
	assert.InDelta(t, -38.518, box.MinLng, 1e-9)
	assert.InDelta(t, -38.482, box.MaxLng, 1e-9)

	assert.True(t, box.Contains(recicla.Point{Lat: -3.7, Lng: -38.5}))
	assert.False(t, box.Contains(recicla.Point{Lat: -3.72, Lng: -38.5}))
}
