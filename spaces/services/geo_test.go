package services

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{"same point", -17.8292, 31.0522, -17.8292, 31.0522, 0},
		{"one degree of latitude", 0, 0, 1, 0, 111.195},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 343.56},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("HaversineKm = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	t.Parallel()

	lat, lng, radius := -17.8292, 31.0522, 5.0
	minLat, maxLat, minLng, maxLng := boundingBox(lat, lng, radius)

	edges := [][2]float64{{minLat, lng}, {maxLat, lng}, {lat, minLng}, {lat, maxLng}}
	for _, e := range edges {
		if d := HaversineKm(lat, lng, e[0], e[1]); d < radius-0.01 {
			t.Errorf("edge %v is only %.3f km away, box too small", e, d)
		}
	}

	_, _, minLng, maxLng = boundingBox(89.9999, 0, radius)
	if minLng != -180 || maxLng != 180 {
		t.Errorf("polar box lng = [%f, %f], want full range", minLng, maxLng)
	}
}
