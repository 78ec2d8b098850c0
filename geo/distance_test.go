package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineSamePoint(t *testing.T) {
	points := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 13.360, Lng: 74.780},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: -179.9},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, Haversine(p, p))
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{Lat: 13.360, Lng: 74.780}
	b := Point{Lat: 13.358, Lng: 74.785}

	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-12)
	assert.Greater(t, Haversine(a, b), 0.0)
}

func TestHaversineKnownDistances(t *testing.T) {
	// one degree of longitude on the equator
	assert.InDelta(t, 111.19, Haversine(Point{0, 0}, Point{0, 1}), 0.01)

	// London to Paris
	london := Point{Lat: 51.5074, Lng: -0.1278}
	paris := Point{Lat: 48.8566, Lng: 2.3522}
	assert.InDelta(t, 343.5, Haversine(london, paris), 1.0)

	// antipodes
	assert.InDelta(t, EarthRadiusKm*3.141592653589793, Haversine(Point{0, 0}, Point{0, 180}), 1e-6)
}

func TestHaversineNearAntipodal(t *testing.T) {
	maxDistance := EarthRadiusKm * math.Pi

	for lat := -89.99; lat <= 89.99; lat += 0.01 {
		a := Point{Lat: lat, Lng: 10}
		b := Point{Lat: -lat + 1e-7, Lng: -170}

		d := Haversine(a, b)
		require.False(t, math.IsNaN(d), "distance between %v and %v", a, b)
		assert.InDelta(t, maxDistance, d, 0.1)
	}
}
