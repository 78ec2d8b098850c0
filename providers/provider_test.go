package providers

import (
	"testing"

	"github.com/acikkaynak/needs-board-go/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailableNearest(t *testing.T) {
	t.Run("picks the closest available provider", func(t *testing.T) {
		reg := NewRegistry([]Provider{
			{ID: 1, Name: "far", Location: geo.Point{Lat: 14, Lng: 75}, Available: true},
			{ID: 2, Name: "near", Location: geo.Point{Lat: 13.36, Lng: 74.78}, Available: true},
		})

		p, d, ok := reg.FindAvailableNearest(geo.Point{Lat: 13.36, Lng: 74.78})

		require.True(t, ok)
		assert.Equal(t, "near", p.Name)
		assert.Equal(t, 0.0, d)
	})

	t.Run("skips unavailable providers", func(t *testing.T) {
		reg := NewRegistry([]Provider{
			{ID: 1, Name: "busy", Location: geo.Point{Lat: 13.36, Lng: 74.78}, Available: false},
			{ID: 2, Name: "free", Location: geo.Point{Lat: 14, Lng: 75}, Available: true},
		})

		p, _, ok := reg.FindAvailableNearest(geo.Point{Lat: 13.36, Lng: 74.78})

		require.True(t, ok)
		assert.Equal(t, "free", p.Name)
	})

	t.Run("first provider wins ties", func(t *testing.T) {
		reg := NewRegistry([]Provider{
			{ID: 1, Name: "first", Location: geo.Point{Lat: 1, Lng: 0}, Available: true},
			{ID: 2, Name: "second", Location: geo.Point{Lat: -1, Lng: 0}, Available: true},
		})

		p, _, ok := reg.FindAvailableNearest(geo.Point{Lat: 0, Lng: 0})

		require.True(t, ok)
		assert.Equal(t, "first", p.Name)
	})

	t.Run("nobody available", func(t *testing.T) {
		reg := NewRegistry([]Provider{{ID: 1, Name: "busy", Available: false}})

		p, _, ok := reg.FindAvailableNearest(geo.Point{})

		assert.False(t, ok)
		assert.Nil(t, p)
	})
}

func TestReleaseByName(t *testing.T) {
	reg := NewRegistry([]Provider{
		{ID: 1, Name: "dup", Available: false},
		{ID: 2, Name: "dup", Available: false},
	})

	assert.True(t, reg.ReleaseByName("dup"))
	assert.False(t, reg.ReleaseByName("ghost"))

	roster := reg.List()
	assert.True(t, roster[0].Available)
	assert.False(t, roster[1].Available)
}

func TestAuthenticate(t *testing.T) {
	reg := NewRegistry(DefaultRoster())

	p, err := reg.Authenticate("sneha", "sneha123")
	require.NoError(t, err)
	assert.Equal(t, "Sneha", p.Name)

	_, err = reg.Authenticate("sneha", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = reg.Authenticate("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListIsSnapshot(t *testing.T) {
	reg := NewRegistry(DefaultRoster())

	roster := reg.List()
	roster[0].Available = false

	assert.Equal(t, 2, reg.AvailableCount())
	assert.True(t, reg.List()[0].Available)
}
