package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingURL(t *testing.T) {
	assert.Equal(t, "https://food.example/api/v1/user/orders/o-1/track", TrackingURL("https://food.example/", "o-1"))
}

func TestTrackingPNG(t *testing.T) {
	raw, err := TrackingPNG("http://localhost:8080", "o-1", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}
