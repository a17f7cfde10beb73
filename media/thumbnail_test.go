package media

import (
	"bytes"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailBoundsAndAspectRatio(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{"landscape", 640, 320, 128, 64},
		{"portrait", 320, 640, 64, 128},
		{"square", 500, 500, 128, 128},
		{"already small", 100, 50, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := imageBytes(t, imaging.PNG, tt.width, tt.height)

			thumb, err := Thumbnail(data, 128)
			require.NoError(t, err)

			img, err := imaging.Decode(bytes.NewReader(thumb))
			require.NoError(t, err)
			bounds := img.Bounds()
			assert.Equal(t, tt.wantWidth, bounds.Dx())
			assert.Equal(t, tt.wantHeight, bounds.Dy())
		})
	}
}

func TestThumbnailOutputIsJPEG(t *testing.T) {
	thumb, err := Thumbnail(imageBytes(t, imaging.PNG, 256, 256), 128)
	require.NoError(t, err)

	// JPEG SOI marker
	require.True(t, len(thumb) >= 2)
	assert.Equal(t, []byte{0xff, 0xd8}, thumb[:2])
}

func TestThumbnailRejectsMalformedBytes(t *testing.T) {
	_, err := Thumbnail([]byte("definitely not an image"), 128)
	assert.Error(t, err)
}

func TestThumbnailRejectsTruncatedImage(t *testing.T) {
	data := imageBytes(t, imaging.JPEG, 256, 256)

	_, err := Thumbnail(data[:len(data)/2], 128)
	assert.Error(t, err)
}
