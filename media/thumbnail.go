package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const thumbnailJPEGQuality = 80

// Thumbnail decodes the given image bytes, scales the image down so that
// neither dimension exceeds maxSize while preserving the aspect ratio, and
// re-encodes the result as JPEG. A byte stream that cannot be decoded as an
// image yields an error and no output.
func Thumbnail(data []byte, maxSize int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
