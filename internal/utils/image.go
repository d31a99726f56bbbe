package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// MakeThumbnail scales data down to fit within maxSize x maxSize, keeping the aspect ratio
// and the source encoding. Images already within bounds are re-encoded unchanged.
func MakeThumbnail(data []byte, maxSize uint) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}

	thumb := resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := EncodeImage(thumb, format, &buf, 85); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), format, nil
}

func EncodeImage(img image.Image, format string, writer io.Writer, quality int) error {
	switch format {
	case "jpg", "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(writer, img)
	default:
		return ErrUnsupportedImage
	}
}
