package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	for x := 0; x < 800; x++ {
		src.Set(x, x%400, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	thumb, format, err := MakeThumbnail(buf.Bytes(), 200)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	dims, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 200, dims.Width)
	assert.Equal(t, 100, dims.Height)
}

func TestMakeThumbnail_RejectsGarbage(t *testing.T) {
	_, _, err := MakeThumbnail([]byte("not an image"), 100)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "d***r@example.org", MaskEmail("donor@example.org"))
	assert.Equal(t, "ab@example.org", MaskEmail("ab@example.org"))
}
