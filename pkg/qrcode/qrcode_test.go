package qrcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGRenderer_DataURL(t *testing.T) {
	url, err := NewPNGRenderer(0).DataURL(context.Background(), "COUPON-AB12-CD34-EF56")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, dataURLPrefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, dataURLPrefix))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestPNGRenderer_Errors(t *testing.T) {
	r := NewPNGRenderer(DefaultSize)

	_, err := r.DataURL(context.Background(), "")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.DataURL(ctx, "COUPON-AB12-CD34-EF56")
	assert.ErrorIs(t, err, context.Canceled)
}
