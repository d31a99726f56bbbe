package qrcode

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	qr "github.com/skip2/go-qrcode"
)

const (
	DefaultSize   = 300
	dataURLPrefix = "data:image/png;base64,"
)

// Renderer turns a payload into an embeddable PNG data URL.
type Renderer interface {
	DataURL(ctx context.Context, payload string) (string, error)
}

type PNGRenderer struct {
	size int
}

func NewPNGRenderer(size int) *PNGRenderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &PNGRenderer{size: size}
}

func (r *PNGRenderer) DataURL(ctx context.Context, payload string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if payload == "" {
		return "", errors.New("empty qr payload")
	}

	png, err := qr.Encode(payload, qr.Medium, r.size)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode qr code")
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
