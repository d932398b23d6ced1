package media

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

const (
	MaxUploadBytes = 5 << 20
	webpQuality    = 82
)

var ErrInvalidImage = httperr.Validation("invalid_image", "Imagem inválida. Envie JPEG, PNG ou WebP.")

// Decode lê JPEG, PNG ou WebP.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, ErrInvalidImage
	}
	return img, nil
}

// Fit reduz a imagem para caber em maxSide x maxSide mantendo a proporção.
func Fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	nw, nh := maxSide, maxSide
	if w >= h {
		nh = h * maxSide / w
	} else {
		nw = w * maxSide / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// ToWebP decodifica, redimensiona e recodifica em WebP.
func ToWebP(r io.Reader, maxSide int) ([]byte, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, Fit(img, maxSide), &webp.Options{Quality: webpQuality}); err != nil {
		return nil, errors.Join(errors.New("media: encode webp"), err)
	}
	return buf.Bytes(), nil
}
