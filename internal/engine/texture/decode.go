// Package texture decodes material images and uploads them as GL textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for images that are not PNG, JPEG, BMP,
// GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is a detected image container.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatBMP  Format = "bmp"
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
)

// Detect sniffs the container from the leading bytes. The declared MIME
// type of a glTF image is only a hint, so the content decides.
func Detect(data []byte) (Format, error) {
	kind, err := filetype.Image(data)
	if err != nil {
		return "", fmt.Errorf("detect image type: %w", err)
	}
	switch Format(kind.Extension) {
	case FormatPNG, FormatJPEG, FormatBMP, FormatGIF, FormatWebP:
		return Format(kind.Extension), nil
	}
	if kind == filetype.Unknown {
		return "", ErrUnsupportedFormat
	}
	return "", fmt.Errorf("%s: %w", kind.MIME.Value, ErrUnsupportedFormat)
}

// Decode decodes an encoded image into RGBA.
func Decode(data []byte) (*image.RGBA, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data)
	var img image.Image
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatWebP:
		img, err = webp.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// White returns a 1x1 opaque white image, the stand-in for textures that
// failed to load.
func White() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = 255, 255, 255, 255
	return img
}

// FlipVertical mirrors rows in place. GL expects the first row at the
// bottom.
func FlipVertical(img *image.RGBA) {
	h := img.Rect.Dy()
	rowLen := img.Rect.Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
