package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestDecodeFormats(t *testing.T) {
	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, checker()); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, checker()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{"png", pngBuf.Bytes(), FormatPNG},
		{"bmp", bmpBuf.Bytes(), FormatBMP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := Detect(tt.data)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if format != tt.format {
				t.Errorf("expected %s, got %s", tt.format, format)
			}

			img, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Rect.Dx() != 2 || img.Rect.Dy() != 2 {
				t.Fatalf("unexpected size %v", img.Rect)
			}
			if got := img.RGBAAt(1, 0); got.G != 255 || got.R != 0 {
				t.Errorf("unexpected pixel (1,0): %v", got)
			}
		})
	}
}

func TestDecodeRejectsUnknown(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("expected an error")
	}
}

func TestWhite(t *testing.T) {
	img := White()
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white, got %v", got)
	}
}

func TestFlipVertical(t *testing.T) {
	img := ToRGBA(checker())
	FlipVertical(img)
	if got := img.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("expected blue at top left after flip, got %v", got)
	}
	if got := img.RGBAAt(0, 1); got.R != 255 || got.G != 0 {
		t.Errorf("expected red at bottom left after flip, got %v", got)
	}
}
