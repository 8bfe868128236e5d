package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/pkg/math"
)

func TestScreenshotCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "humangl")
	sc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.RGBA{R: 255, A: 255})

	first, err := sc.Capture(img)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	want := filepath.Join(dir, "humangl_2024-03-01_12-30-00.png")
	if first != want {
		t.Errorf("Capture() = %s, want %s", first, want)
	}

	second, err := sc.Capture(img)
	if err != nil {
		t.Fatalf("second Capture() error = %v", err)
	}
	if second != filepath.Join(dir, "humangl_2024-03-01_12-30-00_2.png") {
		t.Errorf("second Capture() = %s, want a numbered name", second)
	}

	f, err := os.Open(first)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if r, _, _, _ := decoded.At(1, 0).RGBA(); r != 0xffff {
		t.Errorf("pixel (1,0) red = %#x, want 0xffff", r)
	}
}

func TestScreenshotCaptureRejectsEmpty(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x")
	if _, err := sc.Capture(image.NewRGBA(image.Rectangle{})); err == nil {
		t.Error("Capture() of an empty image should fail")
	}
}

func TestBBoxWireframe(t *testing.T) {
	b := model.Bounds{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	world := math.Translate(math.Vec3{X: 10})

	v := BBoxWireframe(b, world)
	if len(v) != BBoxWireframeVertexCount*3 {
		t.Fatalf("got %d floats, want %d", len(v), BBoxWireframeVertexCount*3)
	}
	for i := 0; i < len(v); i += 3 {
		if v[i] != 9 && v[i] != 11 {
			t.Errorf("vertex %d x = %v, want 9 or 11", i/3, v[i])
		}
	}

	// Every edge has unit length 2 along exactly one axis.
	for i := 0; i < len(v); i += 6 {
		a := math.Vec3{X: v[i], Y: v[i+1], Z: v[i+2]}
		c := math.Vec3{X: v[i+3], Y: v[i+4], Z: v[i+5]}
		if d := a.Distance(c); d != 2 {
			t.Errorf("edge %d length = %v, want 2", i/6, d)
		}
	}

	if BBoxWireframe(model.EmptyBounds(), math.Identity()) != nil {
		t.Error("empty bounds should produce no lines")
	}
}
