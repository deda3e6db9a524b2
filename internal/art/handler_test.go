package art

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/apperror"
)

func getImage(t *testing.T, h func(echo.Context) error, target string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func TestRandom_ServesPNG(t *testing.T) {
	h := NewHandler()

	rec, err := getImage(t, h.Random, "/art?width=32&height=24&seed=1")
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 32 || bounds.Dy() != 24 {
		t.Errorf("expected 32x24 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRandom_DefaultDimensions(t *testing.T) {
	h := NewHandler()

	rec, err := getImage(t, h.Random, "/art?seed=1")
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a decodable PNG: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 400 {
		t.Errorf("expected 400x400 default, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRandom_SeedDeterminism(t *testing.T) {
	h := NewHandler()

	recA, err := getImage(t, h.Random, "/art?width=16&height=16&seed=42")
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	recB, err := getImage(t, h.Random, "/art?width=16&height=16&seed=42")
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if !bytes.Equal(recA.Body.Bytes(), recB.Body.Bytes()) {
		t.Error("expected identical bytes for the same seed")
	}

	recC, err := getImage(t, h.Random, "/art?width=16&height=16&seed=43")
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if bytes.Equal(recA.Body.Bytes(), recC.Body.Bytes()) {
		t.Error("expected different bytes for a different seed")
	}
}

func TestFractal_ServesPNG(t *testing.T) {
	h := NewHandler()

	rec, err := getImage(t, h.Fractal, "/fractal_art?width=20&height=30")
	if err != nil {
		t.Fatalf("Fractal failed: %v", err)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a decodable PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 30 {
		t.Errorf("expected 20x30 image, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestFractal_Deterministic(t *testing.T) {
	// The fractal takes no seed; equal dimensions always give equal bytes.
	h := NewHandler()

	recA, err := getImage(t, h.Fractal, "/fractal_art?width=16&height=16")
	if err != nil {
		t.Fatalf("Fractal failed: %v", err)
	}
	recB, err := getImage(t, h.Fractal, "/fractal_art?width=16&height=16")
	if err != nil {
		t.Fatalf("Fractal failed: %v", err)
	}
	if !bytes.Equal(recA.Body.Bytes(), recB.Body.Bytes()) {
		t.Error("expected identical bytes for identical dimensions")
	}
}

func TestArt_BadParams(t *testing.T) {
	h := NewHandler()

	tests := []struct {
		name    string
		handler func(echo.Context) error
		target  string
	}{
		{"zero width", h.Random, "/art?width=0"},
		{"negative height", h.Random, "/art?height=-5"},
		{"oversized width", h.Random, "/art?width=4001"},
		{"non-numeric width", h.Random, "/art?width=banana"},
		{"negative seed", h.Random, "/art?seed=-1"},
		{"non-numeric seed", h.Random, "/art?seed=banana"},
		{"fractal zero height", h.Fractal, "/fractal_art?height=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := getImage(t, tt.handler, tt.target)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
				t.Errorf("expected bad request error, got %v", err)
			}
		})
	}
}
