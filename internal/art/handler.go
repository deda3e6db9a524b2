// Package art serves Atelier's procedurally generated images: a seeded
// random pixel field and a Julia-set fractal, both encoded as PNG.
package art

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/cmplx"
	mrand "math/rand/v2"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/apperror"
)

// maxDimension caps requested image sizes so a single request cannot ask the
// server to allocate an arbitrarily large buffer.
const maxDimension = 4000

// Handler renders the art endpoints. Stateless; the generators are pure
// functions of their query parameters.
type Handler struct{}

// NewHandler creates the art handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Random serves GET /art: a width x height field of red-tinted random
// pixels. The same seed always yields the same image; without a seed a
// random one is drawn per request.
func (h *Handler) Random(c echo.Context) error {
	width, err := dimensionParam(c, "width", 400)
	if err != nil {
		return err
	}
	height, err := dimensionParam(c, "height", 400)
	if err != nil {
		return err
	}
	seed, err := seedParam(c)
	if err != nil {
		return err
	}

	return servePNG(c, RandomImage(width, height, seed))
}

// Fractal serves GET /fractal_art: a Julia set over a red/blue gradient.
func (h *Handler) Fractal(c echo.Context) error {
	width, err := dimensionParam(c, "width", 800)
	if err != nil {
		return err
	}
	height, err := dimensionParam(c, "height", 800)
	if err != nil {
		return err
	}

	return servePNG(c, FractalImage(width, height))
}

// RandomImage generates the seeded random pixel field. Red dominates; green
// and blue stay in a dim band, giving the characteristic ember look.
func RandomImage(width, height int, seed uint64) *image.RGBA {
	rng := mrand.New(mrand.NewPCG(seed, 0))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.IntN(256)),
				G: uint8(rng.IntN(26)),
				B: uint8(rng.IntN(26)),
				A: 255,
			})
		}
	}
	return img
}

// FractalImage renders the Julia set for c = -0.4 + 0.6i. Each pixel starts
// from its own point on the complex plane; the escape iteration count lands
// in the green channel over a red/blue position gradient.
func FractalImage(width, height int) *image.RGBA {
	scaleX := 3.0 / float64(width)
	scaleY := 3.0 / float64(height)
	julia := complex(-0.4, 0.6)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			z := complex(float64(y)*scaleX-1.5, float64(x)*scaleY-1.5)

			var i uint8
			for i < 255 && cmplx.Abs(z) <= 2.0 {
				z = z*z + julia
				i++
			}

			img.SetRGBA(x, y, color.RGBA{
				R: uint8(0.3 * float64(x)),
				G: i,
				B: uint8(0.3 * float64(y)),
				A: 255,
			})
		}
	}
	return img
}

// servePNG encodes the image and writes it with the PNG content type.
func servePNG(c echo.Context, img *image.RGBA) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return apperror.NewInternal(fmt.Errorf("encoding png: %w", err))
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// dimensionParam reads a bounded positive integer query parameter, falling
// back to def when absent.
func dimensionParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > maxDimension {
		return 0, apperror.NewBadRequest(fmt.Sprintf("%s must be between 1 and %d", name, maxDimension))
	}
	return v, nil
}

// seedParam reads the seed query parameter, drawing a random seed when the
// client doesn't supply one.
func seedParam(c echo.Context) (uint64, error) {
	raw := c.QueryParam("seed")
	if raw == "" {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return 0, apperror.NewInternal(fmt.Errorf("drawing art seed: %w", err))
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewBadRequest("seed must be an unsigned integer")
	}
	return v, nil
}
