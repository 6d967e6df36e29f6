package scanning

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"math"
	"strings"

	"github.com/gen2brain/heic"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	maxPreprocessDimension = 2000
	contrastFactor         = 1.5
)

// Preprocess prepares a photo for OCR: downscale to at most 2000px on the
// long side, grayscale, stretch contrast around the midpoint and re-encode as
// PNG. Any failure returns the input untouched.
func Preprocess(data []byte, mimeType string) (out []byte, outMime string) {
	defer func() {
		if r := recover(); r != nil {
			out, outMime = data, mimeType
		}
	}()

	img, err := DecodeImage(data, mimeType)
	if err != nil {
		return data, mimeType
	}

	img = downscale(img, maxPreprocessDimension)
	gray := contrastGray(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return data, mimeType
	}
	return buf.Bytes(), "image/png"
}

// DecodeImage decodes JPEG, PNG, GIF, WebP and HEIC/HEIF images.
func DecodeImage(data []byte, mimeType string) (image.Image, error) {
	if IsHEIC(data, mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// IsHEIC checks the ftyp brand of the data and the declared media type.
func IsHEIC(data []byte, mimeType string) bool {
	if len(data) >= 12 && string(data[4:8]) == "ftyp" {
		switch string(data[8:12]) {
		case "heic", "heix", "heif", "mif1", "msf1":
			return true
		}
	}
	mimeType = normalizeMimeType(mimeType)
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

func downscale(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	nw, nh := max, max
	if w >= h {
		nh = h * max / w
	} else {
		nw = w * max / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func contrastGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			avg := (float64(r>>8) + float64(g>>8) + float64(bl>>8)) / 3
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: stretch(avg)})
		}
	}
	return gray
}

func stretch(v float64) uint8 {
	v = contrastFactor*(v-128) + 128
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
