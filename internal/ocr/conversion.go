package ocr

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// toPNG converts any supported image format to PNG. PNG input is returned as-is.
func toPNG(data []byte) ([]byte, error) {
	if http.DetectContentType(data) == "image/png" {
		return data, nil
	}

	img, err := scanning.DecodeImage(data, "")
	if err != nil {
		return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, WebP, HEIC, HEIF: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// toOCRImage keeps formats tesseract reads natively and converts the rest.
func toOCRImage(data []byte) ([]byte, error) {
	switch http.DetectContentType(data) {
	case "image/png", "image/jpeg", "image/bmp", "image/gif":
		return data, nil
	}
	return toPNG(data)
}
