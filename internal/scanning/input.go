package scanning

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize is the largest image accepted for OCR, inclusive.
const MaxImageSize = 10 << 20

// Kind tells which acquisition path an input takes.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Input is a single file submitted for scanning.
type Input struct {
	Kind     Kind
	Data     []byte
	MimeType string
	Size     int64
}

// NewInput builds an Input, picking the kind from the media type.
func NewInput(data []byte, mimeType string) Input {
	mimeType = normalizeMimeType(mimeType)
	kind := KindUnknown
	switch {
	case mimeType == "application/pdf":
		kind = KindPDF
	case strings.HasPrefix(mimeType, "image/"):
		kind = KindImage
	}
	return Input{
		Kind:     kind,
		Data:     data,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}
}

// Validate rejects inputs before any processing happens.
func (in Input) Validate() error {
	switch in.Kind {
	case KindPDF:
		return nil
	case KindImage:
		if !strings.HasPrefix(normalizeMimeType(in.MimeType), "image/") {
			return unsupportedType(in.MimeType)
		}
		size := in.Size
		if size == 0 {
			size = int64(len(in.Data))
		}
		if size > MaxImageSize {
			return &ScanError{
				Kind:       ErrFileTooLarge,
				Message:    fmt.Sprintf("image is %.1f MB, the limit is %d MB", float64(size)/(1<<20), MaxImageSize>>20),
				Suggestion: "Shrink or crop the photo and try again.",
			}
		}
		return nil
	default:
		return unsupportedType(in.MimeType)
	}
}

func unsupportedType(mimeType string) error {
	if mimeType == "" {
		mimeType = "unknown"
	}
	return &ScanError{
		Kind:       ErrUnsupportedFileType,
		Message:    fmt.Sprintf("unsupported file type %q", mimeType),
		Suggestion: "Upload a photo (JPEG, PNG, HEIC, WebP) or a PDF.",
	}
}

func normalizeMimeType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".pdf":  "application/pdf",
}

// DetectMimeType guesses the media type of a file from its extension,
// then from its content.
func DetectMimeType(name string, data []byte) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return normalizeMimeType(http.DetectContentType(data))
}
