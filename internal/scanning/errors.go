package scanning

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUnreadablePDF       = errors.New("unreadable pdf")
	ErrNetworkUnavailable  = errors.New("network unavailable")
	ErrRecognitionTimeout  = errors.New("recognition timeout")
	ErrRecognitionFailed   = errors.New("recognition failed")
)

var errorKinds = []error{
	ErrFileTooLarge,
	ErrUnsupportedFileType,
	ErrUnreadablePDF,
	ErrNetworkUnavailable,
	ErrRecognitionTimeout,
	ErrRecognitionFailed,
}

// ScanError is a terminal failure of a single scan.
type ScanError struct {
	Kind       error
	Message    string
	Suggestion string
	Err        error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ScanError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// KindOf returns the error kind of err, or nil when err is not a scan error.
func KindOf(err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// SuggestionOf returns the user-facing hint attached to err, if any.
func SuggestionOf(err error) string {
	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return scanErr.Suggestion
	}
	return ""
}

// classifyRecognitionError maps an OCR engine failure onto the error taxonomy.
func classifyRecognitionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ScanError{
			Kind:       ErrRecognitionTimeout,
			Message:    "text recognition took too long",
			Suggestion: "Try a smaller photo.",
			Err:        err,
		}
	}

	if isNetworkError(err) {
		return &ScanError{
			Kind:       ErrNetworkUnavailable,
			Message:    "no connection to the recognition engine",
			Suggestion: "Check your internet connection and try again.",
			Err:        err,
		}
	}

	return &ScanError{
		Kind:       ErrRecognitionFailed,
		Message:    "text recognition failed",
		Suggestion: "Take a clearer photo or reduce the image size.",
		Err:        err,
	}
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	var urlErr *url.Error
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.As(err, &urlErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"network", "connection refused", "no such host", "connection reset"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
