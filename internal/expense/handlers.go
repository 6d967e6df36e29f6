package expense

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// maxFormSize bounds multipart uploads. Images are held to a smaller limit
// by the scanner itself.
const maxFormSize = int64(50 << 20)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes {"error": ..., "suggestion": ...}
func jsonError(w http.ResponseWriter, code int, message, suggestion string) {
	setCORSHeaders(w)
	body := map[string]string{"error": message}
	if suggestion != "" {
		body["suggestion"] = suggestion
	}
	writeJSON(w, code, body)
}

// scanErrorStatus maps a scan failure to an HTTP status
func scanErrorStatus(err error) int {
	switch scanning.KindOf(err) {
	case scanning.ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case scanning.ErrUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case scanning.ErrUnreadablePDF, scanning.ErrRecognitionFailed:
		return http.StatusUnprocessableEntity
	case scanning.ErrNetworkUnavailable:
		return http.StatusServiceUnavailable
	case scanning.ErrRecognitionTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeScanError(w http.ResponseWriter, err error) {
	var scanErr *scanning.ScanError
	if errors.As(err, &scanErr) {
		jsonError(w, scanErrorStatus(err), scanErr.Message, scanErr.Suggestion)
		return
	}
	jsonError(w, http.StatusInternalServerError, "Error scanning receipt. Please try again.", "")
}

// scanOptions reads the recognition language from the lang form field,
// falling back to the Accept-Language header.
func scanOptions(r *http.Request) (scanning.ScanOptions, error) {
	if lang := r.FormValue("lang"); lang != "" {
		parsed, err := scanning.ParseLanguage(lang)
		if err != nil {
			return scanning.ScanOptions{}, err
		}
		return scanning.ScanOptions{Language: parsed}, nil
	}
	return scanning.ScanOptions{Language: scanning.MatchLocale(r.Header.Get("Accept-Language"))}, nil
}

// contentTypeOf determines the media type of an uploaded file
func contentTypeOf(header *multipart.FileHeader, data []byte) string {
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	return scanning.DetectMimeType(header.Filename, data)
}

func readUpload(header *multipart.FileHeader) (UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return UploadedFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return UploadedFile{}, err
	}
	return UploadedFile{Name: header.Filename, Data: data, ContentType: contentTypeOf(header, data)}, nil
}

func parseUploadForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum upload size is 50MB.", "Compress or resize your image.")
			return false
		}
		jsonError(w, http.StatusBadRequest, "Error parsing form", "")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScanReceipt scans one uploaded receipt and returns a draft
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if !parseUploadForm(w, r) {
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		jsonError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.", "")
		return
	}
	header := headers[0]

	opts, err := scanOptions(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	file, err := readUpload(header)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, http.StatusInternalServerError, "Error reading file. Please try again.", "")
		return
	}

	result, err := s.service.ScanReceipt(r.Context(), file, opts)
	if err != nil {
		slog.Error("Error scanning receipt", "filename", header.Filename, "error", err)
		writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleImportBatch scans every uploaded file and books the ones with an amount
func (s *Server) handleImportBatch(w http.ResponseWriter, r *http.Request) {
	if !parseUploadForm(w, r) {
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, http.StatusBadRequest, "No files were selected. Please choose files to upload.", "")
		return
	}

	opts, err := scanOptions(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	files := make([]UploadedFile, 0, len(headers))
	for _, header := range headers {
		file, err := readUpload(header)
		if err != nil {
			slog.Error("Error reading file data", "error", err, "filename", header.Filename)
			jsonError(w, http.StatusInternalServerError, "Error reading file. Please try again.", "")
			return
		}
		files = append(files, file)
	}

	result, err := s.service.ImportBatch(r.Context(), files, opts, func(index, total int, name string) {
		slog.Info("Scanning file", "file", index+1, "of", total, "name", name)
	})
	if err != nil {
		slog.Error("Error importing batch", "error", err)
		if result == nil {
			jsonError(w, http.StatusInternalServerError, "Error importing files", "")
			return
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCreateExpense saves a reviewed expense
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	created, err := s.service.CreateExpense(r.Context(), &e)
	if err != nil {
		slog.Error("Error creating expense", "error", err)
		if errors.Is(err, ErrInvalidExpense) {
			jsonError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		jsonError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleListExpenses returns all expenses, newest first
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

// handleGetExpense returns a single expense
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.service.GetExpense(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		corsError(w, "Expense not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Error getting expense", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// handleGetExpenseFile returns the receipt file of an expense
func (s *Server) handleGetExpenseFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetExpenseFile(r.Context(), r.PathValue("id"))
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteExpense deletes an expense
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.service.DeleteExpense(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		corsError(w, "Expense not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Error deleting expense", "error", err)
		corsError(w, "Error deleting expense", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
