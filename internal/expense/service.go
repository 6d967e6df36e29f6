package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zombor/expense-scanner/internal/scanning"
)

// ErrInvalidExpense is returned when an expense is missing required data
var ErrInvalidExpense = errors.New("invalid expense")

// IDGenerator generates unique IDs for expenses
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ScanResult is the outcome of scanning one uploaded receipt. Draft is nil
// when no amount could be read; the file is kept either way.
type ScanResult struct {
	File        string                `json:"file"`
	ContentType string                `json:"content_type"`
	Receipt     *scanning.ReceiptData `json:"receipt"`
	Draft       *Expense              `json:"draft,omitempty"`
}

// ImportResult summarises a batch import
type ImportResult struct {
	Created []*Expense              `json:"created"`
	Skipped []string                `json:"skipped"`
	Failed  []scanning.BatchFailure `json:"failed"`
	Total   decimal.Decimal         `json:"total"`
}

// Service handles expense operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID IDs and the wall clock
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, storage, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ScanReceipt stores the uploaded file, scans it and returns a draft expense.
// The stored file is removed again when the scan fails.
func (s *Service) ScanReceipt(ctx context.Context, file UploadedFile, opts scanning.ScanOptions) (*ScanResult, error) {
	savedPath, err := s.storage.Save(ctx, s.storedName(file.Name), file.Data, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	data, err := s.scanner.ScanReceipt(ctx, scanning.NewInput(file.Data, file.ContentType), opts)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", file.Name,
			"content_type", file.ContentType,
			"file_size", len(file.Data),
			"error", err,
		)
		if delErr := s.storage.Delete(ctx, savedPath); delErr != nil {
			slog.Warn("Failed to delete file", "filename", savedPath, "error", delErr)
		}
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	result := &ScanResult{File: savedPath, ContentType: file.ContentType, Receipt: data}
	draft, err := DraftFromScan(data, 0, s.timeSource.Now())
	switch {
	case errors.Is(err, ErrNoAmount):
		slog.Info("No amount on receipt", "filename", file.Name)
	case err != nil:
		return nil, err
	default:
		draft.Filename = savedPath
		draft.ContentType = file.ContentType
		result.Draft = draft
	}
	return result, nil
}

// CreateExpense validates and saves an expense, filling in defaults
func (s *Service) CreateExpense(ctx context.Context, e *Expense) (*Expense, error) {
	if !e.Gross.IsPositive() && !e.Net.IsPositive() {
		return nil, fmt.Errorf("%w: an amount is required", ErrInvalidExpense)
	}
	if e.VATRate < 0 || e.VATRate > 100 {
		return nil, fmt.Errorf("%w: vat rate must be between 0 and 100", ErrInvalidExpense)
	}

	now := s.timeSource.Now()
	e.ID = s.idGenerator.Generate()
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	if e.Date.IsZero() {
		e.Date = now
	}
	switch {
	case !e.Gross.IsPositive():
		e.Gross = GrossFromNet(e.Net, e.VATRate)
	case !e.Net.IsPositive():
		e.Net = NetFromGross(e.Gross, e.VATRate)
	}
	if e.VAT.IsZero() {
		e.VAT = e.Gross.Sub(e.Net)
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.db.SaveExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}
	return e, nil
}

// ImportBatch scans files one by one and books an expense for every file with
// an amount. Files without an amount are skipped, failures are reported.
func (s *Service) ImportBatch(ctx context.Context, files []UploadedFile, opts scanning.ScanOptions, onFile scanning.FileFunc) (*ImportResult, error) {
	items := make([]scanning.BatchItem, len(files))
	for i, f := range files {
		items[i] = scanning.BatchItem{Name: f.Name, Input: scanning.NewInput(f.Data, f.ContentType)}
	}

	batch, err := scanning.ScanBatch(ctx, s.scanner, items, opts, onFile)
	if batch == nil {
		return nil, err
	}

	result := &ImportResult{
		Created: make([]*Expense, 0, len(batch.Succeeded)),
		Skipped: make([]string, 0),
		Failed:  batch.Failed,
	}
	for _, ok := range batch.Succeeded {
		created, createErr := s.importScanned(ctx, files[ok.Index], ok)
		switch {
		case errors.Is(createErr, ErrNoAmount):
			result.Skipped = append(result.Skipped, ok.Name)
		case createErr != nil:
			result.Failed = append(result.Failed, scanning.BatchFailure{Index: ok.Index, Name: ok.Name, Err: createErr})
		default:
			result.Created = append(result.Created, created)
		}
	}
	sort.SliceStable(result.Failed, func(i, j int) bool {
		return result.Failed[i].Index < result.Failed[j].Index
	})
	result.Total = totalOf(result.Created)

	slog.Info("Imported batch",
		"files", len(files),
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"total", result.Total.StringFixed(2),
	)
	return result, err
}

func (s *Service) importScanned(ctx context.Context, file UploadedFile, scanned scanning.BatchSuccess) (*Expense, error) {
	now := s.timeSource.Now()
	e, err := DraftFromScan(scanned.Data, scanned.Index, now)
	if err != nil {
		return nil, err
	}

	e.ID = s.idGenerator.Generate()
	savedPath, err := s.storage.Save(ctx, e.ID+"_"+sanitizeFilename(file.Name), file.Data, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}
	e.Filename = savedPath
	e.ContentType = file.ContentType
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.db.SaveExpense(ctx, e); err != nil {
		if delErr := s.storage.Delete(ctx, savedPath); delErr != nil {
			slog.Warn("Failed to delete file", "filename", savedPath, "error", delErr)
		}
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}
	return e, nil
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(ctx context.Context, id string) (*Expense, error) {
	e, err := s.db.GetExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns all expenses, newest date first
func (s *Service) ListExpenses(ctx context.Context) ([]*Expense, error) {
	expenses, err := s.db.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

// DeleteExpense removes an expense and its file
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	e, err := s.db.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}

	if e.Filename != "" {
		if err := s.storage.Delete(ctx, e.Filename); err != nil {
			slog.Warn("Failed to delete file", "filename", e.Filename, "error", err)
		}
	}

	if err := s.db.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("deleting expense from database: %w", err)
	}
	return nil
}

// GetExpenseFile retrieves the receipt file of an expense
func (s *Service) GetExpenseFile(ctx context.Context, id string) ([]byte, string, error) {
	e, err := s.db.GetExpense(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}
	if e.Filename == "" {
		return nil, "", fmt.Errorf("%w: expense %s has no file", ErrNotFound, id)
	}

	data, err := s.storage.Get(ctx, e.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense file: %w", err)
	}
	return data, e.ContentType, nil
}

func (s *Service) storedName(filename string) string {
	return s.idGenerator.Generate() + "_" + sanitizeFilename(filename)
}

// totalOf sums the gross amounts of expenses
func totalOf(expenses []*Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Gross)
	}
	return total
}
