package scanning

import (
	"context"
	"encoding/json"
)

// BatchItem is one named file of a batch.
type BatchItem struct {
	Name  string
	Input Input
}

// BatchSuccess is a scanned file.
type BatchSuccess struct {
	Index int          `json:"index"`
	Name  string       `json:"name"`
	Data  *ReceiptData `json:"data"`
}

// BatchFailure is a file whose scan failed.
type BatchFailure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Err   error  `json:"-"`
}

// MarshalJSON renders the error as text along with its suggestion.
func (f BatchFailure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Index      int    `json:"index"`
		Name       string `json:"name"`
		Error      string `json:"error"`
		Suggestion string `json:"suggestion,omitempty"`
	}{f.Index, f.Name, msg, SuggestionOf(f.Err)})
}

// BatchResult lists successes and failures in input order.
type BatchResult struct {
	Succeeded []BatchSuccess `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// FileFunc is told which file of the batch is being scanned.
type FileFunc func(index, total int, name string)

// ScanBatch scans items one at a time. A failing file is recorded and the
// batch moves on; only cancellation of ctx stops it early, in which case the
// partial result is returned with the context error.
func ScanBatch(ctx context.Context, scanner Scanner, items []BatchItem, opts ScanOptions, onFile FileFunc) (*BatchResult, error) {
	result := &BatchResult{
		Succeeded: make([]BatchSuccess, 0, len(items)),
		Failed:    make([]BatchFailure, 0),
	}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if onFile != nil {
			onFile(i, len(items), item.Name)
		}

		data, err := scanner.ScanReceipt(ctx, item.Input, opts)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed = append(result.Failed, BatchFailure{Index: i, Name: item.Name, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, BatchSuccess{Index: i, Name: item.Name, Data: data})
	}
	return result, nil
}
