package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/expense-scanner/internal/ocr"
	"github.com/zombor/expense-scanner/internal/pdftext"
	"github.com/zombor/expense-scanner/internal/scanning"
)

func main() {
	fs := ff.NewFlagSet("receipt-scan")
	var (
		lang           = fs.StringLong("lang", string(scanning.DefaultLanguage), "OCR language: pol, nld or eng")
		engine         = fs.StringLong("engine", ocr.EngineTesseract, "OCR engine: tesseract, gemini, openai or ollama")
		tesseractBin   = fs.StringLong("tesseract-bin", "tesseract", "Tesseract binary")
		tessdataDir    = fs.StringLong("tessdata", "", "Tesseract language data directory")
		tesseractPSM   = fs.IntLong("tesseract-psm", 0, "Tesseract page segmentation mode (0 keeps the default)")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		openaiKey      = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		openaiURL      = fs.StringLong("openai-url", "", "OpenAI-compatible API base URL")
		openaiModel    = fs.StringLong("openai-model", "gpt-4o", "OpenAI model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name")
		pdfReader      = fs.StringLong("pdf", pdftext.ReaderFitz, "PDF text reader: fitz or native")
		preprocess     = fs.BoolLong("preprocess", "Enhance photos before recognition")
		recognizeLimit = fs.DurationLong("recognition-timeout", 0, "Abort a single recognition after this long (0 disables)")
		brandsFile     = fs.StringLong("brands", "", "YAML file with known store names")
		verbose        = fs.BoolLong("verbose", "Log pipeline details to stderr")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("RECEIPT_SCAN")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	paths := fs.GetArgs()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: receipt-scan [flags] FILE...")
		os.Exit(2)
	}

	language, err := scanning.ParseLanguage(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recognizer, err := ocr.New(ctx, ocr.Config{
		Engine:          *engine,
		TesseractBinary: *tesseractBin,
		TessdataDir:     *tessdataDir,
		TesseractPSM:    *tesseractPSM,
		GeminiKey:       *geminiKey,
		GeminiModel:     *geminiModel,
		OpenAIKey:       *openaiKey,
		OpenAIBaseURL:   *openaiURL,
		OpenAIModel:     *openaiModel,
		OllamaURL:       *ollamaURL,
		OllamaModel:     *ollamaModel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	reader, err := pdftext.New(*pdfReader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	brands := scanning.DefaultBrands()
	if *brandsFile != "" {
		brands, err = scanning.LoadBrandCatalog(*brandsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	pipeline := scanning.NewPipeline(recognizer, reader,
		scanning.WithPreprocessing(*preprocess),
		scanning.WithRecognitionTimeout(*recognizeLimit),
		scanning.WithBrands(brands),
	)
	defer pipeline.Close()

	items := make([]scanning.BatchItem, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		items = append(items, scanning.BatchItem{
			Name:  filepath.Base(path),
			Input: scanning.NewInput(data, scanning.DetectMimeType(path, data)),
		})
	}

	current := ""
	opts := scanning.ScanOptions{
		Language: language,
		Progress: func(percent int) {
			fmt.Fprintf(os.Stderr, "\r%s %3d%%", current, percent)
		},
	}
	result, err := scanning.ScanBatch(ctx, pipeline, items, opts, func(index, total int, name string) {
		if current != "" {
			fmt.Fprintln(os.Stderr)
		}
		current = fmt.Sprintf("[%d/%d] %s", index+1, total, name)
		fmt.Fprint(os.Stderr, current)
	})
	if current != "" {
		fmt.Fprintln(os.Stderr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", encErr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(result.Failed) > 0 {
		os.Exit(1)
	}
}
