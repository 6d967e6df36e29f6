package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/expense-scanner/internal/expense"
	"github.com/zombor/expense-scanner/internal/ocr"
	"github.com/zombor/expense-scanner/internal/pdftext"
	"github.com/zombor/expense-scanner/internal/scanning"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("expense-scanner")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "expense-scanner.db", "BoltDB file path")
		databaseURL = fs.StringLong("database-url", "", "PostgreSQL connection URL (replaces --db when set)")
		storagePath = fs.StringLong("storage", "./receipts", "Storage directory path")

		minioEndpoint  = fs.StringLong("minio-endpoint", "", "S3/MinIO endpoint (replaces --storage when set)")
		minioAccessKey = fs.StringLong("minio-access-key", "", "S3/MinIO access key")
		minioSecretKey = fs.StringLong("minio-secret-key", "", "S3/MinIO secret key")
		minioBucket    = fs.StringLong("minio-bucket", "receipts", "S3/MinIO bucket")
		minioPrefix    = fs.StringLong("minio-prefix", "", "Object key prefix")
		minioRegion    = fs.StringLong("minio-region", "", "S3 region")
		minioSSL       = fs.BoolLong("minio-ssl", "Use TLS for S3/MinIO")

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
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
		pdfReader      = fs.StringLong("pdf", pdftext.ReaderFitz, "PDF text reader: fitz or native")
		preprocess     = fs.BoolLong("preprocess", "Enhance photos before recognition")
		recognizeLimit = fs.DurationLong("recognition-timeout", 0, "Abort a single recognition after this long (0 disables)")
		brandsFile     = fs.StringLong("brands", "", "YAML file with known store names")

		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		_           = fs.StringLong("config", "", "Config file (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENSE_SCANNER"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	ctx := context.Background()

	// Initialize database
	slog.Info("Initializing database...")
	var db expense.DB
	var err error
	if *databaseURL != "" {
		db, err = expense.NewPostgresDB(ctx, *databaseURL)
	} else {
		db, err = expense.NewBoltDB(*dbPath)
	}
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize scanner
	slog.Info("Initializing scanner...", "engine", *engine, "pdf", *pdfReader)
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
		slog.Error("Failed to initialize OCR engine", "error", err)
		os.Exit(1)
	}
	reader, err := pdftext.New(*pdfReader)
	if err != nil {
		slog.Error("Failed to initialize PDF reader", "error", err)
		os.Exit(1)
	}

	brands := scanning.DefaultBrands()
	if *brandsFile != "" {
		brands, err = scanning.LoadBrandCatalog(*brandsFile)
		if err != nil {
			slog.Error("Failed to load brands", "error", err)
			os.Exit(1)
		}
	}

	pipeline := scanning.NewPipeline(recognizer, reader,
		scanning.WithPreprocessing(*preprocess),
		scanning.WithRecognitionTimeout(*recognizeLimit),
		scanning.WithBrands(brands),
	)
	defer pipeline.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	var store expense.Storage
	if *minioEndpoint != "" {
		store, err = expense.NewMinIOStorage(ctx, expense.MinIOConfig{
			Endpoint:  *minioEndpoint,
			AccessKey: *minioAccessKey,
			SecretKey: *minioSecretKey,
			Bucket:    *minioBucket,
			Prefix:    *minioPrefix,
			Region:    *minioRegion,
			UseSSL:    *minioSSL,
		})
	} else {
		store, err = expense.NewLocalStorage(*storagePath)
	}
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize service
	service := expense.NewService(db, pipeline, store)

	// Initialize server
	basicAuth := expense.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := expense.NewServer(service, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
