package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/CTAG07/passforge/pkg/password"
	"github.com/CTAG07/passforge/pkg/wordgen"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	configPath := "./config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Log to stderr so stdout only ever carries the generated password.
	baseLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(configPath); err != nil {
		baseLogger.Error("passforge failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var logLevel slog.Level
	switch strings.ToLower(config.LogLevel) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	db, err := initDB(config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	if err = wordgen.SetupSchema(db); err != nil {
		return fmt.Errorf("failed to setup model schema: %w", err)
	}

	store, err := wordgen.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create model store: %w", err)
	}
	defer store.Close()
	store.SetLogger(logger)

	ctx := context.Background()

	model, err := store.LoadModel(ctx, config.ModelName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		logger.Info("No stored model, training from wordlist",
			"model_name", config.ModelName,
			"wordlist", config.WordlistPath,
		)
		if model, err = trainModel(ctx, config, logger, store); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("failed to load model %q: %w", config.ModelName, err)
	case model.Order() != config.Order:
		// A model is only valid for the order it was built with.
		logger.Info("Stored model order differs from config, retraining",
			"model_name", config.ModelName,
			"stored_order", model.Order(),
			"config_order", config.Order,
		)
		if model, err = trainModel(ctx, config, logger, store); err != nil {
			return err
		}
	default:
		logger.Info("Loaded stored model",
			"model_name", config.ModelName,
			"order", model.Order(),
		)
	}
	model.SetLogger(logger)

	pw, err := password.Build(model, config.Policy(), wordgen.CryptoSource{})
	if err != nil {
		return fmt.Errorf("failed to assemble password: %w", err)
	}

	if config.CopyToClipboard {
		if err = clipboard.WriteAll(pw); err != nil {
			return fmt.Errorf("failed to copy password to clipboard: %w", err)
		}
		logger.Info("Password copied to clipboard")
		return nil
	}

	fmt.Println(pw)
	return nil
}

// trainModel loads the configured wordlist with a progress bar, builds a
// model of the configured order, and persists it under the configured name.
func trainModel(ctx context.Context, config *Config, logger *slog.Logger, store *wordgen.Store) (*wordgen.Model, error) {
	info, err := os.Stat(config.WordlistPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", wordgen.ErrCorpusNotFound, config.WordlistPath, err)
	}

	f, err := os.Open(config.WordlistPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", wordgen.ErrCorpusNotFound, config.WordlistPath, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	corpus, err := wordgen.ReadCorpus(progressReader(f, info.Size()))
	if err != nil {
		return nil, fmt.Errorf("failed to read wordlist: %w", err)
	}
	logger.Info("Wordlist cleaned",
		"words", corpus.Len(),
		"dropped", corpus.Dropped(),
	)

	model, err := wordgen.NewModel(corpus, config.Order)
	if err != nil {
		return nil, err
	}
	model.SetLogger(logger)

	if err = model.Build(); err != nil {
		return nil, fmt.Errorf("failed to build transition table: %w", err)
	}

	if err = store.SaveModel(ctx, config.ModelName, model); err != nil {
		return nil, fmt.Errorf("failed to save model %q: %w", config.ModelName, err)
	}

	return model, nil
}
