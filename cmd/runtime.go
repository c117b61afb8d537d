package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/ai"
	"github.com/spigell/gitrate/internal/ai/gemini"
	"github.com/spigell/gitrate/internal/app"
	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/logger"
	"github.com/spigell/gitrate/internal/profiles"
	"github.com/spigell/gitrate/internal/secrets"
	"github.com/spigell/gitrate/internal/storage"
)

const (
	defaultStorageDir = ".gitrate"
	sqliteFile        = "gitrate.db"
)

// runtime holds everything a command needs to talk to the api and the saved profiles.
type runtime struct {
	ctx      context.Context
	logger   *zap.Logger
	config   *Config
	client   *gitrate.Client
	kv       storage.Store
	profiles *profiles.Store
}

// setup builds the runtime the same way for every command. Failures are fatal.
func setup() *runtime {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	client := gitrate.New(ctx, logger, config.APIURL)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}

	driver, path, err := storageLocation(config.Storage, viper.GetBool("ephemeral"))
	if err != nil {
		logger.Fatal("resolving storage location", zap.Error(err))
	}

	kv, err := storage.Open(ctx, driver, path)
	if err != nil {
		logger.Fatal("opening storage",
			zap.Error(err),
			zap.String("driver", driver),
			zap.String("path", path),
		)
	}

	logger.Debug("storage opened", zap.String("driver", driver), zap.String("path", path))

	return &runtime{
		ctx:      ctx,
		logger:   logger,
		config:   config,
		client:   client,
		kv:       kv,
		profiles: profiles.New(kv, profiles.WithLogger(logger)),
	}
}

func (r *runtime) controller(opts ...app.Option) *app.Controller {
	return app.New(r.client, r.profiles, r.logger, opts...)
}

func (r *runtime) close() {
	if err := storage.Close(r.kv); err != nil {
		r.logger.Warn("closing storage", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// storageLocation picks the backend and its path. An empty path means a directory
// under the home directory, with a database file inside it for sqlite.
func storageLocation(cfg *StorageConfig, ephemeral bool) (string, string, error) {
	if ephemeral {
		return storage.DriverMemory, "", nil
	}

	driver := storage.DriverFile
	path := ""
	if cfg != nil {
		if d := strings.ToLower(strings.TrimSpace(cfg.Driver)); d != "" {
			driver = d
		}
		path = strings.TrimSpace(cfg.Path)
	}

	if path != "" || driver == storage.DriverMemory {
		return driver, path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("locating home directory: %w", err)
	}

	path = filepath.Join(home, defaultStorageDir)
	if driver != storage.DriverSQLite {
		return driver, path, nil
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", "", fmt.Errorf("create storage directory: %w", err)
	}

	return driver, filepath.Join(path, sqliteFile), nil
}

func newNarrator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Narrator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required for a verdict")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	narratorLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewNarrator(generator, narratorLogger, cfg.Gemini.MaxLogLength), nil
}
