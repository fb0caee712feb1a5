// Command study is the client for the study assistant backend: it keeps
// classes and documents in sync, uploads course material and answers
// questions about it with page-level citations.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driven/api"
	configfile "github.com/judelwin/smart-study-assistant/internal/adapters/driven/config/file"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/cli"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/core/services"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// tokenHolder breaks the wiring cycle between the HTTP client (which
// needs a token source) and the auth service (which needs the client).
type tokenHolder struct {
	src driven.TokenSource
}

func (h *tokenHolder) Token(ctx context.Context) string {
	if h.src == nil {
		return ""
	}
	return h.src.Token(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env next to the binary is a development convenience; absence is
	// the normal case.
	_ = godotenv.Load()

	cfg, err := configfile.NewConfigStore(os.Getenv("STUDY_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStore(os.Getenv("STUDY_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer store.Close()

	holder := &tokenHolder{}
	client := api.NewClient(api.Config{
		IngestionURL: envOr("STUDY_INGESTION_URL", cfg.GetString("backend.ingestion_url")),
		QueryURL:     envOr("STUDY_QUERY_URL", cfg.GetString("backend.query_url")),
		AuthURL:      envOr("STUDY_AUTH_URL", cfg.GetString("backend.auth_url")),
		Timeout:      time.Duration(envIntOr("STUDY_TIMEOUT_SECONDS", cfg.GetInt("backend.timeout_seconds"))) * time.Second,
	}, holder)

	ctx := context.Background()
	bus := services.NewRefreshBus()

	auth := services.NewAuthService(ctx, client, store.CredentialStore())
	holder.src = auth

	class := services.NewClassService(client, bus)
	docs := services.NewDocumentService(client, bus, services.DocumentConfig{
		PollInterval: time.Duration(envIntOr("STUDY_POLL_SECONDS", cfg.GetInt("documents.poll_seconds"))) * time.Second,
		URLTTL:       time.Duration(envIntOr("STUDY_URL_TTL_MINUTES", cfg.GetInt("documents.url_ttl_minutes"))) * time.Minute,
		URLMargin:    time.Duration(envIntOr("STUDY_URL_MARGIN_MINUTES", cfg.GetInt("documents.url_margin_minutes"))) * time.Minute,
	})
	defer docs.Close()

	chat := services.NewChatService(client, docs, envIntOr("STUDY_TOP_K", cfg.GetInt("chat.top_k")))
	upload := services.NewUploadService(client, bus)

	// External edits to the config file invalidate cached backend state.
	stopWatch, err := cfg.Watch(bus.Notify)
	if err != nil {
		logger.Warn("config watch unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	cli.SetServices(cli.Services{
		Auth:     auth,
		Class:    class,
		Document: docs,
		Chat:     chat,
		Upload:   upload,
	})
	return cli.Execute()
}

// envOr returns the environment override when set, else the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer environment override when set and valid,
// else the fallback.
func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
