// Command devserver serves the assistant over plain HTTP for local
// development, reusing the Lambda handler.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"lifeos/handler"
	"lifeos/internal/integrations/openai"
	"lifeos/internal/integrations/paramstore"
	"lifeos/internal/repository"
	"lifeos/internal/session"
	"lifeos/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	port := envOr("PORT", "8080")
	dataTable := mustEnv("DATA_TABLE")
	stateTable := os.Getenv("STATE_TABLE")
	paramPrefix := envOr("PARAM_PREFIX", "/lifeos")
	devUser := envOr("DEV_USER_ID", "local-user")
	maxHistory := envInt("MAX_HISTORY", 10)
	maxMessageLen := envInt("MAX_MESSAGE_LENGTH", 1000)
	llmTimeout := envDuration("LLM_TIMEOUT", 25*time.Second)
	loc := envLocation("TIMEZONE")

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("Failed to load AWS config", "err", err)
		os.Exit(1)
	}

	dynamoClient := awsdynamodb.NewFromConfig(cfg, func(o *awsdynamodb.Options) {
		if endpoint := os.Getenv("DYNAMODB_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	stores, err := repository.NewStoreSet(dynamoClient, dataTable)
	if err != nil {
		slog.Error("Failed to create domain stores", "err", err)
		os.Exit(1)
	}

	var sessions session.Storage = session.NewMemoryStorage()
	if stateTable != "" {
		sessions, err = repository.NewSessionStore(dynamoClient, stateTable)
		if err != nil {
			slog.Error("Failed to create session store", "err", err)
			os.Exit(1)
		}
	} else {
		slog.Info("STATE_TABLE not set, chat history is kept in memory")
	}

	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("Failed to create SSM client", "err", err)
		os.Exit(1)
	}
	params := envParams{prefix: paramPrefix, next: ssmClient}

	var llmOpts []openai.Option
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(base))
	}
	llm, err := openai.NewClient(params, paramPrefix, llmOpts...)
	if err != nil {
		slog.Error("Failed to create OpenAI client", "err", err)
		os.Exit(1)
	}

	cached := stores.Cached()
	snapshots, err := usecase.NewSnapshotBuilder(cached, loc)
	if err != nil {
		slog.Error("Failed to create snapshot builder", "err", err)
		os.Exit(1)
	}
	dispatcher, err := usecase.NewDispatcher(cached, loc)
	if err != nil {
		slog.Error("Failed to create dispatcher", "err", err)
		os.Exit(1)
	}
	parser, err := usecase.NewParser(params, llm, paramPrefix, llmTimeout)
	if err != nil {
		slog.Error("Failed to create intent parser", "err", err)
		os.Exit(1)
	}
	assistant, err := usecase.NewAssistant(sessions, snapshots, parser, dispatcher, maxHistory, maxMessageLen)
	if err != nil {
		slog.Error("Failed to create assistant", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewHandler(assistant)
	if err != nil {
		slog.Error("Failed to create handler", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      newRouter(h, devUser),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: llmTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr, "user", devUser)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("Server stopped successfully")
}

func newRouter(h *handler.Handler, devUser string) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	proxy := proxyHandler(h, devUser)
	r.Post("/chat", proxy)
	r.Delete("/chat", proxy)
	r.Get("/chat/history", proxy)
	return r
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envLocation(key string) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		slog.Warn("Unknown timezone, using UTC", "value", v, "err", err)
		return time.UTC
	}
	return loc
}
