package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"lifeos/handler"
	"lifeos/internal/integrations/openai"
	"lifeos/internal/integrations/paramstore"
	"lifeos/internal/repository"
	"lifeos/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	dataTable := mustEnv("DATA_TABLE")
	stateTable := mustEnv("STATE_TABLE")
	paramPrefix := mustEnv("PARAM_PREFIX")
	maxHistory := envInt("MAX_HISTORY", 10)
	maxMessageLen := envInt("MAX_MESSAGE_LENGTH", 1000)
	llmTimeout := envDuration("LLM_TIMEOUT", 25*time.Second)
	loc := envLocation("TIMEZONE")

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	dynamoClient := awsdynamodb.NewFromConfig(cfg)
	stores, err := repository.NewStoreSet(dynamoClient, dataTable)
	if err != nil {
		slog.Error("failed to create domain stores", "err", err)
		os.Exit(1)
	}
	sessions, err := repository.NewSessionStore(dynamoClient, stateTable)
	if err != nil {
		slog.Error("failed to create session store", "err", err)
		os.Exit(1)
	}

	openaiClient, err := openai.NewClient(ssmClient, paramPrefix)
	if err != nil {
		slog.Error("failed to create OpenAI client", "err", err)
		os.Exit(1)
	}

	// ---- Use cases ----
	cached := stores.Cached()
	snapshots, err := usecase.NewSnapshotBuilder(cached, loc)
	if err != nil {
		slog.Error("failed to create snapshot builder", "err", err)
		os.Exit(1)
	}
	dispatcher, err := usecase.NewDispatcher(cached, loc)
	if err != nil {
		slog.Error("failed to create dispatcher", "err", err)
		os.Exit(1)
	}
	parser, err := usecase.NewParser(ssmClient, openaiClient, paramPrefix, llmTimeout)
	if err != nil {
		slog.Error("failed to create intent parser", "err", err)
		os.Exit(1)
	}
	assistant, err := usecase.NewAssistant(sessions, snapshots, parser, dispatcher, maxHistory, maxMessageLen)
	if err != nil {
		slog.Error("failed to create assistant", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	h, err := handler.NewHandler(assistant)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
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
		slog.Warn("unknown timezone, using UTC", "key", key, "value", v, "err", err)
		return time.UTC
	}
	return loc
}
