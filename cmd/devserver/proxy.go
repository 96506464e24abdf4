package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"lifeos/handler"
	"lifeos/internal/integrations/paramstore"
)

const maxBodyBytes = 64 << 10

// proxyHandler turns an HTTP request into the API Gateway event the Lambda
// handler expects, authenticated as the X-User-Id header or devUser.
func proxyHandler(h *handler.Handler, devUser string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}
		if headers["X-Correlation-Id"] == "" {
			if id := chiMiddleware.GetReqID(r.Context()); id != "" {
				headers["X-Correlation-Id"] = id
			}
		}
		query := make(map[string]string)
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}

		user := r.Header.Get("X-User-Id")
		if user == "" {
			user = devUser
		}

		event := events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Headers:               headers,
			QueryStringParameters: query,
			Body:                  string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				Authorizer: map[string]interface{}{
					"claims": map[string]interface{}{"sub": user},
				},
			},
		}

		resp, err := h.Handle(r.Context(), event)
		if err != nil {
			slog.Error("Handler failed", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

// envParams serves OpenAI settings from the environment and defers every
// other parameter to Parameter Store.
type envParams struct {
	prefix string
	next   paramstore.Getter
}

func (e envParams) GetParameter(ctx context.Context, name string) (string, error) {
	switch name {
	case e.prefix + "/open-ai-token":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			b, err := json.Marshal(map[string]string{"token": v})
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	case e.prefix + "/config/openai_model":
		if v := os.Getenv("OPENAI_MODEL"); v != "" {
			return v, nil
		}
	case e.prefix + "/pinned_prompt":
		if v := os.Getenv("PINNED_PROMPT"); v != "" {
			return v, nil
		}
	}
	return e.next.GetParameter(ctx, name)
}
