// Package handler adapts API Gateway proxy events to the assistant use case.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"lifeos/internal/auth"
	"lifeos/internal/domain"
	"lifeos/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

type AssistantUseCase interface {
	Send(ctx context.Context, in usecase.SendInput) (usecase.SendOutput, error)
	History(ctx context.Context, deviceID string) ([]domain.ChatMessage, error)
	Clear(ctx context.Context, deviceID string) error
}

type Handler struct {
	uc AssistantUseCase
}

type chatRequest struct {
	DeviceID string `json:"deviceId"`
	Message  string `json:"message"`
	Route    string `json:"route"`
}

type chatResponse struct {
	Reply    string            `json:"reply"`
	Outcomes []usecase.Outcome `json:"outcomes"`
	Navigate string            `json:"navigate,omitempty"`
}

type historyResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type errorResponse struct {
	Error         string `json:"error"`
	Reply         string `json:"reply,omitempty"`
	CorrelationID string `json:"correlationId"`
}

var newUUID = func() string {
	return uuid.NewString()
}

func NewHandler(uc AssistantUseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

// Handle routes POST /chat, GET /chat/history and DELETE /chat.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := header(req.Headers, correlationHeader)
	if corrID == "" {
		corrID = newUUID()
	}
	if sub := userFromClaims(req.RequestContext.Authorizer); sub != "" {
		ctx = auth.WithUser(ctx, sub)
	}
	logger := slog.With("correlation_id", corrID, "method", req.HTTPMethod, "path", req.Path)

	path := strings.TrimRight(req.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat/history"):
		if req.HTTPMethod != http.MethodGet {
			return errorJSON(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "", corrID), nil
		}
		return h.history(ctx, logger, req, corrID), nil
	case strings.HasSuffix(path, "/chat"):
		switch req.HTTPMethod {
		case http.MethodPost:
			return h.send(ctx, logger, req, corrID), nil
		case http.MethodDelete:
			return h.clear(ctx, logger, req, corrID), nil
		}
		return errorJSON(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "", corrID), nil
	}
	return errorJSON(http.StatusNotFound, "NOT_FOUND", "", corrID), nil
}

func (h *Handler) send(ctx context.Context, logger *slog.Logger, req events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	body, err := requestBody(req)
	if err != nil {
		return errorJSON(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "", corrID)
	}
	var in chatRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return errorJSON(http.StatusBadRequest, string(usecase.ErrorInvalidInput), "", corrID)
	}

	out, err := h.uc.Send(ctx, usecase.SendInput{DeviceID: in.DeviceID, Message: in.Message, Route: in.Route})
	if err != nil {
		return fromError(logger, err, out.Reply, corrID)
	}
	if out.Outcomes == nil {
		out.Outcomes = []usecase.Outcome{}
	}
	return okJSON(http.StatusOK, chatResponse{Reply: out.Reply, Outcomes: out.Outcomes, Navigate: out.Navigate}, corrID)
}

func (h *Handler) history(ctx context.Context, logger *slog.Logger, req events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	msgs, err := h.uc.History(ctx, req.QueryStringParameters["deviceId"])
	if err != nil {
		return fromError(logger, err, "", corrID)
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return okJSON(http.StatusOK, historyResponse{Messages: msgs}, corrID)
}

func (h *Handler) clear(ctx context.Context, logger *slog.Logger, req events.APIGatewayProxyRequest, corrID string) events.APIGatewayProxyResponse {
	if err := h.uc.Clear(ctx, req.QueryStringParameters["deviceId"]); err != nil {
		return fromError(logger, err, "", corrID)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    map[string]string{correlationHeader: corrID},
	}
}

func fromError(logger *slog.Logger, err error, reply, corrID string) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		logger.Error("unexpected error", "err", err)
		return errorJSON(http.StatusInternalServerError, string(usecase.ErrorInternal), "", corrID)
	}

	status := statusFor(ucErr.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", ucErr.Code, "reason", ucErr.Reason, "err", ucErr.Err)
	} else {
		logger.Warn("request rejected", "code", ucErr.Code, "reason", ucErr.Reason)
	}
	return errorJSON(status, string(ucErr.Code), reply, corrID)
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorUnauthenticated:
		return http.StatusUnauthorized
	case usecase.ErrorTurnInProgress:
		return http.StatusConflict
	case usecase.ErrorActionFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func okJSON(status int, v any, corrID string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return errorJSON(http.StatusInternalServerError, string(usecase.ErrorInternal), "", corrID)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders(corrID),
		Body:       string(body),
	}
}

func errorJSON(status int, code, reply, corrID string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(errorResponse{Error: code, Reply: reply, CorrelationID: corrID})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders(corrID),
		Body:       string(body),
	}
}

func jsonHeaders(corrID string) map[string]string {
	return map[string]string{
		"Content-Type":    "application/json",
		correlationHeader: corrID,
	}
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

// header looks name up case-insensitively.
func header(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// userFromClaims reads the Cognito "sub" claim, or a "sub" set directly by a
// custom authorizer.
func userFromClaims(authorizer map[string]interface{}) string {
	if claims, ok := authorizer["claims"].(map[string]interface{}); ok {
		if sub, ok := claims["sub"].(string); ok {
			return sub
		}
	}
	if sub, ok := authorizer["sub"].(string); ok {
		return sub
	}
	return ""
}
