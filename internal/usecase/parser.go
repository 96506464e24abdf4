package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"lifeos/internal/domain"
	"lifeos/internal/integrations/paramstore"
	"lifeos/internal/intent"
)

const (
	maxPromptHistory       = 10
	defaultLLMTimeout      = 25 * time.Second
	fallbackReply          = "Sorry, I couldn't work that out just now. Please try again."
	modelParameterSuffix   = "/config/openai_model"
	personaParameterSuffix = "/pinned_prompt"
)

type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

type LLMClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// Parser turns one user message into intents via the language model. It
// never fails: any problem yields a single CHAT intent with a generic reply.
type Parser struct {
	params      ParamGetter
	llm         LLMClient
	paramPrefix string
	timeout     time.Duration

	cacheMu     sync.RWMutex
	cacheLoaded bool
	model       string
	persona     string
}

func NewParser(p ParamGetter, llm LLMClient, paramPrefix string, timeout time.Duration) (*Parser, error) {
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	return &Parser{params: p, llm: llm, paramPrefix: paramPrefix, timeout: timeout}, nil
}

func (p *Parser) Parse(ctx context.Context, message string, history []domain.ChatMessage, snapshot string) []intent.Intent {
	if err := p.ensureConfig(ctx); err != nil {
		slog.Error("failed to load assistant config", "err", err)
		return fallbackIntents()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.llm.Chat(ctx, p.model, buildPromptMessages(p.persona, snapshot, message, history))
	if err != nil {
		attrs := []any{"err", err}
		if status, ok := upstreamStatusCode(err); ok {
			attrs = append(attrs, "status", status)
		}
		slog.Error("language model request failed", attrs...)
		return fallbackIntents()
	}

	intents, err := parseIntents(raw)
	if err != nil {
		slog.Warn("malformed language model response", "err", err)
		return fallbackIntents()
	}
	return intents
}

func fallbackIntents() []intent.Intent {
	return []intent.Intent{{Action: intent.Chat, Payload: intent.NoPayload{}, ResponseText: fallbackReply}}
}

func (p *Parser) ensureConfig(ctx context.Context) error {
	p.cacheMu.RLock()
	if p.cacheLoaded {
		p.cacheMu.RUnlock()
		return nil
	}
	p.cacheMu.RUnlock()

	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.cacheLoaded {
		return nil
	}

	model, err := p.params.GetParameter(ctx, p.paramPrefix+modelParameterSuffix)
	if err != nil {
		return fmt.Errorf("usecase: load openai model: %w", err)
	}
	persona, err := paramstore.Optional(ctx, p.params, p.paramPrefix+personaParameterSuffix, "")
	if err != nil {
		return fmt.Errorf("usecase: load pinned prompt: %w", err)
	}

	p.model = strings.TrimSpace(model)
	p.persona = persona
	p.cacheLoaded = true
	return nil
}

type intentEnvelope struct {
	Action       string           `json:"action"`
	Data         map[string]any   `json:"data"`
	ResponseText string           `json:"response_text"`
	Intents      []intentEnvelope `json:"intents"`
}

// parseIntents decodes the single JSON object the model returns. An
// "intents" list, when present, replaces the top-level action.
func parseIntents(raw string) ([]intent.Intent, error) {
	var env intentEnvelope
	dec := json.NewDecoder(bytes.NewBufferString(stripCodeFence(raw)))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("usecase: decode intent: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("usecase: decode intent: multiple JSON values")
		}
		return nil, fmt.Errorf("usecase: decode intent trailing data: %w", err)
	}

	if len(env.Intents) == 0 {
		if strings.TrimSpace(env.Action) == "" {
			return nil, errors.New("usecase: intent missing action")
		}
		return []intent.Intent{intent.Decode(env.Action, env.Data, env.ResponseText)}, nil
	}

	out := make([]intent.Intent, 0, len(env.Intents))
	for i, e := range env.Intents {
		if strings.TrimSpace(e.Action) == "" {
			return nil, fmt.Errorf("usecase: intent %d missing action", i)
		}
		text := e.ResponseText
		if text == "" && i == 0 {
			text = env.ResponseText
		}
		out = append(out, intent.Decode(e.Action, e.Data, text))
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}
