// Package llm extracts biomedical entities with a chat model in JSON mode.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/metrics"
)

const providerName = "extraction"

// Config holds the extractor settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration // whole call, retries included; 0 = caller's context only
	MaxAttempts int
	Labels      []string
	Logger      *zap.Logger
}

// Extractor implements entity.Extractor over an OpenAI-compatible chat API.
type Extractor struct {
	client      llms.Model
	model       string
	timeout     time.Duration
	maxAttempts int
	labels      map[string]bool
	prompt      string
	logger      *zap.Logger
}

type reply struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// New creates an extractor. An empty API key is sent as "none" for local
// servers that do not authenticate.
func New(cfg Config) (*Extractor, error) {
	if cfg.Model == "" {
		return nil, errors.New("extraction model is required")
	}
	if len(cfg.Labels) == 0 {
		return nil, errors.New("at least one extraction label is required")
	}

	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	labels := make(map[string]bool, len(cfg.Labels))
	upper := make([]string, 0, len(cfg.Labels))
	for _, l := range cfg.Labels {
		l = strings.ToUpper(strings.TrimSpace(l))
		labels[l] = true
		upper = append(upper, l)
	}

	return &Extractor{
		client:      client,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		maxAttempts: attempts,
		labels:      labels,
		prompt:      buildSystemPrompt(upper),
		logger:      logger.With(zap.String("component", "llm-extractor")),
	}, nil
}

// Extract returns the entities found in text, restricted to the configured labels.
// A reply that does not parse is requested again up to MaxAttempts times.
func (e *Extractor) Extract(ctx context.Context, text string) ([]entity.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, e.prompt),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	var parsed reply
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		resp, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0), llms.WithJSONMode())
		if err != nil {
			metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "error").Inc()
			return nil, domain.NewProviderError(providerName, fmt.Errorf("generate content: %w", err))
		}
		if len(resp.Choices) == 0 {
			metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "success").Inc()
			return nil, nil
		}

		raw := stripFences(resp.Choices[0].Content)
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			lastErr = err
			if attempt < e.maxAttempts {
				metrics.ExtractionParseRetriesTotal.Inc()
			}
			e.logger.Warn("Unparseable extraction reply",
				zap.Int("attempt", attempt), zap.String("reply", raw), zap.Error(err))
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "error").Inc()
		return nil, domain.NewProviderError(providerName,
			fmt.Errorf("unparseable reply after %d attempts: %w", e.maxAttempts, lastErr))
	}
	metrics.ExtractionRequestsTotal.WithLabelValues(e.model, "success").Inc()

	out := make([]entity.Entity, 0, len(parsed.Entities))
	for _, p := range parsed.Entities {
		label := strings.ToUpper(strings.TrimSpace(p.Label))
		txt := strings.TrimSpace(p.Text)
		if txt == "" || !e.labels[label] {
			continue
		}
		out = append(out, entity.Entity{Text: txt, Label: label})
	}

	e.logger.Debug("Extracted entities",
		zap.Int("returned", len(parsed.Entities)), zap.Int("kept", len(out)))
	return out, nil
}
