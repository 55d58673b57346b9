package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	health error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func (m *mockEmbedder) HealthCheck(_ context.Context) error { return m.health }

type plainEmbedder struct{}

func (plainEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, nil
}

func TestInstrumentedEmbedder_Success(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.6, 0.8},
		TotalTokens: 7,
	}}
	emb := NewInstrumentedEmbedder(inner, "openai", "nomic-embed-text", zap.NewNop())

	res, err := emb.Embed(context.Background(), "hip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 2 || res.TotalTokens != 7 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestInstrumentedEmbedder_ErrorKeepsSentinel(t *testing.T) {
	inner := &mockEmbedder{err: domain.NewProviderError("embedding", errors.New("api error"))}
	emb := NewInstrumentedEmbedder(inner, "openai", "m", zap.NewNop())

	_, err := emb.Embed(context.Background(), "hip")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if calls, _ := emb.Usage(); calls != 0 {
		t.Errorf("failed call counted: %d", calls)
	}
}

func TestInstrumentedEmbedder_UsageIsConcurrencySafe(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 3}}
	emb := NewInstrumentedEmbedder(inner, "openai", "m", zap.NewNop())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = emb.Embed(context.Background(), "knee")
		}()
	}
	wg.Wait()

	calls, tokens := emb.Usage()
	if calls != 20 || tokens != 60 {
		t.Errorf("usage = %d calls / %d tokens, want 20 / 60", calls, tokens)
	}
}

func TestInstrumentedEmbedder_HealthCheck(t *testing.T) {
	down := errors.New("down")
	emb := NewInstrumentedEmbedder(&mockEmbedder{health: down}, "openai", "m", zap.NewNop())
	if err := emb.HealthCheck(context.Background()); !errors.Is(err, down) {
		t.Errorf("expected inner health error, got %v", err)
	}

	plain := NewInstrumentedEmbedder(plainEmbedder{}, "openai", "m", zap.NewNop())
	if err := plain.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected nil for embedder without health check, got %v", err)
	}
}

func TestInstrumentedEmbedder_RecordsRequestUsage(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 4}}
	emb := NewInstrumentedEmbedder(inner, "openai", "m", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = emb.Embed(ctx, "knee")
		}()
	}
	wg.Wait()

	if usage.Calls() != 5 || usage.Tokens() != 20 {
		t.Errorf("usage = %d calls / %d tokens, want 5 / 20", usage.Calls(), usage.Tokens())
	}

	// No collector in context: nothing to record, nothing to panic on.
	if _, err := emb.Embed(context.Background(), "hip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
