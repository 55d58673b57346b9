package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/domain/search/request"
	"github.com/kailas-cloud/litsearch/internal/domain/search/result"
	documentuc "github.com/kailas-cloud/litsearch/internal/usecase/document"
	retrievaluc "github.com/kailas-cloud/litsearch/internal/usecase/retrieval"
	"github.com/kailas-cloud/litsearch/internal/workers"
)

type stubEmbedder struct{ err error }

func (e stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0, 1}}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, _ string) ([]entity.Entity, error) { return nil, nil }

type stubSearchRepo struct{ hits int }

func (r stubSearchRepo) Neighbours(_ context.Context, _ []float32, _, _ int) ([]result.Neighbour, error) {
	return nil, nil
}

func (r stubSearchRepo) Hybrid(_ context.Context, _ request.Hybrid) (result.Ranked, error) {
	hits := make([]result.Hit, r.hits)
	for i := range hits {
		hits[i] = result.NewHit(fmt.Sprintf("doc-%d", i), 6-float64(i)/10, result.Source{
			Title:    fmt.Sprintf("Title %d", i),
			Entities: []entity.Entity{{Text: "Knee", Label: entity.LabelCategory}},
		})
	}
	return result.Ranked{Total: r.hits, Hits: hits, Facets: []result.Facet{{Value: "Knee", Count: r.hits}}}, nil
}

type stubDocRepo struct{}

func (stubDocRepo) Get(_ context.Context, id string) (domdoc.Document, error) {
	if id != "doc-0" {
		return domdoc.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return domdoc.Reconstruct(domdoc.Fields{
		ID:       "doc-0",
		Title:    "Title 0",
		Abstract: "Periprosthetic joint infection after TKA.",
		DOI:      domdoc.CanonicalDOI("10.1/y"),
		Meta:     domdoc.Meta{PublicationDate: "2021 Mar"},
	}), nil
}

func connect(t *testing.T, emb stubEmbedder, hits int) *gomcp.ClientSession {
	t.Helper()
	pool, err := workers.NewPool(2, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	srv, err := NewServer(
		retrievaluc.New(stubSearchRepo{hits: hits}, emb, stubExtractor{}, pool, domain.DefaultRetrievalConfig()),
		documentuc.New(stubDocRepo{}),
		"test",
		zap.NewNop(),
	)
	require.NoError(t, err)

	serverTransport, clientTransport := gomcp.NewInMemoryTransports()
	ctx := context.Background()
	ss, err := srv.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func textOf(t *testing.T, res *gomcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*gomcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, documentuc.New(stubDocRepo{}), "v", nil)
	assert.Error(t, err)
}

func TestListTools(t *testing.T) {
	cs := connect(t, stubEmbedder{}, 1)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search_literature", "get_document"}, names)
}

func TestSearchLiterature(t *testing.T) {
	cs := connect(t, stubEmbedder{}, 15)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name:      "search_literature",
		Arguments: map[string]any{"query": "knee infection", "limit": 3},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))

	var out searchOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Equal(t, "knee infection", out.Query)
	assert.Equal(t, 15, out.Total)
	require.Len(t, out.Hits, 3)
	assert.Equal(t, "doc-0", out.Hits[0].ID)
	assert.Equal(t, []string{"Knee"}, out.Hits[0].Entities)
	assert.Equal(t, []string{"Knee (15)"}, out.Categories)
}

func TestSearchLiterature_DefaultLimit(t *testing.T) {
	cs := connect(t, stubEmbedder{}, 15)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name:      "search_literature",
		Arguments: map[string]any{"query": "hip"},
	})
	require.NoError(t, err)

	var out searchOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Len(t, out.Hits, defaultLimit)
}

func TestSearchLiterature_Errors(t *testing.T) {
	tests := []struct {
		name     string
		embedder stubEmbedder
		args     map[string]any
		want     string
	}{
		{"blank query", stubEmbedder{}, map[string]any{"query": "  "}, "query is required"},
		{"alpha out of range", stubEmbedder{}, map[string]any{"query": "hip", "alpha": 2}, "alpha"},
		{
			"provider down",
			stubEmbedder{err: domain.NewProviderError("embedding", errors.New("dial tcp 10.0.0.1"))},
			map[string]any{"query": "hip"},
			"provider unavailable",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs := connect(t, tc.embedder, 1)
			res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
				Name:      "search_literature",
				Arguments: tc.args,
			})
			require.NoError(t, err)
			assert.True(t, res.IsError)
			text := textOf(t, res)
			assert.Contains(t, text, tc.want)
			assert.NotContains(t, text, "10.0.0.1")
		})
	}
}

func TestGetDocument(t *testing.T) {
	cs := connect(t, stubEmbedder{}, 1)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]any{"id": "doc-0"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out documentOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Equal(t, "https://doi.org/10.1/y", out.DOI)
	assert.Equal(t, "2021 Mar", out.PublicationDate)
}

func TestGetDocument_NotFound(t *testing.T) {
	cs := connect(t, stubEmbedder{}, 1)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]any{"id": "missing"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "not found")
}
