package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/search/request"
	"github.com/kailas-cloud/litsearch/internal/domain/search/result"
)

const defaultLimit = 10

func (s *Server) registerTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name: "search_literature",
		Description: "Search the arthroplasty literature corpus. The query is expanded with entities " +
			"found in the closest abstracts; results are ranked by combined abstract and title similarity.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Free-text clinical question or keywords"},
				"alpha": {"type": "number", "description": "Weight of the feedback vector against the expansion vector, between 0 and 1 (default from server config)"},
				"limit": {"type": "number", "description": "Maximum number of hits to return (default 10)"}
			},
			"required": ["query"]
		}`),
	}, s.handleSearch)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_document",
		Description: "Fetch a stored article by its identifier.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Document identifier as returned by search_literature"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetDocument)
}

type searchArgs struct {
	Query string   `json:"query"`
	Alpha *float64 `json:"alpha"`
	Limit int      `json:"limit"`
}

type searchHit struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Title    string   `json:"title"`
	DOI      string   `json:"doi"`
	Authors  []string `json:"authors,omitempty"`
	Entities []string `json:"entities,omitempty"`
}

type searchOutput struct {
	Query         string      `json:"query"`
	ExpandedQuery string      `json:"expanded_query"`
	Total         int         `json:"total"`
	Hits          []searchHit `json:"hits"`
	Categories    []string    `json:"categories,omitempty"`
}

func (s *Server) handleSearch(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args searchArgs
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return toolError("query is required"), nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	r, err := request.New(args.Query, args.Alpha)
	if err != nil {
		return toolError("%v", err), nil
	}
	res, err := s.retrieval.Search(ctx, &r)
	if err != nil {
		return s.domainError("search_literature", err), nil
	}

	return jsonResult(toSearchOutput(&res, limit))
}

func toSearchOutput(res *result.Result, limit int) searchOutput {
	hits := res.Hits()
	out := searchOutput{
		Query:         res.Query(),
		ExpandedQuery: res.ExpandedQuery(),
		Total:         res.Total(),
		Hits:          make([]searchHit, 0, min(limit, len(hits))),
	}
	for i := range hits[:min(limit, len(hits))] {
		src := hits[i].Source()
		ents := make([]string, 0, len(src.Entities))
		for _, e := range src.Entities {
			ents = append(ents, e.Text)
		}
		out.Hits = append(out.Hits, searchHit{
			ID:       hits[i].ID(),
			Score:    hits[i].Score(),
			Title:    src.Title,
			DOI:      src.DOI,
			Authors:  src.Authors,
			Entities: ents,
		})
	}
	for _, f := range res.Facets() {
		out.Categories = append(out.Categories, fmt.Sprintf("%s (%d)", f.Value, f.Count))
	}
	return out
}

type documentOutput struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	Authors         []string `json:"authors,omitempty"`
	DOI             string   `json:"doi"`
	Entities        []string `json:"entities,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
}

func (s *Server) handleGetDocument(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	doc, err := s.documents.Get(ctx, args.ID)
	if err != nil {
		return s.domainError("get_document", err), nil
	}

	out := documentOutput{
		ID:              doc.ID(),
		Title:           doc.Title(),
		Abstract:        doc.Abstract(),
		Authors:         doc.Authors(),
		DOI:             doc.DOI(),
		PublicationDate: doc.Meta().PublicationDate,
	}
	for _, e := range doc.Entities() {
		out.Entities = append(out.Entities, e.Text)
	}
	return jsonResult(out)
}

// domainError turns a usecase error into a tool error. Backend details stay in the log.
func (s *Server) domainError(tool string, err error) *gomcp.CallToolResult {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrNotFound):
		return toolError("%v", err)
	case errors.Is(err, domain.ErrProviderUnavailable):
		s.logger.Warn("Tool call failed", zap.String("tool", tool), zap.Error(err))
		return toolError("%s", domain.ErrProviderUnavailable.Error())
	default:
		s.logger.Error("Tool call failed", zap.String("tool", tool), zap.Error(err))
		return toolError("internal error")
	}
}

func jsonResult(v any) (*gomcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(format string, args ...any) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
