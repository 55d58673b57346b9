// Package retrieval implements query expansion with pseudo-relevance feedback
// and hybrid scoring over the literature index.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/domain/search/request"
	"github.com/kailas-cloud/litsearch/internal/domain/search/result"
	"github.com/kailas-cloud/litsearch/internal/domain/vector"
	"github.com/kailas-cloud/litsearch/internal/logger"
	"github.com/kailas-cloud/litsearch/internal/metrics"
	"github.com/kailas-cloud/litsearch/internal/workers"
)

// Pipeline stage names, used as metric labels and log fields.
const (
	stageEmbed     = "embed"
	stagePRF       = "prf"
	stageExpansion = "expansion"
	stageScore     = "score"
)

// Service runs the retrieval pipeline.
type Service struct {
	repo      Repository
	embedder  Embedder
	extractor entity.Extractor
	pool      workers.Submitter
	cfg       domain.RetrievalConfig
}

// New creates a retrieval service.
func New(
	repo Repository, embedder Embedder, extractor entity.Extractor,
	pool workers.Submitter, cfg domain.RetrievalConfig,
) *Service {
	return &Service{repo: repo, embedder: embedder, extractor: extractor, pool: pool, cfg: cfg}
}

// Search ranks the corpus for req.
//
// The query embedding Eq is shifted towards its nearest abstracts (Eprf), then
// blended with the mean embedding of the most frequent entities found in those
// abstracts (Eexp). The blend scores abstracts; Eq alone scores titles.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	log := logger.FromContext(ctx)
	query := req.Query()

	start := time.Now()
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return result.Result{}, fmt.Errorf("embed query: %w", err)
	}
	eq := emb.Embedding
	s.observe(log, stageEmbed, start)

	start = time.Now()
	eprf, neighbours, err := s.feedback(ctx, eq)
	if err != nil {
		return result.Result{}, fmt.Errorf("prf: %w", err)
	}
	s.observe(log, stagePRF, start, zap.Int("neighbours", len(neighbours)))

	start = time.Now()
	terms, eexp := s.expand(ctx, log, neighbours, eprf)
	if err := ctx.Err(); err != nil {
		return result.Result{}, fmt.Errorf("expansion: %w", err)
	}
	expanded := query
	if len(terms) > 0 {
		expanded = query + " " + strings.Join(terms, " ")
	}
	s.observe(log, stageExpansion, start, zap.Strings("terms", terms))

	efinal, err := vector.Blend(eprf, eexp, req.AlphaFinal(s.cfg.AlphaFinal))
	if err != nil {
		return result.Result{}, fmt.Errorf("blend: %w", err)
	}

	start = time.Now()
	ranked, err := s.repo.Hybrid(ctx, request.Hybrid{
		Abstract:     efinal,
		AbstractBias: s.cfg.AbstractBias,
		Title:        eq,
		TitleBias:    s.cfg.TitleBias,
		Size:         s.cfg.ResultSize,
		FacetSize:    s.cfg.FacetSize,
	})
	if err != nil {
		return result.Result{}, fmt.Errorf("hybrid score: %w", err)
	}
	s.observe(log, stageScore, start, zap.Int("total", ranked.Total), zap.Int("hits", len(ranked.Hits)))

	log.Debug("Query expanded", zap.String("query", query), zap.String("expanded_query", expanded))
	return result.New(query, expanded, ranked.Total, ranked.Hits, ranked.Facets), nil
}

// feedback returns Eprf and the neighbours it was built from.
// With no usable neighbours Eprf is Eq.
func (s *Service) feedback(ctx context.Context, eq []float32) ([]float32, []result.Neighbour, error) {
	neighbours, err := s.repo.Neighbours(ctx, eq, s.cfg.PRFK, s.cfg.PRFSize)
	if err != nil {
		return nil, nil, err
	}

	embs := make([][]float32, 0, len(neighbours))
	for _, n := range neighbours {
		if len(n.Embedding) == len(eq) {
			embs = append(embs, n.Embedding)
		}
	}
	if len(embs) == 0 {
		return eq, neighbours, nil
	}

	centroid, err := vector.Mean(embs)
	if err != nil {
		return nil, nil, err
	}
	eprf, err := vector.Blend(eq, centroid, s.cfg.AlphaPRF)
	if err != nil {
		return nil, nil, err
	}
	return eprf, neighbours, nil
}

// expand returns the expansion terms and Eexp. Failed extractions and term
// embeddings are left out; when nothing survives Eexp is eprf.
func (s *Service) expand(
	ctx context.Context, log *zap.Logger, neighbours []result.Neighbour, eprf []float32,
) ([]string, []float32) {
	extracted := make([][]entity.Entity, len(neighbours))
	errs := workers.ForEach(ctx, s.pool, len(neighbours), func(ctx context.Context, i int) error {
		ents, err := s.extractor.Extract(ctx, neighbours[i].Abstract)
		extracted[i] = ents
		return err
	})
	for i, err := range errs {
		if err != nil {
			extracted[i] = nil
			metrics.FanoutFailuresTotal.WithLabelValues("extract").Inc()
			log.Warn("Entity extraction failed", zap.String("document_id", neighbours[i].ID), zap.Error(err))
		}
	}

	terms := TopTerms(extracted, s.cfg.ExpansionTerms)
	if len(terms) == 0 {
		return nil, eprf
	}

	vecs := make([][]float32, len(terms))
	errs = workers.ForEach(ctx, s.pool, len(terms), func(ctx context.Context, i int) error {
		res, err := s.embedder.Embed(ctx, terms[i])
		vecs[i] = res.Embedding
		return err
	})

	ok := make([][]float32, 0, len(terms))
	for i, err := range errs {
		if err != nil || len(vecs[i]) != len(eprf) {
			metrics.FanoutFailuresTotal.WithLabelValues("embed_term").Inc()
			log.Warn("Expansion term not embedded", zap.String("term", terms[i]), zap.Error(err))
			continue
		}
		ok = append(ok, vecs[i])
	}
	if len(ok) == 0 {
		return terms, eprf
	}

	eexp, err := vector.Mean(ok)
	if err != nil {
		return terms, eprf
	}
	return terms, eexp
}

func (s *Service) observe(log *zap.Logger, stage string, start time.Time, fields ...zap.Field) {
	d := time.Since(start)
	metrics.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	log.Debug("Pipeline stage finished",
		append([]zap.Field{zap.String("stage", stage), zap.Duration("duration", d)}, fields...)...)
}
