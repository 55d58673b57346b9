// Package indexing turns source records into stored, searchable documents.
package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/litsearch/internal/domain"
	"github.com/kailas-cloud/litsearch/internal/domain/category"
	domdoc "github.com/kailas-cloud/litsearch/internal/domain/document"
	"github.com/kailas-cloud/litsearch/internal/domain/entity"
	"github.com/kailas-cloud/litsearch/internal/metrics"
	"github.com/kailas-cloud/litsearch/internal/workers"
)

// Service indexes documents and manages the index lifecycle.
type Service struct {
	docs      DocumentWriter
	index     IndexManager
	embedder  Embedder
	extractor entity.Extractor
	pool      workers.Submitter
	logger    *zap.Logger
}

// New creates an indexing service.
func New(
	docs DocumentWriter, index IndexManager, embedder Embedder,
	extractor entity.Extractor, pool workers.Submitter, logger *zap.Logger,
) *Service {
	return &Service{
		docs:      docs,
		index:     index,
		embedder:  embedder,
		extractor: extractor,
		pool:      pool,
		logger:    logger,
	}
}

// IndexDocument embeds, tags and stores one record. Returns the new document ID.
func (s *Service) IndexDocument(ctx context.Context, raw domdoc.Raw) (string, error) {
	if err := raw.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	abstractEmb, err := s.embedder.Embed(ctx, raw.Abstract)
	if err != nil {
		return "", fmt.Errorf("embed abstract: %w", err)
	}
	titleEmb, err := s.embedder.Embed(ctx, raw.Title)
	if err != nil {
		return "", fmt.Errorf("embed title: %w", err)
	}

	normalized := category.Normalize(raw.Abstract)
	extracted, err := s.extractor.Extract(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("extract entities: %w", err)
	}

	mentions := entity.Flatten(entity.GroupUnique(extracted))
	terms := make([]string, len(mentions))
	for i, m := range mentions {
		terms[i] = m.Text
	}

	doc, err := s.docs.Insert(ctx, domdoc.Fields{
		Title:             raw.Title,
		Abstract:          raw.Abstract,
		Authors:           raw.Authors,
		DOI:               raw.DOI,
		TitleEmbedding:    titleEmb.Embedding,
		AbstractEmbedding: abstractEmb.Embedding,
		Entities:          category.Categorize(terms),
		Mentions:          mentions,
		Meta: domdoc.Meta{
			PublicationDate: raw.PublicationDate,
			MeshHeadings:    raw.MeshHeadings,
			Keywords:        raw.OtherTerms,
		},
	})
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return doc.ID(), nil
}

// Rebuild drops the index together with its documents, then declares it again.
// Between the two phases lookups see a missing index.
func (s *Service) Rebuild(ctx context.Context) error {
	name := s.index.Name()

	dropped, err := s.index.Drop(ctx)
	if err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	s.logger.Info("Index dropped, recreating",
		zap.String("index", name), zap.Bool("existed", dropped))

	if err := s.index.Create(ctx); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.logger.Info("Index created", zap.String("index", name))
	return nil
}

// EnsureIndex creates the index unless it already exists.
func (s *Service) EnsureIndex(ctx context.Context) error {
	err := s.index.Create(ctx)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.logger.Info("Index created", zap.String("index", s.index.Name()))
	return nil
}

// IngestReport summarizes a batch ingest.
type IngestReport struct {
	Indexed  int
	Failed   int
	Duration time.Duration
}

// IngestAll indexes raws on the worker pool. A failed record is logged and
// counted; it does not stop the batch. The error is non-nil only when ctx ends.
func (s *Service) IngestAll(ctx context.Context, raws []domdoc.Raw) (IngestReport, error) {
	start := time.Now()

	errs := workers.ForEach(ctx, s.pool, len(raws), func(ctx context.Context, i int) error {
		_, err := s.IndexDocument(ctx, raws[i])
		return err
	})

	var report IngestReport
	for i, err := range errs {
		if err != nil {
			report.Failed++
			metrics.IndexedDocumentsTotal.WithLabelValues("error").Inc()
			s.logger.Warn("Document not indexed",
				zap.Int("position", i), zap.String("title", raws[i].Title), zap.Error(err))
			continue
		}
		report.Indexed++
		metrics.IndexedDocumentsTotal.WithLabelValues("success").Inc()
	}
	report.Duration = time.Since(start)

	s.logger.Info("Ingest finished",
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("ingest interrupted: %w", err)
	}
	return report, nil
}
