package core

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ardika/judol-filter/internal/metrics"
)

// PipelineConfig bounds the pipeline's external interactions. Provider
// call deadlines live in the retry policy, not here (see RetryPolicy).
type PipelineConfig struct {
	// CacheTTL is how long successful classifications stay cached.
	CacheTTL time.Duration
}

// ClassifierService is the classification pipeline: validation, cache
// lookup, single-flight deduplication, provider call with retry,
// response parsing and keyword normalization.
type ClassifierService struct {
	llm        LLMClient
	cache      CacheRepository
	validator  *Validator
	normalizer *KeywordNormalizer
	index      *KeywordIndex
	logger     *zap.Logger
	cfg        PipelineConfig
	flight     singleflight.Group
}

// NewClassifierService creates the pipeline. The llm client is expected
// to already carry the retry policy (see NewRetryingClient).
func NewClassifierService(
	llm LLMClient,
	cache CacheRepository,
	validator *Validator,
	normalizer *KeywordNormalizer,
	index *KeywordIndex,
	logger *zap.Logger,
	cfg PipelineConfig,
) *ClassifierService {
	return &ClassifierService{
		llm:        llm,
		cache:      cache,
		validator:  validator,
		normalizer: normalizer,
		index:      index,
		logger:     logger,
		cfg:        cfg,
	}
}

// Classify runs one comment through the pipeline. It returns a
// ValidationError for bad input, a ParseError when the provider breaks
// the response contract, and a ProviderExhaustedError once retries are
// spent. Cache failures never fail the request; they degrade to misses.
func (s *ClassifierService) Classify(ctx context.Context, rawText string) (ClassificationResult, error) {
	start := time.Now()
	defer func() {
		metrics.ClassifyLatencySeconds.Observe(time.Since(start).Seconds())
	}()

	comment, err := s.validator.Validate(rawText)
	if err != nil {
		return ClassificationResult{}, err
	}

	// A keyword the provider already confirmed as spam settles the
	// comment without another call.
	if result, ok := s.index.Match(comment.Text); ok {
		metrics.KeywordHitsTotal.Inc()
		s.logger.Debug("learned keyword hit",
			zap.String("keyword", result.Keyword),
			zap.Float64("confidence", result.Confidence))
		s.storeResult(ctx, comment.Key, result)
		return result, nil
	}

	if result, ok := s.lookupCache(ctx, comment.Key); ok {
		metrics.CacheHitsTotal.Inc()
		s.logger.Debug("cache hit", zap.String("key", comment.Key))
		return result, nil
	}

	// One provider call per key at a time; concurrent callers for the
	// same key share its outcome, success or failure. Failures are never
	// written to the cache.
	v, err, shared := s.flight.Do(comment.Key, func() (interface{}, error) {
		return s.classifyMiss(ctx, comment)
	})
	if err != nil {
		return ClassificationResult{}, err
	}
	if shared {
		s.logger.Debug("joined in-flight classification", zap.String("key", comment.Key))
	}
	return v.(ClassificationResult), nil
}

// LookupKeyword reports whether a learned cache entry's normalized
// keyword matches the given keyword. Read-only; never touches the
// provider.
func (s *ClassifierService) LookupKeyword(keyword string) (ClassificationResult, bool) {
	return s.index.Lookup(keyword)
}

// classifyMiss performs the provider leg of the pipeline. It runs on a
// context detached from the triggering caller: a client disconnect must
// not abort work other waiters share, and the finished result should
// still land in the cache. The retry policy's per-attempt deadline keeps
// the leg bounded.
func (s *ClassifierService) classifyMiss(ctx context.Context, comment Comment) (ClassificationResult, error) {
	callCtx := context.WithoutCancel(ctx)

	raw, err := s.llm.Classify(callCtx, comment.Text)
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("error").Inc()
		return ClassificationResult{}, err
	}
	metrics.ProviderCallsTotal.WithLabelValues("ok").Inc()

	result, err := ParseTriplet(raw)
	if err != nil {
		s.logger.Warn("provider response violates contract",
			zap.String("raw", raw),
			zap.Error(err))
		return ClassificationResult{}, err
	}

	result.Keyword = s.normalizer.Normalize(result.Keyword, result.IsSpam)

	if result.IsSpam {
		s.index.Learn(result.Keyword, result.Confidence)
	}

	s.storeResult(callCtx, comment.Key, result)

	s.logger.Info("comment classified",
		zap.String("key", comment.Key),
		zap.Bool("spam", result.IsSpam),
		zap.String("keyword", result.Keyword),
		zap.Float64("confidence", result.Confidence))

	return result, nil
}

// lookupCache reads the result cache, absorbing backend failures as
// misses.
func (s *ClassifierService) lookupCache(ctx context.Context, key string) (ClassificationResult, bool) {
	result, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrorsTotal.Inc()
		s.logger.Warn("cache degraded, treating as miss", zap.Error(err))
		return ClassificationResult{}, false
	}
	return result, ok
}

// storeResult writes to the cache best-effort; failures are logged and
// absorbed.
func (s *ClassifierService) storeResult(ctx context.Context, key string, result ClassificationResult) {
	if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
		metrics.CacheErrorsTotal.Inc()
		s.logger.Warn("failed to store result in cache", zap.Error(err))
	}
}
