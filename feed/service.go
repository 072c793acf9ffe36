package feed

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/feedrank/config"
	"github.com/onnwee/feedrank/feature"
	"github.com/onnwee/feedrank/influence"
	"github.com/onnwee/feedrank/post"
	"github.com/onnwee/feedrank/ranking"
	"github.com/onnwee/feedrank/textindex"
	"github.com/onnwee/feedrank/tracing"
)

// DefaultPageLimit is used when a request does not specify a usable limit.
const DefaultPageLimit = 20

// Pagination describes one page of the ranked feed.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

// Service orchestrates one ranking request end to end. Everything it
// computes (vectorizer, profile, scores) is request-local; two concurrent
// requests share nothing and need no coordination.
type Service struct {
	posts        post.PostRepository
	interactions post.InteractionRepository
	cfg          *config.Config
	weights      *ranking.Weights
	influence    influence.Source
	metrics      *Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates the feed orchestrator. cfg, weights, and logger may be
// nil; defaults are applied. The author-influence source defaults to the
// zero placeholder. A non-nil cfg also applies its InfluenceEnabled flag to
// the package-wide influence toggle; with a nil cfg the toggle is left to
// the caller.
func NewService(posts post.PostRepository, interactions post.InteractionRepository, cfg *config.Config, weights *ranking.Weights, logger *slog.Logger) *Service {
	if cfg != nil {
		influence.SetEnabled(cfg.InfluenceEnabled)
	}
	if cfg == nil {
		cfg = &config.Config{
			MinCandidates:           config.DefaultMinCandidates,
			MinInteractions:         config.DefaultMinInteractions,
			MaxFeatures:             config.DefaultMaxFeatures,
			ProfileInteractionLimit: config.DefaultProfileInteractionLimit,
			MaxPageLimit:            config.DefaultMaxPageLimit,
		}
	}
	if weights == nil {
		weights = ranking.DefaultWeights()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		posts:        posts,
		interactions: interactions,
		cfg:          cfg,
		weights:      weights,
		influence:    influence.ZeroSource{},
		logger:       logger,
		now:          time.Now,
	}
}

// SetInfluenceSource replaces the author-influence source. Call during
// wiring, before the service handles requests.
func (s *Service) SetInfluenceSource(src influence.Source) {
	s.influence = src
}

// SetMetrics attaches Prometheus metrics. Call during wiring, before the
// service handles requests.
func (s *Service) SetMetrics(m *Metrics) {
	s.metrics = m
}

// SetClock replaces the service clock. Intended for tests that need
// deterministic recency scoring.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RankAndPaginate ranks the candidate posts for the user, diversifies the
// order, and returns one page plus pagination metadata. A "view" interaction
// is logged for exactly the posts on the returned page; logging failures are
// non-fatal. An empty candidate pool returns an empty page and zero total,
// not an error.
func (s *Service) RankAndPaginate(ctx context.Context, userID string, candidates []*post.Post, page, limit int) (_ []*post.Post, _ *Pagination, err error) {
	ctx, endSpan := tracing.StartSpan(ctx, "rank_and_paginate")
	defer func() { endSpan(err) }()

	start := s.now()
	page, limit = s.normalizePage(page, limit)

	if len(candidates) == 0 {
		return []*post.Post{}, &Pagination{Page: page, Limit: limit, Total: 0, HasNext: false}, nil
	}

	strategy, scored := s.score(ctx, userID, candidates)

	ranking.SortScored(scored)
	diversified := ranking.Diversify(scored, s.weights)

	pagePosts, meta := paginate(diversified, page, limit)

	s.logViews(ctx, userID, pagePosts)

	tracing.SetAttributes(ctx,
		attribute.String("feed.strategy", string(strategy)),
		attribute.Int("feed.candidates", len(candidates)),
		attribute.Int("feed.page", page),
	)
	if s.metrics != nil {
		s.metrics.ObserveRequest(string(strategy), s.now().Sub(start).Seconds(), len(candidates))
	}

	return pagePosts, meta, nil
}

// score selects the scoring strategy for this request and annotates every
// candidate with a score. History-retrieval failures degrade to the
// heuristic path rather than failing the request: a ranked feed on stale
// signals beats no feed.
func (s *Service) score(ctx context.Context, userID string, candidates []*post.Post) (ranking.Strategy, []ranking.ScoredPost) {
	now := s.now()

	interactionCount, err := s.interactions.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("interaction count unavailable, using heuristic scoring",
			"user_id", userID,
			"error", err)
		interactionCount = 0
	}

	strategy := ranking.SelectStrategy(len(candidates), interactionCount,
		s.cfg.MinCandidates, s.cfg.MinInteractions)

	heuristic := make([]float64, len(candidates))
	for i, p := range candidates {
		heuristic[i] = ranking.HeuristicScore(p, now, s.weights)
	}

	scored := make([]ranking.ScoredPost, len(candidates))

	if strategy == ranking.StrategyHybrid {
		relevance, ok := s.relevanceScores(ctx, userID, candidates, now)
		if !ok {
			strategy = ranking.StrategyHeuristic
		} else {
			for i, p := range candidates {
				scored[i] = ranking.ScoredPost{
					Post:  p,
					Score: ranking.HybridScore(relevance[i], heuristic[i], s.weights),
				}
			}
			return strategy, scored
		}
	}

	for i, p := range candidates {
		scored[i] = ranking.ScoredPost{Post: p, Score: heuristic[i]}
	}

	return strategy, scored
}

// relevanceScores computes interest-profile similarity for every candidate.
// The vectorizer is fitted once over the union of interacted-post text and
// candidate text so the profile and the candidate vectors share one term
// space. Returns ok=false when history retrieval fails.
func (s *Service) relevanceScores(ctx context.Context, userID string, candidates []*post.Post, now time.Time) ([]float64, bool) {
	profileBuilder := &feature.ProfileBuilder{
		Interactions: s.interactions,
		Posts:        s.posts,
		Weights:      profileKindWeights(s.weights),
		Limit:        s.cfg.ProfileInteractionLimit,
	}

	docs, err := profileBuilder.RecentDocs(ctx, userID)
	if err != nil {
		s.logger.Warn("interaction history unavailable, using heuristic scoring",
			"user_id", userID,
			"error", err)
		return nil, false
	}

	union := make([]string, 0, len(candidates)+len(docs))
	for _, p := range candidates {
		union = append(union, p.Text)
	}
	for _, d := range docs {
		union = append(union, d.Text)
	}

	vectorizer := textindex.Fit(union, s.cfg.MaxFeatures)
	profile := feature.BuildProfile(docs, vectorizer)

	builder := feature.NewBuilder(vectorizer, s.influence, now)
	features := builder.Build(candidates)

	candidateVectors := make([][]float64, len(features))
	for i := range features {
		candidateVectors[i] = features[i].Text
	}

	return ranking.RelevanceScores(candidateVectors, profile), true
}

// profileKindWeights maps the calibrated per-kind interaction weights into
// the profile builder's form. A weights value with the whole group unset
// falls back to the defaults rather than silencing every interaction kind.
func profileKindWeights(w *ranking.Weights) feature.KindWeights {
	iw := w.Interactions
	if iw == (ranking.InteractionWeights{}) {
		return feature.DefaultKindWeights()
	}

	return feature.KindWeights{
		post.KindView:    iw.View,
		post.KindLike:    iw.Like,
		post.KindComment: iw.Comment,
		post.KindShare:   iw.Share,
	}
}

// normalizePage clamps page and limit into usable ranges. The limit is
// hard-capped regardless of the requested value.
func (s *Service) normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}

	maxLimit := s.cfg.MaxPageLimit
	if maxLimit <= 0 {
		maxLimit = config.DefaultMaxPageLimit
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// paginate slices one page out of the diversified order.
func paginate(diversified []ranking.ScoredPost, page, limit int) ([]*post.Post, *Pagination) {
	total := len(diversified)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	pagePosts := make([]*post.Post, 0, end-start)
	for _, sp := range diversified[start:end] {
		pagePosts = append(pagePosts, sp.Post)
	}

	return pagePosts, &Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: end < total,
	}
}

// logViews records one view interaction per page-visible post. Duplicate
// views are no-ops by repository contract; failures are logged and counted
// but never fail the already-computed response.
func (s *Service) logViews(ctx context.Context, userID string, pagePosts []*post.Post) {
	for _, p := range pagePosts {
		_, err := s.interactions.Log(ctx, &post.Interaction{
			UserID:    userID,
			PostID:    p.ID,
			Kind:      post.KindView,
			CreatedAt: s.now(),
		})
		if err != nil {
			s.logger.Warn("failed to log view",
				"user_id", userID,
				"post_id", p.ID,
				"error", err)
			if s.metrics != nil {
				s.metrics.RecordViewLogError()
			}
		}
	}
}
