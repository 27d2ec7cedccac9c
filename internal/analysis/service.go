package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/richxcame/refund-analysis/internal/anomaly"
	"github.com/richxcame/refund-analysis/internal/behavior"
	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/dispute"
	"github.com/richxcame/refund-analysis/internal/fraud"
	"github.com/richxcame/refund-analysis/internal/platform"
	"github.com/richxcame/refund-analysis/internal/rootcause"
	"github.com/richxcame/refund-analysis/pkg/common"
	"github.com/richxcame/refund-analysis/pkg/logger"
	"github.com/richxcame/refund-analysis/pkg/redis"
)

const (
	profileCacheTTL = 15 * time.Minute

	// Prior claims sharing a driver, across all customers, before the
	// shared-driver note is attached to an analysis
	driverClaimAlertThreshold = 3
)

// Service orchestrates the analysis pipeline: profile, fraud score, root
// cause, dispute generation. The engines themselves are pure; the service owns
// persistence, caching and alerting around them.
type Service struct {
	claims   ClaimsRepositoryInterface
	repo     RepositoryInterface
	cache    *redis.Client
	registry *platform.Registry
	alerts   AlertPublisherInterface // nil when alerting is disabled
}

// NewService creates a new analysis service
func NewService(claimsRepo ClaimsRepositoryInterface, repo RepositoryInterface, cache *redis.Client, registry *platform.Registry, alerts AlertPublisherInterface) *Service {
	return &Service{
		claims:   claimsRepo,
		repo:     repo,
		cache:    cache,
		registry: registry,
		alerts:   alerts,
	}
}

// AnalyzeClaim runs the full pipeline over a newly received claim
func (s *Service) AnalyzeClaim(ctx context.Context, req *AnalyzeRequest, now time.Time) (*AnalyzeResponse, error) {
	started := time.Now()

	claim := &req.Claim
	if err := claims.Validate(claim); err != nil {
		return nil, common.NewBadRequestError("invalid claim", err)
	}

	// History is fetched before the claim is stored, so it holds prior claims only
	history, err := s.claims.GetCustomerClaims(ctx, claim.CustomerID, claim.ClaimTime)
	if err != nil {
		logger.WithContext(ctx).Error("failed to load claim history", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load claim history")
	}
	history = excludeClaim(history, claim.ID)

	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = now
	}
	if err := s.claims.CreateClaim(ctx, claim); err != nil {
		logger.WithContext(ctx).Error("failed to store claim", zap.Error(err))
		return nil, common.NewInternalServerError("failed to store claim")
	}

	stats := req.CustomerStats
	if stats.CustomerID == uuid.Nil {
		stats.CustomerID = claim.CustomerID
	}
	if stats.Platform == "" {
		stats.Platform = claim.Platform
	}
	if err := s.repo.UpsertCustomerStats(ctx, &stats); err != nil {
		logger.WithContext(ctx).Error("failed to store customer stats", zap.Error(err))
		return nil, common.NewInternalServerError("failed to store customer stats")
	}

	profile := behavior.BuildProfile(stats, history, now)
	result := fraud.Analyze(claim, profile, history, now)
	rootCause := rootcause.Analyze(claim, profile, result.FraudScore, now)
	level := dispute.SelectLevel(result.FraudScore, profile.RefundRate, claim.ClaimedAmount)

	// Collusion check across customers: the pattern detector only sees this
	// customer's history, so repeated drivers on other accounts surface here
	if claim.DriverID != nil {
		driverClaims, err := s.claims.GetDriverClaims(ctx, *claim.DriverID, claim.ClaimTime)
		if err != nil {
			logger.WithContext(ctx).Warn("failed to load driver claims", zap.Error(err))
		} else if n := len(excludeClaim(driverClaims, claim.ID)); n >= driverClaimAlertThreshold {
			result.Notes = append(result.Notes,
				fmt.Sprintf("driver %s appears in %d refund claims across customers", claim.DriverID, n))
		}
	}

	if err := s.repo.SaveResult(ctx, result); err != nil {
		logger.WithContext(ctx).Error("failed to store analysis result", zap.Error(err))
		return nil, common.NewInternalServerError("failed to store analysis result")
	}

	// New claim invalidates the cached profile
	if err := s.cache.Delete(ctx, profileCacheKey(claim.CustomerID, claim.Platform)); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate profile cache", zap.Error(err))
	}

	analysesTotal.WithLabelValues(string(result.RiskTier)).Inc()
	analysisDuration.Observe(time.Since(started).Seconds())

	logger.WithContext(ctx).Info("claim analyzed",
		zap.String("claim_id", claim.ID.String()),
		zap.Int("fraud_score", result.FraudScore),
		zap.String("risk_tier", string(result.RiskTier)),
		zap.String("recommended_action", string(result.RecommendedAction)))

	return &AnalyzeResponse{
		Claim:          claim,
		Profile:        profile,
		Fraud:          result,
		RootCause:      rootCause,
		SuggestedLevel: level,
	}, nil
}

// GenerateDispute re-runs the scoring pipeline over a stored claim and renders
// an objection at the requested (or auto-selected) escalation level
func (s *Service) GenerateDispute(ctx context.Context, req *DisputeRequest, now time.Time) (*dispute.Objection, error) {
	claim, err := s.claims.GetClaimByID(ctx, req.ClaimID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, common.NewNotFoundError("claim not found", err)
		}
		logger.WithContext(ctx).Error("failed to load claim", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load claim")
	}

	stats, err := s.repo.GetCustomerStats(ctx, claim.CustomerID, claim.Platform)
	if err != nil {
		if err != pgx.ErrNoRows {
			logger.WithContext(ctx).Error("failed to load customer stats", zap.Error(err))
			return nil, common.NewInternalServerError("failed to load customer stats")
		}
		stats = &claims.CustomerStats{CustomerID: claim.CustomerID, Platform: claim.Platform}
	}

	history, err := s.claims.GetCustomerClaims(ctx, claim.CustomerID, claim.ClaimTime)
	if err != nil {
		logger.WithContext(ctx).Error("failed to load claim history", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load claim history")
	}
	history = excludeClaim(history, claim.ID)

	profile := behavior.BuildProfile(*stats, history, now)
	result := fraud.Analyze(claim, profile, history, now)

	var plat *platform.Profile
	if p, ok := s.registry.Get(claim.Platform); ok {
		plat = &p
	}

	objection := dispute.Generate(claim, result, profile, req.Level, plat, now)

	if err := s.repo.SaveObjection(ctx, objection); err != nil {
		logger.WithContext(ctx).Error("failed to store objection", zap.Error(err))
		return nil, common.NewInternalServerError("failed to store objection")
	}

	disputesTotal.WithLabelValues(string(objection.Level)).Inc()

	logger.WithContext(ctx).Info("dispute generated",
		zap.String("claim_id", claim.ID.String()),
		zap.String("level", string(objection.Level)),
		zap.Int("confidence", objection.Confidence))

	return objection, nil
}

// GetCustomerProfile computes (or serves from cache) the customer's behavior profile
func (s *Service) GetCustomerProfile(ctx context.Context, customerID uuid.UUID, platformCode string, now time.Time) (*behavior.Profile, error) {
	key := profileCacheKey(customerID, platformCode)

	if cached, err := s.cache.GetString(ctx, key); err == nil {
		var profile behavior.Profile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return &profile, nil
		}
	}

	stats, err := s.repo.GetCustomerStats(ctx, customerID, platformCode)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, common.NewNotFoundError("customer not found", err)
		}
		logger.WithContext(ctx).Error("failed to load customer stats", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load customer stats")
	}

	history, err := s.claims.GetCustomerClaims(ctx, customerID, now)
	if err != nil {
		logger.WithContext(ctx).Error("failed to load claim history", zap.Error(err))
		return nil, common.NewInternalServerError("failed to load claim history")
	}

	profile := behavior.BuildProfile(*stats, history, now)

	if payload, err := json.Marshal(profile); err == nil {
		if err := s.cache.SetWithExpiration(ctx, key, payload, profileCacheTTL); err != nil {
			logger.WithContext(ctx).Warn("failed to cache profile", zap.Error(err))
		}
	}

	return profile, nil
}

// DetectAnomalies runs statistical and gap detection over the supplied series
// and pushes flagged records to the alert publisher when one is configured
func (s *Service) DetectAnomalies(ctx context.Context, req *AnomalyRequest) ([]anomaly.Record, error) {
	if req.Subject == "" {
		return nil, common.NewBadRequestError("subject is required", nil)
	}

	records := anomaly.DetectSeries(req.Series, req.Subject, req.Method)
	records = append(records, anomaly.DetectActivityGaps(req.Events)...)

	for _, r := range records {
		anomaliesTotal.WithLabelValues(string(r.Subject), string(r.Severity)).Inc()
	}

	if s.alerts != nil && len(records) > 0 {
		// Alerting is best effort; detection results are returned regardless
		if err := s.alerts.Publish(records); err != nil {
			logger.WithContext(ctx).Warn("failed to publish anomaly alerts", zap.Error(err))
		}
	}

	return records, nil
}

func profileCacheKey(customerID uuid.UUID, platformCode string) string {
	return fmt.Sprintf("profile:%s:%s", platformCode, customerID)
}

func excludeClaim(history []*claims.RefundClaim, id uuid.UUID) []*claims.RefundClaim {
	kept := history[:0]
	for _, c := range history {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return kept
}
