package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/refund-analysis/internal/anomaly"
	"github.com/richxcame/refund-analysis/internal/behavior"
	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/dispute"
	"github.com/richxcame/refund-analysis/internal/fraud"
	"github.com/richxcame/refund-analysis/internal/platform"
	"github.com/richxcame/refund-analysis/pkg/common"
	redispkg "github.com/richxcame/refund-analysis/pkg/redis"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// ========================================
// INTERNAL MOCKS
// ========================================

type mockClaimsRepo struct {
	mock.Mock
}

func (m *mockClaimsRepo) CreateClaim(ctx context.Context, claim *claims.RefundClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *mockClaimsRepo) GetClaimByID(ctx context.Context, id uuid.UUID) (*claims.RefundClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.RefundClaim), args.Error(1)
}

func (m *mockClaimsRepo) GetCustomerClaims(ctx context.Context, customerID uuid.UUID, before time.Time) ([]*claims.RefundClaim, error) {
	args := m.Called(ctx, customerID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*claims.RefundClaim), args.Error(1)
}

func (m *mockClaimsRepo) GetDriverClaims(ctx context.Context, driverID uuid.UUID, before time.Time) ([]*claims.RefundClaim, error) {
	args := m.Called(ctx, driverID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*claims.RefundClaim), args.Error(1)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) SaveResult(ctx context.Context, result *fraud.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *mockRepo) SaveObjection(ctx context.Context, objection *dispute.Objection) error {
	args := m.Called(ctx, objection)
	return args.Error(0)
}

func (m *mockRepo) UpsertCustomerStats(ctx context.Context, stats *claims.CustomerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *mockRepo) GetCustomerStats(ctx context.Context, customerID uuid.UUID, platform string) (*claims.CustomerStats, error) {
	args := m.Called(ctx, customerID, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claims.CustomerStats), args.Error(1)
}

type mockAlerts struct {
	mock.Mock
}

func (m *mockAlerts) Publish(records []anomaly.Record) error {
	args := m.Called(records)
	return args.Error(0)
}

// ========================================
// HELPERS
// ========================================

func newTestService(t *testing.T) (*Service, *mockClaimsRepo, *mockRepo, redismock.ClientMock) {
	t.Helper()

	client, cacheMock := redismock.NewClientMock()
	claimsRepo := &mockClaimsRepo{}
	repo := &mockRepo{}
	registry, err := platform.NewRegistry("")
	require.NoError(t, err)

	svc := NewService(claimsRepo, repo, &redispkg.Client{Client: client}, registry, nil)
	return svc, claimsRepo, repo, cacheMock
}

func validClaim() claims.RefundClaim {
	return claims.RefundClaim{
		ID:            uuid.New(),
		Platform:      "yemeksepeti",
		CustomerID:    uuid.New(),
		OrderTime:     testNow.Add(-2 * time.Hour),
		ClaimTime:     testNow.Add(-time.Hour),
		ReasonCode:    claims.ReasonColdFood,
		ReasonText:    "the soup and the main course both arrived cold and congealed",
		ClaimedAmount: 80,
		OrderAmount:   120,
		Evidence:      claims.Evidence{HasPhotos: true},
	}
}

// ========================================
// AnalyzeClaim
// ========================================

func TestAnalyzeClaimPipeline(t *testing.T) {
	svc, claimsRepo, repo, cacheMock := newTestService(t)

	claim := validClaim()
	req := &AnalyzeRequest{
		Claim: claim,
		CustomerStats: claims.CustomerStats{
			TotalOrders:         20,
			TotalRefundRequests: 1,
			TotalSpent:          2400,
		},
	}

	claimsRepo.On("GetCustomerClaims", mock.Anything, claim.CustomerID, claim.ClaimTime).
		Return([]*claims.RefundClaim{}, nil)
	claimsRepo.On("CreateClaim", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertCustomerStats", mock.Anything, mock.Anything).Return(nil)
	repo.On("SaveResult", mock.Anything, mock.Anything).Return(nil)
	cacheMock.ExpectDel(profileCacheKey(claim.CustomerID, claim.Platform)).SetVal(1)

	resp, err := svc.AnalyzeClaim(context.Background(), req, testNow)
	require.NoError(t, err)

	assert.Equal(t, claim.ID, resp.Claim.ID)
	assert.False(t, resp.Claim.CreatedAt.IsZero())
	require.NotNil(t, resp.Profile)
	require.NotNil(t, resp.Fraud)
	require.NotNil(t, resp.RootCause)
	assert.NotEmpty(t, resp.SuggestedLevel)

	// The stats snapshot inherits the claim's identifiers when left blank
	repo.AssertCalled(t, "UpsertCustomerStats", mock.Anything, mock.MatchedBy(func(s *claims.CustomerStats) bool {
		return s.CustomerID == claim.CustomerID && s.Platform == claim.Platform
	}))
	claimsRepo.AssertExpectations(t)
	repo.AssertExpectations(t)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestAnalyzeClaimFlagsSharedDriver(t *testing.T) {
	svc, claimsRepo, repo, cacheMock := newTestService(t)

	driverID := uuid.New()
	claim := validClaim()
	claim.DriverID = &driverID

	otherCustomers := []*claims.RefundClaim{
		{ID: uuid.New(), DriverID: &driverID},
		{ID: uuid.New(), DriverID: &driverID},
		{ID: uuid.New(), DriverID: &driverID},
	}

	claimsRepo.On("GetCustomerClaims", mock.Anything, claim.CustomerID, claim.ClaimTime).
		Return([]*claims.RefundClaim{}, nil)
	claimsRepo.On("GetDriverClaims", mock.Anything, driverID, claim.ClaimTime).
		Return(otherCustomers, nil)
	claimsRepo.On("CreateClaim", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertCustomerStats", mock.Anything, mock.Anything).Return(nil)
	repo.On("SaveResult", mock.Anything, mock.Anything).Return(nil)
	cacheMock.ExpectDel(profileCacheKey(claim.CustomerID, claim.Platform)).SetVal(1)

	resp, err := svc.AnalyzeClaim(context.Background(), &AnalyzeRequest{Claim: claim}, testNow)
	require.NoError(t, err)

	require.NotEmpty(t, resp.Fraud.Notes)
	assert.Contains(t, resp.Fraud.Notes[len(resp.Fraud.Notes)-1], "3 refund claims across customers")
}

func TestAnalyzeClaimRejectsInvalidClaim(t *testing.T) {
	svc, claimsRepo, _, _ := newTestService(t)

	claim := validClaim()
	claim.CustomerID = uuid.Nil

	_, err := svc.AnalyzeClaim(context.Background(), &AnalyzeRequest{Claim: claim}, testNow)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	claimsRepo.AssertNotCalled(t, "CreateClaim", mock.Anything, mock.Anything)
}

func TestAnalyzeClaimHistoryFailure(t *testing.T) {
	svc, claimsRepo, _, _ := newTestService(t)

	claim := validClaim()
	claimsRepo.On("GetCustomerClaims", mock.Anything, claim.CustomerID, claim.ClaimTime).
		Return(nil, errors.New("connection refused"))

	_, err := svc.AnalyzeClaim(context.Background(), &AnalyzeRequest{Claim: claim}, testNow)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
}

// ========================================
// GenerateDispute
// ========================================

func TestGenerateDispute(t *testing.T) {
	svc, claimsRepo, repo, _ := newTestService(t)

	claim := validClaim()
	stats := &claims.CustomerStats{
		CustomerID:          claim.CustomerID,
		Platform:            claim.Platform,
		TotalOrders:         10,
		TotalRefundRequests: 4,
		TotalSpent:          900,
	}

	claimsRepo.On("GetClaimByID", mock.Anything, claim.ID).Return(&claim, nil)
	repo.On("GetCustomerStats", mock.Anything, claim.CustomerID, claim.Platform).Return(stats, nil)
	claimsRepo.On("GetCustomerClaims", mock.Anything, claim.CustomerID, claim.ClaimTime).
		Return([]*claims.RefundClaim{}, nil)
	repo.On("SaveObjection", mock.Anything, mock.Anything).Return(nil)

	objection, err := svc.GenerateDispute(context.Background(), &DisputeRequest{ClaimID: claim.ID}, testNow)
	require.NoError(t, err)

	assert.Equal(t, claim.ID, objection.ClaimID)
	assert.NotEmpty(t, objection.Level)
	assert.NotEmpty(t, objection.Text)
	assert.Equal(t, "formal", objection.Tone) // yemeksepeti profile applied
	repo.AssertExpectations(t)
}

func TestGenerateDisputeExplicitLevel(t *testing.T) {
	svc, claimsRepo, repo, _ := newTestService(t)

	claim := validClaim()
	claimsRepo.On("GetClaimByID", mock.Anything, claim.ID).Return(&claim, nil)
	repo.On("GetCustomerStats", mock.Anything, claim.CustomerID, claim.Platform).Return(nil, pgx.ErrNoRows)
	claimsRepo.On("GetCustomerClaims", mock.Anything, claim.CustomerID, claim.ClaimTime).
		Return([]*claims.RefundClaim{}, nil)
	repo.On("SaveObjection", mock.Anything, mock.Anything).Return(nil)

	objection, err := svc.GenerateDispute(context.Background(),
		&DisputeRequest{ClaimID: claim.ID, Level: dispute.LevelHard}, testNow)
	require.NoError(t, err)
	assert.Equal(t, dispute.LevelHard, objection.Level)
}

func TestGenerateDisputeClaimNotFound(t *testing.T) {
	svc, claimsRepo, _, _ := newTestService(t)

	id := uuid.New()
	claimsRepo.On("GetClaimByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := svc.GenerateDispute(context.Background(), &DisputeRequest{ClaimID: id}, testNow)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

// ========================================
// GetCustomerProfile
// ========================================

func TestGetCustomerProfileCacheHit(t *testing.T) {
	svc, _, repo, cacheMock := newTestService(t)

	customerID := uuid.New()
	cached := behavior.Profile{CustomerID: customerID, Classification: behavior.ClassNormal, TrustScore: 80}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	cacheMock.ExpectGet(profileCacheKey(customerID, "getir")).SetVal(string(payload))

	profile, err := svc.GetCustomerProfile(context.Background(), customerID, "getir", testNow)
	require.NoError(t, err)
	assert.Equal(t, customerID, profile.CustomerID)
	assert.Equal(t, 80, profile.TrustScore)

	repo.AssertNotCalled(t, "GetCustomerStats", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestGetCustomerProfileCacheMiss(t *testing.T) {
	svc, claimsRepo, repo, cacheMock := newTestService(t)

	customerID := uuid.New()
	stats := &claims.CustomerStats{
		CustomerID:          customerID,
		Platform:            "getir",
		TotalOrders:         12,
		TotalRefundRequests: 1,
		TotalSpent:          600,
	}
	key := profileCacheKey(customerID, "getir")

	cacheMock.ExpectGet(key).RedisNil()
	repo.On("GetCustomerStats", mock.Anything, customerID, "getir").Return(stats, nil)
	claimsRepo.On("GetCustomerClaims", mock.Anything, customerID, testNow).
		Return([]*claims.RefundClaim{}, nil)

	expected := behavior.BuildProfile(*stats, nil, testNow)
	payload, err := json.Marshal(expected)
	require.NoError(t, err)
	cacheMock.ExpectSet(key, payload, profileCacheTTL).SetVal("OK")

	profile, err := svc.GetCustomerProfile(context.Background(), customerID, "getir", testNow)
	require.NoError(t, err)
	assert.Equal(t, expected.Classification, profile.Classification)
	assert.Equal(t, expected.TrustScore, profile.TrustScore)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestGetCustomerProfileUnknownCustomer(t *testing.T) {
	svc, _, repo, cacheMock := newTestService(t)

	customerID := uuid.New()
	cacheMock.ExpectGet(profileCacheKey(customerID, "getir")).RedisNil()
	repo.On("GetCustomerStats", mock.Anything, customerID, "getir").Return(nil, pgx.ErrNoRows)

	_, err := svc.GetCustomerProfile(context.Background(), customerID, "getir", testNow)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

// ========================================
// DetectAnomalies
// ========================================

func spikeSeries() []anomaly.Point {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 500}
	points := make([]anomaly.Point, len(values))
	for i, v := range values {
		at := base.AddDate(0, 0, i)
		points[i] = anomaly.Point{Key: at.Format("2006-01-02"), At: at, Value: v}
	}
	return points
}

func TestDetectAnomaliesPublishesAlerts(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	alerts := &mockAlerts{}
	svc.alerts = alerts

	alerts.On("Publish", mock.Anything).Return(nil)

	records, err := svc.DetectAnomalies(context.Background(), &AnomalyRequest{
		Subject: anomaly.SubjectRevenue,
		Method:  anomaly.MethodZScore,
		Series:  spikeSeries(),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	alerts.AssertCalled(t, "Publish", records)
}

func TestDetectAnomaliesAlertFailureIsNonFatal(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	alerts := &mockAlerts{}
	svc.alerts = alerts

	alerts.On("Publish", mock.Anything).Return(errors.New("nats unavailable"))

	records, err := svc.DetectAnomalies(context.Background(), &AnomalyRequest{
		Subject: anomaly.SubjectRevenue,
		Series:  spikeSeries(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}

func TestDetectAnomaliesRequiresSubject(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.DetectAnomalies(context.Background(), &AnomalyRequest{})
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestDetectAnomaliesNoAlertsWhenClean(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	alerts := &mockAlerts{}
	svc.alerts = alerts

	records, err := svc.DetectAnomalies(context.Background(), &AnomalyRequest{
		Subject: anomaly.SubjectOrders,
		Series:  []anomaly.Point{{Key: "2026-03-01", Value: 10}, {Key: "2026-03-02", Value: 10}},
	})
	require.NoError(t, err)
	assert.Empty(t, records)
	alerts.AssertNotCalled(t, "Publish", mock.Anything)
}
