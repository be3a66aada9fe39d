package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/riskengine/internal/riskengine/application"
	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"github.com/wyfcoding/riskengine/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryRepository struct {
	records []*domain.Evaluation
	saveErr error
	pingErr error
}

func (m *memoryRepository) Save(_ context.Context, e *domain.Evaluation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	e.ID = uint64(len(m.records) + 1)
	e.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m.records = append(m.records, e)
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uint64) (*domain.Evaluation, error) {
	for _, e := range m.records {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) ListByCompanyName(_ context.Context, name string) ([]*domain.Evaluation, error) {
	var out []*domain.Evaluation
	for _, e := range m.records {
		if e.CompanyName == name {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepository) Ping(context.Context) error { return m.pingErr }

type brokenScorer struct{}

func (brokenScorer) Score(domain.RiskInput) domain.RiskAssessment { panic("nil ratio") }

func newTestRouter(repo domain.EvaluationRepository, scorer application.RiskScorer) *gin.Engine {
	if scorer == nil {
		scorer = domain.NewScorer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	cmd := application.NewEvaluationCommandService(scorer, repo, nil, nil)
	query := application.NewEvaluationQueryService(repo)
	return NewRouter(RouterOptions{
		Handler: NewEvaluationHandler(cmd, query),
		Metrics: metrics.New("riskengine"),
	})
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func highRiskBody() map[string]any {
	return map[string]any{
		"user_id":           "test_user",
		"companyName":       "Test Corp",
		"debtToEquity":      2.5,
		"netProfit":         -1000,
		"negativeNewsScore": 0.8,
		"latePaymentsRate":  0.2,
		"sector":            "technology",
	}
}

func TestEvaluate_HighRisk(t *testing.T) {
	repo := &memoryRepository{}
	r := newTestRouter(repo, nil)

	rec := do(r, http.MethodPost, "/api/evaluate", highRiskBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.85, resp.Score)
	assert.Equal(t, "High Risk", resp.Recommendation)
	assert.Equal(t, []string{
		domain.ExplanationHighDebt,
		domain.ExplanationNegativeProfit,
		domain.ExplanationNegativeNews,
		domain.ExplanationLatePayments,
	}, resp.Explanations)
	assert.Equal(t, []string{
		domain.RecommendFinancialReview,
		domain.RecommendDebtReduction,
		domain.RecommendReceivablesPolicy,
	}, resp.Recommendations)
	require.NotNil(t, resp.EvaluationID)
	assert.Equal(t, uint64(1), *resp.EvaluationID)
}

func TestEvaluate_ZeroValuesAreAccepted(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodPost, "/api/evaluate", map[string]any{
		"user_id":           "u",
		"companyName":       "Flat Co",
		"debtToEquity":      0,
		"netProfit":         0,
		"negativeNewsScore": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"score": 0,
		"explanations": [],
		"recommendation": "Low Risk",
		"recommendations": ["Maintain current financial practices", "Annual risk reassessment recommended"],
		"evaluation_id": 1
	}`, rec.Body.String())
}

func TestEvaluate_SectorDefaulting(t *testing.T) {
	repo := &memoryRepository{}
	r := newTestRouter(repo, nil)

	body := highRiskBody()
	delete(body, "sector")
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/evaluate", body).Code)

	body = highRiskBody()
	body["sector"] = ""
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/evaluate", body).Code)

	require.Len(t, repo.records, 2)
	assert.Equal(t, domain.DefaultSector, repo.records[0].Sector)
	assert.Equal(t, "", repo.records[1].Sector)
	assert.Equal(t, repo.records[0].Score, repo.records[1].Score)
}

func TestEvaluate_StorageFailureReturnsNullID(t *testing.T) {
	r := newTestRouter(&memoryRepository{saveErr: errors.New("disk full")}, nil)

	rec := do(r, http.MethodPost, "/api/evaluate", highRiskBody())
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "evaluation_id")
	assert.Nil(t, raw["evaluation_id"])
	assert.Equal(t, "High Risk", raw["recommendation"])
}

func TestEvaluate_MissingFields(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodPost, "/api/evaluate", map[string]any{"companyName": "Invalid Corp"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Detail []ValidationDetail `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Detail)

	fields := make([]string, 0, len(body.Detail))
	for _, d := range body.Detail {
		require.Len(t, d.Loc, 2)
		assert.Equal(t, "body", d.Loc[0])
		assert.Equal(t, "value_error.missing", d.Type)
		fields = append(fields, d.Loc[1])
	}
	assert.ElementsMatch(t, []string{"user_id", "debtToEquity", "netProfit", "negativeNewsScore"}, fields)
}

func TestEvaluate_WrongType(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	body := highRiskBody()
	body["debtToEquity"] = "high"
	rec := do(r, http.MethodPost, "/api/evaluate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "debtToEquity")
}

func TestEvaluate_MalformedJSON(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodPost, "/api/evaluate", "{not json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestEvaluate_ComputationFailure(t *testing.T) {
	repo := &memoryRepository{}
	r := newTestRouter(repo, brokenScorer{})

	rec := do(r, http.MethodPost, "/api/evaluate", highRiskBody())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail": "Error calculating risk score: nil ratio"}`, rec.Body.String())
	assert.Empty(t, repo.records)
}

func TestGetEvaluation(t *testing.T) {
	repo := &memoryRepository{}
	r := newTestRouter(repo, nil)

	body := highRiskBody()
	body["sector"] = "retail"
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/evaluate", body).Code)

	rec := do(r, http.MethodGet, "/api/evaluations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var record EvaluationRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, uint64(1), record.ID)
	assert.Equal(t, "test_user", record.UserID)
	assert.Equal(t, "Test Corp", record.CompanyName)
	assert.Equal(t, "retail", record.Sector)
	assert.Equal(t, 0.85, record.RiskScore)
	assert.Equal(t, "High Risk", record.Recommendation)
	assert.Len(t, record.Explanations, 4)
	assert.Contains(t, record.Recommendations, domain.RecommendInventoryManagement)
}

func TestGetEvaluation_NotFound(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodGet, "/api/evaluations/999999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail": "Evaluation not found"}`, rec.Body.String())
}

func TestGetEvaluation_NonIntegerID(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodGet, "/api/evaluations/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListCompanyEvaluations(t *testing.T) {
	repo := &memoryRepository{}
	r := newTestRouter(repo, nil)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/evaluate", highRiskBody()).Code)
	}

	rec := do(r, http.MethodGet, "/api/evaluations/company/Test%20Corp", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.NotContains(t, records[0], "recommendations")
	assert.Equal(t, "Test Corp", records[0]["company_name"])

	rec = do(r, http.MethodGet, "/api/evaluations/company/Nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(newTestRouter(&memoryRepository{}, nil), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "database": "connected"}`, rec.Body.String())

	rec = do(newTestRouter(&memoryRepository{pingErr: errors.New("down")}, nil), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "database": "disconnected"}`, rec.Body.String())
}

func TestRootRedirectsToDocs(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/docs", rec.Header().Get("Location"))

	rec = do(r, http.MethodGet, "/docs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")

	rec = do(r, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/evaluate")
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/evaluate", highRiskBody()).Code)

	rec := do(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "riskengine_http_requests_total")
}

func TestSysProbes(t *testing.T) {
	r := newTestRouter(&memoryRepository{}, nil)

	rec := do(r, http.MethodGet, "/sys/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "UP"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/sys/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "READY"}`, rec.Body.String())
}
