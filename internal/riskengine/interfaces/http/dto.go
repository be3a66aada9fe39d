package http

import (
	"time"

	"github.com/wyfcoding/riskengine/internal/riskengine/application"
	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// EvaluateRequest 评估请求，数值字段用指针区分缺失与零值
type EvaluateRequest struct {
	UserID            string         `json:"user_id" binding:"required"`
	CompanyName       string         `json:"companyName" binding:"required"`
	DebtToEquity      *float64       `json:"debtToEquity" binding:"required"`
	NetProfit         *float64       `json:"netProfit" binding:"required"`
	NegativeNewsScore *float64       `json:"negativeNewsScore" binding:"required"`
	LatePaymentsRate  *float64       `json:"latePaymentsRate"`
	Sector            *string        `json:"sector"`
	AdditionalFactors map[string]any `json:"additionalFactors"`
}

func (r *EvaluateRequest) toCommand() application.EvaluateCommand {
	cmd := application.EvaluateCommand{
		UserID:            r.UserID,
		CompanyName:       r.CompanyName,
		DebtToEquity:      *r.DebtToEquity,
		NetProfit:         *r.NetProfit,
		NegativeNewsScore: *r.NegativeNewsScore,
		Sector:            r.Sector,
		AdditionalFactors: r.AdditionalFactors,
	}
	if r.LatePaymentsRate != nil {
		cmd.LatePaymentsRate = *r.LatePaymentsRate
	}
	return cmd
}

// EvaluateResponse 评估响应，recommendation 字段为风险等级
type EvaluateResponse struct {
	Score           float64  `json:"score"`
	Explanations    []string `json:"explanations"`
	Recommendation  string   `json:"recommendation"`
	Recommendations []string `json:"recommendations"`
	EvaluationID    *uint64  `json:"evaluation_id"`
}

func newEvaluateResponse(res *application.EvaluationResult) EvaluateResponse {
	explanations := res.Explanations
	if explanations == nil {
		explanations = []string{}
	}
	return EvaluateResponse{
		Score:           res.Score,
		Explanations:    explanations,
		Recommendation:  string(res.Level),
		Recommendations: res.Recommendations,
		EvaluationID:    res.EvaluationID,
	}
}

// EvaluationRecord 已存评估记录
type EvaluationRecord struct {
	ID                uint64    `json:"id"`
	UserID            string    `json:"user_id"`
	CompanyName       string    `json:"company_name"`
	Sector            string    `json:"sector"`
	DebtToEquity      float64   `json:"debt_to_equity"`
	NetProfit         float64   `json:"net_profit"`
	NegativeNewsScore float64   `json:"negative_news_score"`
	LatePaymentsRate  float64   `json:"late_payments_rate"`
	RiskScore         float64   `json:"risk_score"`
	Recommendation    string    `json:"recommendation"`
	Explanations      []string  `json:"explanations"`
	CreatedAt         time.Time `json:"created_at"`
	Recommendations   []string  `json:"recommendations,omitempty"`
}

func newEvaluationRecord(e *domain.Evaluation) EvaluationRecord {
	explanations := e.Explanations
	if explanations == nil {
		explanations = []string{}
	}
	return EvaluationRecord{
		ID:                e.ID,
		UserID:            e.UserID,
		CompanyName:       e.CompanyName,
		Sector:            e.Sector,
		DebtToEquity:      e.DebtToEquity,
		NetProfit:         e.NetProfit,
		NegativeNewsScore: e.NegativeNewsScore,
		LatePaymentsRate:  e.LatePaymentsRate,
		RiskScore:         e.Score,
		Recommendation:    string(e.Level),
		Explanations:      explanations,
		CreatedAt:         e.CreatedAt,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
