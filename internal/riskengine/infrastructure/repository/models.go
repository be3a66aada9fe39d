package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

// EvaluationModel 风险评估表映射
type EvaluationModel struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID            string    `gorm:"column:user_id;type:varchar(255);index;not null"`
	CompanyName       string    `gorm:"column:company_name;type:varchar(255);index;not null"`
	Sector            string    `gorm:"column:sector;type:varchar(100);index"`
	DebtToEquity      float64   `gorm:"column:debt_to_equity;not null"`
	NetProfit         float64   `gorm:"column:net_profit;not null"`
	NegativeNewsScore float64   `gorm:"column:negative_news_score;not null"`
	LatePaymentsRate  float64   `gorm:"column:late_payments_rate;not null"`
	RiskScore         float64   `gorm:"column:risk_score;not null"`
	Recommendation    string    `gorm:"column:recommendation;type:varchar(50);not null"`
	ExplanationsJSON  string    `gorm:"column:explanations_json;type:text"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EvaluationModel) TableName() string { return "risk_evaluations" }

// --- mapping helpers ---

func toEvaluationModel(e *domain.Evaluation) (*EvaluationModel, error) {
	explanations := e.Explanations
	if explanations == nil {
		explanations = []string{}
	}
	blob, err := json.Marshal(explanations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode explanations: %w", err)
	}

	return &EvaluationModel{
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
		ExplanationsJSON:  string(blob),
		CreatedAt:         e.CreatedAt,
	}, nil
}

func toEvaluation(m *EvaluationModel) (*domain.Evaluation, error) {
	explanations := []string{}
	if m.ExplanationsJSON != "" {
		if err := json.Unmarshal([]byte(m.ExplanationsJSON), &explanations); err != nil {
			return nil, fmt.Errorf("failed to decode explanations of evaluation %d: %w", m.ID, err)
		}
	}

	return &domain.Evaluation{
		ID:                m.ID,
		UserID:            m.UserID,
		CompanyName:       m.CompanyName,
		Sector:            m.Sector,
		DebtToEquity:      m.DebtToEquity,
		NetProfit:         m.NetProfit,
		NegativeNewsScore: m.NegativeNewsScore,
		LatePaymentsRate:  m.LatePaymentsRate,
		Score:             m.RiskScore,
		Level:             domain.RiskLevel(m.Recommendation),
		Explanations:      explanations,
		CreatedAt:         m.CreatedAt,
	}, nil
}
