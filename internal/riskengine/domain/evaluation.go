package domain

import "time"

// Evaluation 已持久化的评估记录，写入后不再修改
type Evaluation struct {
	ID                uint64
	UserID            string
	CompanyName       string
	Sector            string
	DebtToEquity      float64
	NetProfit         float64
	NegativeNewsScore float64
	LatePaymentsRate  float64
	Score             float64
	Level             RiskLevel
	Explanations      []string
	CreatedAt         time.Time
}

// NewEvaluation 由输入与评分结果构建待保存的记录，AdditionalFactors 不保存
func NewEvaluation(in RiskInput, assessment RiskAssessment) *Evaluation {
	explanations := make([]string, len(assessment.Explanations))
	copy(explanations, assessment.Explanations)

	return &Evaluation{
		UserID:            in.UserID,
		CompanyName:       in.CompanyName,
		Sector:            in.Sector,
		DebtToEquity:      in.DebtToEquity,
		NetProfit:         in.NetProfit,
		NegativeNewsScore: in.NegativeNewsScore,
		LatePaymentsRate:  in.LatePaymentsRate,
		Score:             assessment.Score,
		Level:             assessment.Level,
		Explanations:      explanations,
	}
}

// Recommendations 依据已存的等级、分数与行业重新生成建议
func (e *Evaluation) Recommendations() []string {
	return Recommend(e.Level, e.Score, e.Sector)
}
