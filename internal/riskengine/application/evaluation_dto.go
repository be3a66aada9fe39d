package application

import "github.com/wyfcoding/riskengine/internal/riskengine/domain"

// EvaluationResult 评估结果，EvaluationID 为 nil 表示未持久化
type EvaluationResult struct {
	Score           float64
	Level           domain.RiskLevel
	Explanations    []string
	Recommendations []string
	EvaluationID    *uint64
}

// EvaluationDetail 已存记录及重新生成的建议
type EvaluationDetail struct {
	Evaluation      *domain.Evaluation
	Recommendations []string
}
