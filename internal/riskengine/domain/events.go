package domain

import (
	"context"
	"time"
)

// EvaluationCreatedEvent 评估记录创建事件
type EvaluationCreatedEvent struct {
	EvaluationID uint64    `json:"evaluation_id"`
	UserID       string    `json:"user_id"`
	CompanyName  string    `json:"company_name"`
	Sector       string    `json:"sector"`
	Score        float64   `json:"score"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Explanations []string  `json:"explanations"`
	OccurredOn   time.Time `json:"occurred_on"`
}

// NewEvaluationCreatedEvent 由已保存的记录构建事件
func NewEvaluationCreatedEvent(e *Evaluation) EvaluationCreatedEvent {
	return EvaluationCreatedEvent{
		EvaluationID: e.ID,
		UserID:       e.UserID,
		CompanyName:  e.CompanyName,
		Sector:       e.Sector,
		Score:        e.Score,
		RiskLevel:    e.Level,
		Explanations: e.Explanations,
		OccurredOn:   time.Now().UTC(),
	}
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishEvaluationCreated 发布评估创建事件
	PublishEvaluationCreated(ctx context.Context, event EvaluationCreatedEvent) error
}
