package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"github.com/wyfcoding/riskengine/pkg/logger"
	"github.com/wyfcoding/riskengine/pkg/metrics"
)

// EvaluateCommand 风险评估命令
type EvaluateCommand struct {
	UserID            string
	CompanyName       string
	DebtToEquity      float64
	NetProfit         float64
	NegativeNewsScore float64
	LatePaymentsRate  float64
	// Sector 为 nil 时取默认行业，显式空串原样保存
	Sector            *string
	AdditionalFactors map[string]any
}

func (c EvaluateCommand) toInput() domain.RiskInput {
	sector := domain.DefaultSector
	if c.Sector != nil {
		sector = *c.Sector
	}
	return domain.RiskInput{
		UserID:            c.UserID,
		CompanyName:       c.CompanyName,
		DebtToEquity:      c.DebtToEquity,
		NetProfit:         c.NetProfit,
		NegativeNewsScore: c.NegativeNewsScore,
		LatePaymentsRate:  c.LatePaymentsRate,
		Sector:            sector,
		AdditionalFactors: c.AdditionalFactors,
	}
}

// RiskScorer 评分引擎
type RiskScorer interface {
	Score(in domain.RiskInput) domain.RiskAssessment
}

// EvaluationCommandService 处理评估写操作：评分、生成建议、持久化、发布事件
type EvaluationCommandService struct {
	scorer    RiskScorer
	repo      domain.EvaluationRepository
	publisher domain.EventPublisher
	metrics   metrics.MetricsCollector
}

// NewEvaluationCommandService 创建命令服务，publisher 可为 nil
func NewEvaluationCommandService(
	scorer RiskScorer,
	repo domain.EvaluationRepository,
	publisher domain.EventPublisher,
	collector metrics.MetricsCollector,
) *EvaluationCommandService {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &EvaluationCommandService{
		scorer:    scorer,
		repo:      repo,
		publisher: publisher,
		metrics:   collector,
	}
}

// Evaluate 执行一次评估。存储与事件发布失败不影响返回结果，仅 EvaluationID 为空
func (s *EvaluationCommandService) Evaluate(ctx context.Context, cmd EvaluateCommand) (*EvaluationResult, error) {
	in := cmd.toInput()

	assessment, recommendations, err := s.compute(in)
	if err != nil {
		logger.Error(ctx, "Risk computation failed",
			"company", in.CompanyName,
			"user_id", in.UserID,
			"debt_to_equity", in.DebtToEquity,
			"net_profit", in.NetProfit,
			"negative_news_score", in.NegativeNewsScore,
			"late_payments_rate", in.LatePaymentsRate,
			"sector", in.Sector,
			"error", err,
		)
		return nil, err
	}
	s.metrics.RecordEvaluation(string(assessment.Level))

	result := &EvaluationResult{
		Score:           assessment.Score,
		Level:           assessment.Level,
		Explanations:    assessment.Explanations,
		Recommendations: recommendations,
	}

	evaluation := domain.NewEvaluation(in, assessment)
	if err := s.repo.Save(ctx, evaluation); err != nil {
		s.metrics.RecordStorageFailure()
		logger.Error(ctx, "Failed to store evaluation",
			"company", in.CompanyName,
			"error", err,
		)
		return result, nil
	}

	id := evaluation.ID
	result.EvaluationID = &id
	logger.Info(ctx, "Evaluation stored", "evaluation_id", id, "company", in.CompanyName)

	s.publishCreated(ctx, evaluation)
	return result, nil
}

// compute 评分与建议生成，panic 转为 ErrComputationFailed
func (s *EvaluationCommandService) compute(in domain.RiskInput) (assessment domain.RiskAssessment, recommendations []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrComputationFailed, r)
		}
	}()

	assessment = s.scorer.Score(in)
	recommendations = domain.Recommend(assessment.Level, assessment.Score, in.Sector)
	return assessment, recommendations, nil
}

func (s *EvaluationCommandService) publishCreated(ctx context.Context, evaluation *domain.Evaluation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvaluationCreated(ctx, domain.NewEvaluationCreatedEvent(evaluation)); err != nil {
		s.metrics.RecordPublishFailure()
		logger.Warn(ctx, "Failed to publish evaluation created event",
			"evaluation_id", evaluation.ID,
			"error", err,
		)
	}
}
