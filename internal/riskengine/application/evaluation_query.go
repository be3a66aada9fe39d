package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"github.com/wyfcoding/riskengine/pkg/logger"
)

// EvaluationQueryService 处理评估记录的查询操作
type EvaluationQueryService struct {
	repo domain.EvaluationRepository
}

// NewEvaluationQueryService 构造函数
func NewEvaluationQueryService(repo domain.EvaluationRepository) *EvaluationQueryService {
	return &EvaluationQueryService{repo: repo}
}

// GetEvaluation 按 ID 获取记录，建议按已存的等级、分数与行业重新生成
func (s *EvaluationQueryService) GetEvaluation(ctx context.Context, id uint64) (*EvaluationDetail, error) {
	evaluation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation %d: %w", id, err)
	}
	if evaluation == nil {
		return nil, domain.ErrEvaluationNotFound
	}

	return &EvaluationDetail{
		Evaluation:      evaluation,
		Recommendations: evaluation.Recommendations(),
	}, nil
}

// ListByCompany 按公司名列出记录，无匹配时返回空切片
func (s *EvaluationQueryService) ListByCompany(ctx context.Context, companyName string) ([]*domain.Evaluation, error) {
	evaluations, err := s.repo.ListByCompanyName(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations for %q: %w", companyName, err)
	}
	if evaluations == nil {
		evaluations = []*domain.Evaluation{}
	}
	return evaluations, nil
}

// Ping 存储连通性
func (s *EvaluationQueryService) Ping(ctx context.Context) bool {
	if err := s.repo.Ping(ctx); err != nil {
		logger.Warn(ctx, "Database health check failed", "error", err)
		return false
	}
	return true
}
