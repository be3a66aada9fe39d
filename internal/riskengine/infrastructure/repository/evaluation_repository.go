// Package repository 评估记录的 GORM 仓储实现
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"gorm.io/gorm"
)

// EvaluationRepository 评估仓储实现
type EvaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository 创建评估仓储
func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// AutoMigrate 建表
func (r *EvaluationRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&EvaluationModel{})
}

// Save 插入评估记录，回填 ID 与 CreatedAt
func (r *EvaluationRepository) Save(ctx context.Context, evaluation *domain.Evaluation) error {
	model, err := toEvaluationModel(evaluation)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	evaluation.ID = model.ID
	evaluation.CreatedAt = model.CreatedAt
	return nil
}

// GetByID 按 ID 获取记录，不存在时返回 nil, nil
func (r *EvaluationRepository) GetByID(ctx context.Context, id uint64) (*domain.Evaluation, error) {
	var model EvaluationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return toEvaluation(&model)
}

// ListByCompanyName 按公司名精确匹配，ID 升序
func (r *EvaluationRepository) ListByCompanyName(ctx context.Context, companyName string) ([]*domain.Evaluation, error) {
	var models []EvaluationModel
	if err := r.db.WithContext(ctx).
		Where("company_name = ?", companyName).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	result := make([]*domain.Evaluation, 0, len(models))
	for i := range models {
		e, err := toEvaluation(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// Ping 探测数据库连通性
func (r *EvaluationRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
