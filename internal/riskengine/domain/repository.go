package domain

import "context"

// EvaluationRepository 评估记录仓储接口
type EvaluationRepository interface {
	// Save 插入记录，成功后回填 ID 与 CreatedAt
	Save(ctx context.Context, evaluation *Evaluation) error
	// GetByID 记录不存在时返回 nil, nil
	GetByID(ctx context.Context, id uint64) (*Evaluation, error)
	// ListByCompanyName 按公司名精确匹配（区分大小写），按 ID 升序
	ListByCompanyName(ctx context.Context, companyName string) ([]*Evaluation, error)
	// Ping 探测存储连通性
	Ping(ctx context.Context) error
}
