// Package grpc 风险评估服务的 gRPC 接口，使用 JSON 编解码
package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wyfcoding/riskengine/internal/riskengine/application"
	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"github.com/wyfcoding/riskengine/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Handler 实现 RiskEngineServiceServer
type Handler struct {
	UnimplementedRiskEngineServiceServer
	cmd      *application.EvaluationCommandService
	query    *application.EvaluationQueryService
	validate *validator.Validate
}

// NewHandler 创建 gRPC 处理器
func NewHandler(cmd *application.EvaluationCommandService, query *application.EvaluationQueryService) *Handler {
	return &Handler{
		cmd:      cmd,
		query:    query,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Evaluate 计算风险分数并保存
func (h *Handler) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := h.cmd.Evaluate(ctx, application.EvaluateCommand{
		UserID:            req.UserID,
		CompanyName:       req.CompanyName,
		DebtToEquity:      *req.DebtToEquity,
		NetProfit:         *req.NetProfit,
		NegativeNewsScore: *req.NegativeNewsScore,
		LatePaymentsRate:  req.LatePaymentsRate,
		Sector:            req.Sector,
		AdditionalFactors: req.AdditionalFactors,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	explanations := res.Explanations
	if explanations == nil {
		explanations = []string{}
	}
	return &EvaluateResponse{
		Score:           res.Score,
		RiskLevel:       string(res.Level),
		Explanations:    explanations,
		Recommendations: res.Recommendations,
		EvaluationID:    res.EvaluationID,
	}, nil
}

// GetEvaluation 按 ID 获取评估记录
func (h *Handler) GetEvaluation(ctx context.Context, req *GetEvaluationRequest) (*Evaluation, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	detail, err := h.query.GetEvaluation(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrEvaluationNotFound) {
			return nil, status.Error(codes.NotFound, "evaluation not found")
		}
		logger.Error(ctx, "Failed to get evaluation", "evaluation_id", req.ID, "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}

	msg := toEvaluationMessage(detail.Evaluation)
	msg.Recommendations = detail.Recommendations
	return msg, nil
}

// ListCompanyEvaluations 列出公司全部评估记录
func (h *Handler) ListCompanyEvaluations(ctx context.Context, req *ListCompanyEvaluationsRequest) (*ListCompanyEvaluationsResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	evaluations, err := h.query.ListByCompany(ctx, req.CompanyName)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	resp := &ListCompanyEvaluationsResponse{Evaluations: make([]*Evaluation, 0, len(evaluations))}
	for _, e := range evaluations {
		resp.Evaluations = append(resp.Evaluations, toEvaluationMessage(e))
	}
	return resp, nil
}

func toEvaluationMessage(e *domain.Evaluation) *Evaluation {
	explanations := e.Explanations
	if explanations == nil {
		explanations = []string{}
	}
	return &Evaluation{
		ID:                e.ID,
		UserID:            e.UserID,
		CompanyName:       e.CompanyName,
		Sector:            e.Sector,
		DebtToEquity:      e.DebtToEquity,
		NetProfit:         e.NetProfit,
		NegativeNewsScore: e.NegativeNewsScore,
		LatePaymentsRate:  e.LatePaymentsRate,
		Score:             e.Score,
		RiskLevel:         string(e.Level),
		Explanations:      explanations,
		CreatedAt:         e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
