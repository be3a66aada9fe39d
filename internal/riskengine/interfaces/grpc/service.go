package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName 服务全名
const ServiceName = "riskengine.v1.RiskEngineService"

// 方法全名
const (
	MethodEvaluate               = "/" + ServiceName + "/Evaluate"
	MethodGetEvaluation          = "/" + ServiceName + "/GetEvaluation"
	MethodListCompanyEvaluations = "/" + ServiceName + "/ListCompanyEvaluations"
)

// EvaluateRequest 评估请求
type EvaluateRequest struct {
	UserID            string         `json:"user_id" validate:"required"`
	CompanyName       string         `json:"company_name" validate:"required"`
	DebtToEquity      *float64       `json:"debt_to_equity" validate:"required"`
	NetProfit         *float64       `json:"net_profit" validate:"required"`
	NegativeNewsScore *float64       `json:"negative_news_score" validate:"required"`
	LatePaymentsRate  float64        `json:"late_payments_rate"`
	Sector            *string        `json:"sector,omitempty"`
	AdditionalFactors map[string]any `json:"additional_factors,omitempty"`
}

// EvaluateResponse 评估响应
type EvaluateResponse struct {
	Score           float64  `json:"score"`
	RiskLevel       string   `json:"risk_level"`
	Explanations    []string `json:"explanations"`
	Recommendations []string `json:"recommendations"`
	EvaluationID    *uint64  `json:"evaluation_id"`
}

// GetEvaluationRequest 按 ID 查询
type GetEvaluationRequest struct {
	ID uint64 `json:"id" validate:"required"`
}

// Evaluation 评估记录消息
type Evaluation struct {
	ID                uint64   `json:"id"`
	UserID            string   `json:"user_id"`
	CompanyName       string   `json:"company_name"`
	Sector            string   `json:"sector"`
	DebtToEquity      float64  `json:"debt_to_equity"`
	NetProfit         float64  `json:"net_profit"`
	NegativeNewsScore float64  `json:"negative_news_score"`
	LatePaymentsRate  float64  `json:"late_payments_rate"`
	Score             float64  `json:"score"`
	RiskLevel         string   `json:"risk_level"`
	Explanations      []string `json:"explanations"`
	CreatedAt         string   `json:"created_at"`
	Recommendations   []string `json:"recommendations,omitempty"`
}

// ListCompanyEvaluationsRequest 按公司查询
type ListCompanyEvaluationsRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
}

// ListCompanyEvaluationsResponse 公司评估列表
type ListCompanyEvaluationsResponse struct {
	Evaluations []*Evaluation `json:"evaluations"`
}

// RiskEngineServiceServer 服务端接口
type RiskEngineServiceServer interface {
	Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error)
	GetEvaluation(context.Context, *GetEvaluationRequest) (*Evaluation, error)
	ListCompanyEvaluations(context.Context, *ListCompanyEvaluationsRequest) (*ListCompanyEvaluationsResponse, error)
}

// UnimplementedRiskEngineServiceServer 默认实现
type UnimplementedRiskEngineServiceServer struct{}

func (UnimplementedRiskEngineServiceServer) Evaluate(context.Context, *EvaluateRequest) (*EvaluateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Evaluate not implemented")
}
func (UnimplementedRiskEngineServiceServer) GetEvaluation(context.Context, *GetEvaluationRequest) (*Evaluation, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetEvaluation not implemented")
}
func (UnimplementedRiskEngineServiceServer) ListCompanyEvaluations(context.Context, *ListCompanyEvaluationsRequest) (*ListCompanyEvaluationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCompanyEvaluations not implemented")
}

// RegisterRiskEngineServiceServer 注册服务
func RegisterRiskEngineServiceServer(s grpclib.ServiceRegistrar, srv RiskEngineServiceServer) {
	s.RegisterService(&riskEngineServiceDesc, srv)
}

var riskEngineServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskEngineServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "GetEvaluation", Handler: getEvaluationHandler},
		{MethodName: "ListCompanyEvaluations", Handler: listCompanyEvaluationsHandler},
	},
	Streams: []grpclib.StreamDesc{},
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(EvaluateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskEngineServiceServer).Evaluate(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodEvaluate}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskEngineServiceServer).Evaluate(ctx, req.(*EvaluateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getEvaluationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(GetEvaluationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskEngineServiceServer).GetEvaluation(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetEvaluation}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskEngineServiceServer).GetEvaluation(ctx, req.(*GetEvaluationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listCompanyEvaluationsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	in := new(ListCompanyEvaluationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskEngineServiceServer).ListCompanyEvaluations(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodListCompanyEvaluations}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskEngineServiceServer).ListCompanyEvaluations(ctx, req.(*ListCompanyEvaluationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}
