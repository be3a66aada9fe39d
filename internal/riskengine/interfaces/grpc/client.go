package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
)

// RiskEngineServiceClient 风险评估服务客户端
type RiskEngineServiceClient interface {
	Evaluate(ctx context.Context, in *EvaluateRequest, opts ...grpclib.CallOption) (*EvaluateResponse, error)
	GetEvaluation(ctx context.Context, in *GetEvaluationRequest, opts ...grpclib.CallOption) (*Evaluation, error)
	ListCompanyEvaluations(ctx context.Context, in *ListCompanyEvaluationsRequest, opts ...grpclib.CallOption) (*ListCompanyEvaluationsResponse, error)
}

type riskEngineServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewRiskEngineServiceClient 基于连接创建客户端，连接需使用 json 编解码
func NewRiskEngineServiceClient(cc grpclib.ClientConnInterface) RiskEngineServiceClient {
	return &riskEngineServiceClient{cc: cc}
}

func (c *riskEngineServiceClient) Evaluate(ctx context.Context, in *EvaluateRequest, opts ...grpclib.CallOption) (*EvaluateResponse, error) {
	out := new(EvaluateResponse)
	if err := c.cc.Invoke(ctx, MethodEvaluate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskEngineServiceClient) GetEvaluation(ctx context.Context, in *GetEvaluationRequest, opts ...grpclib.CallOption) (*Evaluation, error) {
	out := new(Evaluation)
	if err := c.cc.Invoke(ctx, MethodGetEvaluation, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskEngineServiceClient) ListCompanyEvaluations(ctx context.Context, in *ListCompanyEvaluationsRequest, opts ...grpclib.CallOption) (*ListCompanyEvaluationsResponse, error) {
	out := new(ListCompanyEvaluationsResponse)
	if err := c.cc.Invoke(ctx, MethodListCompanyEvaluations, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
