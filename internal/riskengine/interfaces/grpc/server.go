package grpc

import (
	"github.com/wyfcoding/riskengine/pkg/metrics"
	"github.com/wyfcoding/riskengine/pkg/middleware"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer 创建 gRPC 服务器，注册评估服务与健康检查
func NewServer(handler RiskEngineServiceServer, collector metrics.MetricsCollector) (*grpclib.Server, *health.Server) {
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	s := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			middleware.GRPCRecoveryInterceptor(),
			middleware.GRPCLoggingInterceptor(),
			middleware.GRPCMetricsInterceptor(collector),
		),
	)
	RegisterRiskEngineServiceServer(s, handler)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return s, healthSrv
}
