// RiskEngineService 主程序
// 功能：根据公司财务与舆情指标计算风险分数、等级、解释与建议，并保存评估记录
// 架构：DDD 分层 + gin HTTP + gRPC(JSON) + GORM + Kafka 事件
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/riskengine/internal/riskengine/application"
	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"github.com/wyfcoding/riskengine/internal/riskengine/infrastructure/messaging"
	"github.com/wyfcoding/riskengine/internal/riskengine/infrastructure/repository"
	riskgrpc "github.com/wyfcoding/riskengine/internal/riskengine/interfaces/grpc"
	riskhttp "github.com/wyfcoding/riskengine/internal/riskengine/interfaces/http"
	"github.com/wyfcoding/riskengine/pkg/config"
	"github.com/wyfcoding/riskengine/pkg/db"
	"github.com/wyfcoding/riskengine/pkg/logger"
	"github.com/wyfcoding/riskengine/pkg/metrics"
	"github.com/wyfcoding/riskengine/pkg/mq"
	"github.com/wyfcoding/riskengine/pkg/ratelimit"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

func main() {
	configPath := flag.String("config", "configs/riskengine/config.toml", "path to config file")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	slogger, err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting RiskEngineService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	// 4. 初始化仓储并建表
	evaluationRepo := repository.NewEvaluationRepository(database.DB)
	if err := evaluationRepo.AutoMigrate(ctx); err != nil {
		logger.Fatal(ctx, "Failed to migrate database", "error", err)
	}

	// 5. 初始化指标
	var metricsInstance *metrics.Metrics
	var collector metrics.MetricsCollector = metrics.NopCollector{}
	if cfg.Metrics.Enabled {
		metricsInstance = metrics.New("riskengine")
		collector = metricsInstance
	}

	// 6. 初始化事件发布
	var publisher domain.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	}

	// 7. 初始化限流
	var limiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rdb := ratelimit.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		limiter = ratelimit.NewRedisRateLimiter(rdb)
	}

	// 8. 初始化应用服务
	scorer := domain.NewScorer(slogger)
	cmdService := application.NewEvaluationCommandService(scorer, evaluationRepo, publisher, collector)
	queryService := application.NewEvaluationQueryService(evaluationRepo)

	// 9. 创建 HTTP 服务器
	router := riskhttp.NewRouter(riskhttp.RouterOptions{
		Handler:     riskhttp.NewEvaluationHandler(cmdService, queryService),
		Metrics:     metricsInstance,
		MetricsPath: cfg.Metrics.Path,
		Limiter:     limiter,
		RateLimit:   cfg.RateLimit,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 10. 创建 gRPC 服务器
	var grpcServer *grpc.Server
	var healthSrv *health.Server
	if cfg.GRPC.Port > 0 {
		grpcServer, healthSrv = riskgrpc.NewServer(riskgrpc.NewHandler(cmdService, queryService), collector)
	}

	// 11. 启动服务并等待退出信号
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("grpc listen: %w", err)
			}
			logger.Info(ctx, "Starting gRPC server", "addr", addr)
			return grpcServer.Serve(lis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down RiskEngineService")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "HTTP server shutdown error", "error", err)
		}
		if grpcServer != nil {
			// 先将健康状态置为 NOT_SERVING，再等待进行中的请求结束
			healthSrv.Shutdown()
			grpcServer.GracefulStop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "RiskEngineService exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "RiskEngineService stopped")
}
