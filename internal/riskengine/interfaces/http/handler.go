// Package http 风险评估服务的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/riskengine/internal/riskengine/application"
	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
	"github.com/wyfcoding/riskengine/pkg/logger"
)

// EvaluationHandler 处理风险评估相关的 HTTP 请求
type EvaluationHandler struct {
	cmd   *application.EvaluationCommandService
	query *application.EvaluationQueryService
}

// NewEvaluationHandler 创建 HTTP 处理器
func NewEvaluationHandler(cmd *application.EvaluationCommandService, query *application.EvaluationQueryService) *EvaluationHandler {
	useJSONFieldNames()
	return &EvaluationHandler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由
func (h *EvaluationHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	{
		api.POST("/evaluate", h.Evaluate)
		api.GET("/evaluations/:id", h.GetEvaluation)
		api.GET("/evaluations/company/:companyName", h.ListCompanyEvaluations)
		api.GET("/health", h.Health)
	}
}

// Evaluate 计算风险分数并保存
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, bindingDetails(err))
		return
	}

	ctx := c.Request.Context()
	logger.Info(ctx, "Risk evaluation requested", "company", req.CompanyName)

	res, err := h.cmd.Evaluate(ctx, req.toCommand())
	if err != nil {
		cause := strings.TrimPrefix(err.Error(), domain.ErrComputationFailed.Error()+": ")
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "Error calculating risk score: " + cause,
		})
		return
	}

	c.JSON(http.StatusOK, newEvaluateResponse(res))
}

// GetEvaluation 按 ID 获取评估记录
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortValidation(c, []ValidationDetail{{
			Loc:  []string{"path", "evaluation_id"},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		}})
		return
	}

	ctx := c.Request.Context()
	detail, err := h.query.GetEvaluation(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEvaluationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Evaluation not found"})
			return
		}
		logger.Error(ctx, "Failed to get evaluation", "evaluation_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	record := newEvaluationRecord(detail.Evaluation)
	record.Recommendations = detail.Recommendations
	c.JSON(http.StatusOK, record)
}

// ListCompanyEvaluations 列出公司全部评估记录
func (h *EvaluationHandler) ListCompanyEvaluations(c *gin.Context) {
	companyName := c.Param("companyName")

	ctx := c.Request.Context()
	evaluations, err := h.query.ListByCompany(ctx, companyName)
	if err != nil {
		logger.Error(ctx, "Failed to list evaluations", "company", companyName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	records := make([]EvaluationRecord, 0, len(evaluations))
	for _, e := range evaluations {
		records = append(records, newEvaluationRecord(e))
	}
	c.JSON(http.StatusOK, records)
}

// Health 健康检查，总是返回 200
func (h *EvaluationHandler) Health(c *gin.Context) {
	database := "disconnected"
	if h.query.Ping(c.Request.Context()) {
		database = "connected"
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Database: database})
}
