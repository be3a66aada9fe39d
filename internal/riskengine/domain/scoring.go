// Package domain 风险评估服务的领域模型：评分引擎、建议生成、评估实体、仓储与事件接口
package domain

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low Risk"
	RiskLevelMedium RiskLevel = "Medium Risk"
	RiskLevelHigh   RiskLevel = "High Risk"
)

// DefaultSector 未指定行业时的取值
const DefaultSector = "general"

// 评分规则权重
var (
	weightDebtToEquity   = decimal.RequireFromString("0.30")
	weightNegativeProfit = decimal.RequireFromString("0.20")
	weightNegativeNews   = decimal.RequireFromString("0.20")
	weightLatePayments   = decimal.RequireFromString("0.15")
	weightVolatileSector = decimal.RequireFromString("0.10")

	maxScore        = decimal.NewFromInt(1)
	highThreshold   = decimal.RequireFromString("0.7")
	mediumThreshold = decimal.RequireFromString("0.4")
)

// 规则触发阈值，比较均为严格大于/小于
const (
	debtToEquityThreshold = 2.0
	netProfitThreshold    = 0.0
	negativeNewsThreshold = 0.5
	latePaymentsThreshold = 0.1
)

var volatileSectors = map[string]struct{}{
	"oil":    {},
	"gas":    {},
	"energy": {},
}

// 解释文案
const (
	ExplanationHighDebt       = "High debt-to-equity ratio"
	ExplanationNegativeProfit = "Negative profitability"
	ExplanationNegativeNews   = "Significant negative news"
	ExplanationLatePayments   = "High late payments rate"
	ExplanationVolatileSector = "High-volatility sector"
)

// RiskInput 单次评估的输入
type RiskInput struct {
	UserID            string
	CompanyName       string
	DebtToEquity      float64
	NetProfit         float64
	NegativeNewsScore float64
	LatePaymentsRate  float64
	Sector            string
	// AdditionalFactors 仅记录日志，不参与评分
	AdditionalFactors map[string]any
}

// RiskAssessment 评分结果
type RiskAssessment struct {
	Score        float64
	Level        RiskLevel
	Explanations []string
}

// Scorer 加性规则评分引擎，无状态，可并发使用
type Scorer struct {
	logger *slog.Logger
}

// NewScorer 创建评分引擎，logger 为空时使用 slog 默认实例
func NewScorer(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{logger: logger}
}

// Score 计算风险分数、等级与解释
func (s *Scorer) Score(in RiskInput) RiskAssessment {
	s.logger.Info("Computing risk score", "company", in.CompanyName, "user_id", in.UserID)

	score := decimal.Zero
	explanations := make([]string, 0, 5)

	if in.DebtToEquity > debtToEquityThreshold {
		score = score.Add(weightDebtToEquity)
		explanations = append(explanations, ExplanationHighDebt)
		s.logger.Debug("High debt-to-equity detected", "debt_to_equity", in.DebtToEquity)
	}

	if in.NetProfit < netProfitThreshold {
		score = score.Add(weightNegativeProfit)
		explanations = append(explanations, ExplanationNegativeProfit)
		s.logger.Debug("Negative profitability detected", "net_profit", in.NetProfit)
	}

	if in.NegativeNewsScore > negativeNewsThreshold {
		score = score.Add(weightNegativeNews)
		explanations = append(explanations, ExplanationNegativeNews)
		s.logger.Debug("Significant negative news detected", "negative_news_score", in.NegativeNewsScore)
	}

	if in.LatePaymentsRate > latePaymentsThreshold {
		score = score.Add(weightLatePayments)
		explanations = append(explanations, ExplanationLatePayments)
		s.logger.Debug("High late payments rate detected", "late_payments_rate", in.LatePaymentsRate)
	}

	if _, ok := volatileSectors[strings.ToLower(in.Sector)]; ok {
		score = score.Add(weightVolatileSector)
		explanations = append(explanations, ExplanationVolatileSector)
		s.logger.Debug("High-volatility sector", "sector", in.Sector)
	}

	for _, key := range slices.Sorted(maps.Keys(in.AdditionalFactors)) {
		s.logger.Debug("Additional factor", "factor", key, "value", in.AdditionalFactors[key])
	}

	score = clampScore(score)
	level := levelFor(score)
	result := RiskAssessment{
		Score:        score.InexactFloat64(),
		Level:        level,
		Explanations: explanations,
	}

	s.logger.Info("Risk score computed", "company", in.CompanyName, "score", result.Score, "risk_level", level)
	return result
}

// clampScore 分数上限为 1，截断不追加解释
func clampScore(score decimal.Decimal) decimal.Decimal {
	if score.GreaterThan(maxScore) {
		return maxScore
	}
	return score
}

// levelFor 按分数划分风险等级
func levelFor(score decimal.Decimal) RiskLevel {
	switch {
	case score.GreaterThanOrEqual(highThreshold):
		return RiskLevelHigh
	case score.GreaterThanOrEqual(mediumThreshold):
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
