package domain

import "strings"

// 建议文案
const (
	RecommendFinancialReview     = "Conduct immediate comprehensive financial review"
	RecommendDebtReduction       = "Develop debt reduction strategy"
	RecommendReceivablesPolicy   = "Implement stricter accounts receivable policies"
	RecommendInventoryManagement = "Review inventory management to improve cash flow"
	RecommendRestructuring       = "Consider external financial expertise/restructuring"
	RecommendQuarterlyMonitoring = "Quarterly financial health monitoring recommended"
	RecommendActionPlan          = "Develop action plan for identified risk areas"
	RecommendCompetitiveReview   = "Evaluate competitive positioning in volatile market"
	RecommendMaintainPractices   = "Maintain current financial practices"
	RecommendAnnualReassessment  = "Annual risk reassessment recommended"
)

// restructuringScoreThreshold 沿用百分制阈值，在 0-1 分数下不会触发
const restructuringScoreThreshold = 85

// Recommend 根据风险等级、分数与行业生成建议，顺序固定
func Recommend(level RiskLevel, score float64, sector string) []string {
	sector = strings.ToLower(sector)

	switch level {
	case RiskLevelHigh:
		recs := []string{
			RecommendFinancialReview,
			RecommendDebtReduction,
			RecommendReceivablesPolicy,
		}
		if sector == "retail" || sector == "manufacturing" {
			recs = append(recs, RecommendInventoryManagement)
		}
		if score > restructuringScoreThreshold {
			recs = append(recs, RecommendRestructuring)
		}
		return recs
	case RiskLevelMedium:
		recs := []string{
			RecommendQuarterlyMonitoring,
			RecommendActionPlan,
		}
		if sector == "technology" || sector == "finance" {
			recs = append(recs, RecommendCompetitiveReview)
		}
		return recs
	default:
		return []string{
			RecommendMaintainPractices,
			RecommendAnnualReassessment,
		}
	}
}
