package domain

import "errors"

var (
	// ErrEvaluationNotFound 评估记录不存在
	ErrEvaluationNotFound = errors.New("evaluation not found")
	// ErrComputationFailed 评分或建议生成过程中出现意外错误
	ErrComputationFailed = errors.New("error calculating risk score")
)
