package service

import "errors"

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInternalServer       = errors.New("internal server error")
)

// Outcome 区分静默降级的各种结果。
// 对外契约仍然是"静默不生效"——处理器对所有非错误结果返回同样的
// 响应——但内部显式区分，测试才能分辨"被拒绝"和"成功"。
type Outcome int

const (
	// OutcomeApplied 表示变更已生效
	OutcomeApplied Outcome = iota
	// OutcomeRejected 表示输入校验未通过（空标题、越界优先级等）
	OutcomeRejected
	// OutcomeDenied 表示权限不足
	OutcomeDenied
	// OutcomeNotFound 表示目标记录不存在
	OutcomeNotFound
)

// String 返回结果的日志表示。
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDenied:
		return "denied"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
