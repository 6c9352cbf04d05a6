package metrics

// Label 指标标签，为指标添加维度
//
// 标签值应相对稳定，避免使用表名以外的高基数取值（如 ID）。
type Label struct {
	Key   string
	Value string
}

// L 创建一个 Label
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

const (
	// 常见的标签
	LabelService   = "service"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
)

const (
	// 常见的结果
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Outcome 根据 err 返回结果标签值
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
