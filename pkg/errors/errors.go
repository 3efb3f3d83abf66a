package errors

import "errors"

// ErrConditionFailed 条件更新未命中：行不存在或前置条件不再成立
// 兑换码/邀请码消耗与点数扣减的原子更新返回 0 行时使用，
// 调用方需要重读记录来区分具体原因
var ErrConditionFailed = errors.New("条件更新未生效")
