package timeutil

import "time"

// BeijingTZ 北京时区（东八区）
// 全局统一使用固定偏移，避免依赖运行环境的 tzdata
var BeijingTZ = time.FixedZone("Asia/Shanghai", 8*3600)

// Now 获取当前北京时间
// Token 签发/校验与所有业务时间判断必须使用同一时钟
func Now() time.Time {
	return time.Now().In(BeijingTZ)
}
