// Package model 定义了应用的核心数据结构。
package model

// 性别取值
const (
	GenderMale   = "男"
	GenderFemale = "女"
)

// UserInfo 是用户录入的出生信息，会话创建后不再变更。
type UserInfo struct {
	Name       string `json:"name"`                 // 1-20 字符（清洗后）
	Gender     string `json:"gender"`               // 男 / 女
	BirthDate  string `json:"birthDate"`            // YYYY-MM-DD，年份 1900-2100
	BirthTime  string `json:"birthTime"`            // 时辰地支，如 "午"
	BirthPlace string `json:"birthPlace,omitempty"` // 可选，≤50 字符
}

// ShiChen 表示一个两小时的时辰区间，用于录入表单。
type ShiChen struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Range string `json:"range"`
}
