package model

// ReportAnalysis 是报告的五个分项分析。
type ReportAnalysis struct {
	Career    string `json:"career"`
	Education string `json:"education"`
	Family    string `json:"family"`
	Wealth    string `json:"wealth"`
	Health    string `json:"health"`
}

// KeyYear 是报告中的关键年份预测。
type KeyYear struct {
	Year        string `json:"year"`
	Description string `json:"description"`
}

// FortuneReport 是最终的命理分析报告，生成一次后不可变。
type FortuneReport struct {
	ID          string         `json:"id"` // report_<毫秒时间戳>
	MingPan     MingPan        `json:"mingPan"`
	Summary     string         `json:"summary"`
	Analysis    ReportAnalysis `json:"analysis"`
	KeyYears    []KeyYear      `json:"keyYears"`
	Advice      []string       `json:"advice"`
	GeneratedAt int64          `json:"generatedAt"` // Unix 毫秒
}
