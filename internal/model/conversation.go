package model

// 对话内容的长度上限
const (
	MaxQAHistoryLength   = 20  // 问答记录条数上限
	MaxChatHistoryLength = 30  // 追问消息条数上限
	MaxAnswerLength      = 500 // 单条问答 / 追问内容字符上限
)

// QARecord 是一轮互动问答的记录，追加后不再修改。
type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionOption 是 AI 选择题的一个选项。
type QuestionOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Subtext string `json:"subtext,omitempty"` // 可选的补充说明
}

// AIQuestion 是 AI 提出的选择题。每轮整体替换，不做合并。
type AIQuestion struct {
	ID       string           `json:"id"`
	Question string           `json:"question"`
	Context  string           `json:"context"` // 问题的背景说明
	Options  []QuestionOption `json:"options"`
}

// ChatMessage 是报告生成后的追问消息。
type ChatMessage struct {
	Role    string `json:"role"` // user / assistant
	Content string `json:"content"`
}
