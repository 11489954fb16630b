package model

import (
	"encoding/json"
	"errors"
)

// SessionPhase 是会话阶段，只能向前推进（重置除外）。
type SessionPhase string

const (
	PhaseInput      SessionPhase = "input"      // 信息录入阶段
	PhaseAnalyzing  SessionPhase = "analyzing"  // 分析中
	PhaseInquiry    SessionPhase = "inquiry"    // 互动问答阶段
	PhaseGenerating SessionPhase = "generating" // 生成报告中
	PhaseReport     SessionPhase = "report"     // 查看报告阶段
)

// MaxSnapshotBytes 是编码后会话快照的体积上限。
const MaxSnapshotBytes = 64 * 1024

// ErrSnapshotTooLarge 表示快照在降级后仍超出体积上限。
var ErrSnapshotTooLarge = errors.New("会话快照超出大小限制")

// SessionSnapshot 是可跨页面刷新恢复的会话状态快照。
type SessionSnapshot struct {
	Phase            SessionPhase   `json:"phase"`
	UserInfo         *UserInfo      `json:"userInfo,omitempty"`
	MingPan          *MingPan       `json:"mingPan,omitempty"`
	QAHistory        []QARecord     `json:"qaHistory,omitempty"`
	CurrentQuestions []AIQuestion   `json:"currentQuestions,omitempty"`
	Report           *FortuneReport `json:"report,omitempty"`
	ChatHistory      []ChatMessage  `json:"chatHistory,omitempty"`
	SavedAt          int64          `json:"savedAt"`
}

// EncodeSnapshot 将快照编码为 JSON。超出体积上限时按固定顺序降级：
// 先丢弃报告（最大的字段），再丢弃追问历史；仍超限则返回 ErrSnapshotTooLarge。
func EncodeSnapshot(s *SessionSnapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if len(data) <= MaxSnapshotBytes {
		return data, nil
	}

	trimmed := *s
	trimmed.Report = nil
	data, err = json.Marshal(&trimmed)
	if err != nil {
		return nil, err
	}
	if len(data) <= MaxSnapshotBytes {
		return data, nil
	}

	trimmed.ChatHistory = nil
	data, err = json.Marshal(&trimmed)
	if err != nil {
		return nil, err
	}
	if len(data) <= MaxSnapshotBytes {
		return data, nil
	}
	return nil, ErrSnapshotTooLarge
}

// DecodeSnapshot 从 JSON 还原会话快照。
func DecodeSnapshot(data []byte) (*SessionSnapshot, error) {
	var s SessionSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
