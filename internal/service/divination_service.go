// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"

	"linglong-go/internal/bazi"
	"linglong-go/internal/model"
	"linglong-go/internal/parser"
	"linglong-go/internal/prompt"
	"linglong-go/pkg/llm"
	"linglong-go/pkg/log"
)

// 轮次边界：roundNumber 被钳制到 [1,10]，第 3 轮起强制结束问答。
const (
	MinRound        = 1
	MaxRound        = 10
	ForceCompleteAt = 3
)

// RoundResult 是一轮互动问答（initial / followup）的结果。
type RoundResult struct {
	Analysis   string             `json:"analysis"`
	Questions  []model.AIQuestion `json:"questions"`
	IsComplete bool               `json:"isComplete"`
	// ParseError 在模型输出无法解析时携带提示文案，此时 Analysis 为原始文本。
	ParseError string `json:"error,omitempty"`
}

// ChatResult 是报告后追问的结果，模型回复原样透传。
type ChatResult struct {
	Reply   string `json:"reply"`
	Success bool   `json:"success"`
}

// DivinationService 定义了命理对话编排的接口。
// 四种请求各自是一个无状态处理函数，全部历史由请求体携带。
type DivinationService interface {
	Initial(ctx context.Context, mingPan model.MingPan) (*RoundResult, error)
	Followup(ctx context.Context, mingPan model.MingPan, qaHistory []model.QARecord, roundNumber int) (*RoundResult, error)
	Report(ctx context.Context, mingPan model.MingPan, qaHistory []model.QARecord) (*model.FortuneReport, error)
	Chat(ctx context.Context, mingPan model.MingPan, reportSummary string, qaHistory []model.QARecord, chatHistory []model.ChatMessage, userQuestion string) (*ChatResult, error)
}

type divinationService struct {
	llmClient llm.Client
}

// NewDivinationService 创建一个新的 DivinationService 实例。
func NewDivinationService(llmClient llm.Client) DivinationService {
	return &divinationService{llmClient: llmClient}
}

func displayInfo(mingPan model.MingPan) prompt.DisplayInfo {
	return prompt.DisplayInfo{
		Name:      mingPan.UserInfo.Name,
		Gender:    mingPan.UserInfo.Gender,
		LunarDate: bazi.FormatLunarDate(mingPan.LunarDate),
	}
}

// ClampRound 将轮次钳制到 [MinRound, MaxRound]。
func ClampRound(round int) int {
	if round < MinRound {
		return MinRound
	}
	if round > MaxRound {
		return MaxRound
	}
	return round
}

// Initial 执行初步分析：解析失败不作为硬错误，以原始文本降级返回。
func (s *divinationService) Initial(ctx context.Context, mingPan model.MingPan) (*RoundResult, error) {
	messages := []llm.Message{
		{Role: "system", Content: prompt.MasterSystem},
		{Role: "user", Content: prompt.InitialAnalysis(mingPan.BaZiString, displayInfo(mingPan))},
	}
	content, err := s.llmClient.CompleteWithRetry(ctx, messages, llm.DefaultMaxTokens, llm.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(content)
	if err != nil {
		log.Error("初步分析响应解析失败", err)
		return &RoundResult{
			Analysis:   content,
			Questions:  []model.AIQuestion{},
			IsComplete: false,
			ParseError: "解析响应时出错，请重试",
		}, nil
	}

	return &RoundResult{
		Analysis:   parser.Analysis(parsed, "正在分析您的八字..."),
		Questions:  parser.NormalizeQuestions(parsed, "q"),
		IsComplete: false,
	}, nil
}

// Followup 执行追加问答。roundNumber >= ForceCompleteAt 时无条件结束问答，
// 清空问题列表并忽略模型自己的 readyForReport 信号；阈值之下由该信号决定。
func (s *divinationService) Followup(ctx context.Context, mingPan model.MingPan, qaHistory []model.QARecord, roundNumber int) (*RoundResult, error) {
	roundNumber = ClampRound(roundNumber)
	messages := []llm.Message{
		{Role: "system", Content: prompt.MasterSystem},
		{Role: "user", Content: prompt.FollowUp(mingPan.BaZiString, displayInfo(mingPan), qaHistory, roundNumber)},
	}
	content, err := s.llmClient.CompleteWithRetry(ctx, messages, llm.DefaultMaxTokens, llm.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(content)
	if err != nil {
		log.Error("追问响应解析失败", err)
		return &RoundResult{
			Analysis:   content,
			Questions:  []model.AIQuestion{},
			IsComplete: false,
			ParseError: "解析响应时出错",
		}, nil
	}

	questions := parser.NormalizeQuestions(parsed, fmt.Sprintf("q%d_", roundNumber))
	forceComplete := roundNumber >= ForceCompleteAt
	if forceComplete {
		questions = []model.AIQuestion{}
	}

	return &RoundResult{
		Analysis:   parser.Analysis(parsed, ""),
		Questions:  questions,
		IsComplete: forceComplete || parser.ReadyForReport(parsed),
	}, nil
}

// Report 生成最终报告。只要模型调用本身成功，必定产出一份结构完整的报告：
// 解析失败时落到合成的降级报告上，不向用户暴露解析错误。
func (s *divinationService) Report(ctx context.Context, mingPan model.MingPan, qaHistory []model.QARecord) (*model.FortuneReport, error) {
	messages := []llm.Message{
		{Role: "system", Content: prompt.MasterSystem},
		{Role: "user", Content: prompt.FinalReport(mingPan.BaZiString, displayInfo(mingPan), qaHistory)},
	}
	content, err := s.llmClient.CompleteWithRetry(ctx, messages, llm.ReportMaxTokens, llm.ReportTimeout)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(content)
	if err != nil {
		log.Error("报告响应解析失败，使用降级报告", err)
		report := parser.FallbackReport(content, mingPan)
		return &report, nil
	}

	report := parser.NormalizeReport(parsed, mingPan)
	return &report, nil
}

// Chat 处理报告后的开放式追问，自然语言进出，不做 JSON 解析。
// 空问题的拒绝发生在 handler 层，任何网络调用之前。
func (s *divinationService) Chat(ctx context.Context, mingPan model.MingPan, reportSummary string, qaHistory []model.QARecord, chatHistory []model.ChatMessage, userQuestion string) (*ChatResult, error) {
	messages := []llm.Message{
		{Role: "system", Content: prompt.MasterSystem},
		{Role: "user", Content: prompt.FollowUpChat(mingPan.BaZiString, displayInfo(mingPan), reportSummary, qaHistory, chatHistory, userQuestion)},
	}
	content, err := s.llmClient.CompleteWithRetry(ctx, messages, llm.DefaultMaxTokens, llm.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return &ChatResult{Reply: content, Success: true}, nil
}
