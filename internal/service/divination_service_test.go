package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"linglong-go/internal/model"
	"linglong-go/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLMClient 按预置脚本逐次返回响应，并记录每次调用的参数。
type fakeLLMClient struct {
	responses []string
	err       error
	calls     int
	maxTokens []int
	timeouts  []time.Duration
	messages  [][]llm.Message
}

func (f *fakeLLMClient) Complete(ctx context.Context, messages []llm.Message, maxTokens int, timeout time.Duration) (string, error) {
	return f.CompleteWithRetry(ctx, messages, maxTokens, timeout)
}

func (f *fakeLLMClient) CompleteWithRetry(ctx context.Context, messages []llm.Message, maxTokens int, timeout time.Duration) (string, error) {
	f.calls++
	f.maxTokens = append(f.maxTokens, maxTokens)
	f.timeouts = append(f.timeouts, timeout)
	f.messages = append(f.messages, messages)
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func testMingPan() model.MingPan {
	return model.MingPan{
		UserInfo:    model.UserInfo{Name: "张三", Gender: model.GenderMale, BirthDate: "1990-05-15", BirthTime: "午"},
		LunarDate:   model.LunarDate{Year: 1990, Month: 4, Day: 21},
		BaZi:        model.BaZi{DayPillar: model.Pillar{TianGan: "庚", DiZhi: "辰"}},
		BaZiString:  "庚午 辛巳 庚辰 壬午",
		WuXingStats: model.WuXingStats{"金": 3, "火": 3, "土": 1, "水": 1, "木": 0},
		DayMaster:   "庚",
	}
}

const initialJSON = `{
	"analysis": "日主庚金，生于巳月。",
	"questions": [
		{"question": "您的性格更偏向？", "options": [{"text": "果断"}, {"text": "沉稳"}]}
	]
}`

func TestInitialParsesAndNormalizes(t *testing.T) {
	fake := &fakeLLMClient{responses: []string{initialJSON}}
	svc := NewDivinationService(fake)

	result, err := svc.Initial(context.Background(), testMingPan())
	require.NoError(t, err)

	assert.Equal(t, "日主庚金，生于巳月。", result.Analysis)
	assert.False(t, result.IsComplete)
	assert.Empty(t, result.ParseError)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "q1", result.Questions[0].ID)
	assert.Equal(t, "a", result.Questions[0].Options[0].ID)
	assert.Equal(t, "b", result.Questions[0].Options[1].ID)

	// 互动轮次使用短超时小预算
	assert.Equal(t, llm.DefaultMaxTokens, fake.maxTokens[0])
	assert.Equal(t, llm.DefaultTimeout, fake.timeouts[0])
	// system + user 两条消息
	require.Len(t, fake.messages[0], 2)
	assert.Equal(t, "system", fake.messages[0][0].Role)
	assert.Contains(t, fake.messages[0][1].Content, "庚午 辛巳 庚辰 壬午")
}

func TestInitialDegradesOnUnparseableOutput(t *testing.T) {
	raw := "大师今天不想输出 JSON，只想聊聊天。"
	fake := &fakeLLMClient{responses: []string{raw}}
	svc := NewDivinationService(fake)

	result, err := svc.Initial(context.Background(), testMingPan())
	require.NoError(t, err)

	// 原始文本作为分析降级返回，而不是硬错误
	assert.Equal(t, raw, result.Analysis)
	assert.Empty(t, result.Questions)
	assert.False(t, result.IsComplete)
	assert.NotEmpty(t, result.ParseError)
}

func TestInitialAnalysisDefault(t *testing.T) {
	fake := &fakeLLMClient{responses: []string{`{"questions": []}`}}
	svc := NewDivinationService(fake)

	result, err := svc.Initial(context.Background(), testMingPan())
	require.NoError(t, err)
	assert.Equal(t, "正在分析您的八字...", result.Analysis)
}

func TestInitialPropagatesClientError(t *testing.T) {
	fake := &fakeLLMClient{err: errors.New("network down")}
	svc := NewDivinationService(fake)

	_, err := svc.Initial(context.Background(), testMingPan())
	assert.EqualError(t, err, "network down")
}

func TestFollowupBeforeThresholdHonorsModelSignal(t *testing.T) {
	withQuestions := `{"analysis": "印证", "readyForReport": false,
		"questions": [{"question": "新问题", "options": [{"text": "A"}]}]}`
	fake := &fakeLLMClient{responses: []string{withQuestions}}
	svc := NewDivinationService(fake)

	result, err := svc.Followup(context.Background(), testMingPan(), nil, 2)
	require.NoError(t, err)
	assert.False(t, result.IsComplete)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "q2_1", result.Questions[0].ID)
}

func TestFollowupReadySignalCompletes(t *testing.T) {
	fake := &fakeLLMClient{responses: []string{`{"analysis": "够了", "readyForReport": true, "questions": []}`}}
	svc := NewDivinationService(fake)

	result, err := svc.Followup(context.Background(), testMingPan(), nil, 2)
	require.NoError(t, err)
	assert.True(t, result.IsComplete)
	assert.Empty(t, result.Questions)
}

func TestFollowupForcedCompletionAtRoundThree(t *testing.T) {
	// 模型仍然给问题且不认为就绪，第 3 轮起强制完成并清空问题
	stubborn := `{"analysis": "还想再问", "readyForReport": false,
		"questions": [{"question": "再来一题", "options": [{"text": "A"}]}]}`
	for _, round := range []int{3, 4, 10} {
		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			fake := &fakeLLMClient{responses: []string{stubborn}}
			svc := NewDivinationService(fake)

			result, err := svc.Followup(context.Background(), testMingPan(), nil, round)
			require.NoError(t, err)
			assert.True(t, result.IsComplete)
			assert.Empty(t, result.Questions)
		})
	}
}

func TestFollowupSequenceCompletesNoLaterThanRoundThree(t *testing.T) {
	stubborn := `{"analysis": "a", "readyForReport": false,
		"questions": [{"question": "q", "options": [{"text": "A"}]}]}`
	svc := NewDivinationService(&fakeLLMClient{responses: []string{stubborn}})

	qa := []model.QARecord{}
	completedAt := 0
	for round := 1; round <= 4; round++ {
		result, err := svc.Followup(context.Background(), testMingPan(), qa, round)
		require.NoError(t, err)
		if result.IsComplete && completedAt == 0 {
			completedAt = round
		}
		qa = append(qa, model.QARecord{Question: "q", Answer: "A"})
	}
	assert.Equal(t, 3, completedAt)
}

func TestFollowupClampsRound(t *testing.T) {
	assert.Equal(t, 1, ClampRound(0))
	assert.Equal(t, 1, ClampRound(-5))
	assert.Equal(t, 10, ClampRound(99))
	assert.Equal(t, 7, ClampRound(7))
}

func TestReportUsesLargerBudgetAndTimeout(t *testing.T) {
	fake := &fakeLLMClient{responses: []string{`{"summary": "总述", "analysis": {"career": "事业"}}`}}
	svc := NewDivinationService(fake)

	report, err := svc.Report(context.Background(), testMingPan(), nil)
	require.NoError(t, err)

	assert.Equal(t, llm.ReportMaxTokens, fake.maxTokens[0])
	assert.Equal(t, llm.ReportTimeout, fake.timeouts[0])
	assert.Equal(t, "总述", report.Summary)
	assert.Equal(t, "事业", report.Analysis.Career)
	assert.Equal(t, "暂无分析", report.Analysis.Family)
}

func TestReportAlwaysProducedOnProseOutput(t *testing.T) {
	prose := "这完全是一段散文，没有任何结构化内容。"
	fake := &fakeLLMClient{responses: []string{prose}}
	svc := NewDivinationService(fake)

	report, err := svc.Report(context.Background(), testMingPan(), nil)
	require.NoError(t, err)

	assert.Equal(t, prose, report.Summary)
	assert.Equal(t, "请参阅总体分析", report.Analysis.Career)
	assert.Len(t, report.Advice, 3)
	assert.Equal(t, "庚午 辛巳 庚辰 壬午", report.MingPan.BaZiString)
}

func TestChatReturnsReplyVerbatim(t *testing.T) {
	reply := "从您的八字看，今年宜守不宜攻。{这不是JSON}"
	fake := &fakeLLMClient{responses: []string{reply}}
	svc := NewDivinationService(fake)

	result, err := svc.Chat(context.Background(), testMingPan(), "报告摘要",
		[]model.QARecord{{Question: "q", Answer: "a"}},
		[]model.ChatMessage{{Role: "user", Content: "之前的问题"}},
		"我明年适合跳槽吗")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, reply, result.Reply)
	// 追问提示词带上了报告摘要与当前问题
	assert.Contains(t, fake.messages[0][1].Content, "报告摘要")
	assert.Contains(t, fake.messages[0][1].Content, "我明年适合跳槽吗")
}
