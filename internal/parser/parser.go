// Package parser 从模型返回的自由文本中提取 JSON 载荷，并把松散的结构
// 规范化为完整类型的问题 / 报告对象，绝不向下游传递缺字段的数据。
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"linglong-go/internal/model"
)

// ErrUnparseable 表示三种提取策略全部失败。
var ErrUnparseable = errors.New("无法解析 AI 响应")

var (
	fencedJSONRegex = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	braceSpanRegex  = regexp.MustCompile(`(?s)\{.*\}`)
)

// Parse 按顺序尝试三种提取策略，先成功者生效：
// 1) 整段文本直接解析；2) ```json 围栏代码块；3) 第一个贪婪 {...} 区间。
func Parse(raw string) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(raw), &result); err == nil {
		return result, nil
	}

	if m := fencedJSONRegex.FindStringSubmatch(raw); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &result); err == nil {
			return result, nil
		}
	}

	if span := braceSpanRegex.FindString(raw); span != "" {
		if err := json.Unmarshal([]byte(span), &result); err == nil {
			return result, nil
		}
	}

	return nil, ErrUnparseable
}

// rawQuestion 是模型输出的松散问题结构，字段均可能缺失。
type rawQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Context  string `json:"context"`
	Options  []struct {
		ID      string `json:"id"`
		Text    string `json:"text"`
		Subtext string `json:"subtext"`
	} `json:"options"`
}

// NormalizeQuestions 将解析结果中的问题列表规范化：
// 缺失的问题 id 按位置合成 "<idPrefix><n>"，缺失的选项 id 按位置补字母 a、b、c…。
func NormalizeQuestions(parsed map[string]any, idPrefix string) []model.AIQuestion {
	rawList, ok := parsed["questions"]
	if !ok || rawList == nil {
		return []model.AIQuestion{}
	}

	// 经由 JSON 往返把 any 列表落到带类型的结构上
	data, err := json.Marshal(rawList)
	if err != nil {
		return []model.AIQuestion{}
	}
	var raws []rawQuestion
	if err := json.Unmarshal(data, &raws); err != nil {
		return []model.AIQuestion{}
	}

	questions := make([]model.AIQuestion, 0, len(raws))
	for i, rq := range raws {
		q := model.AIQuestion{
			ID:       rq.ID,
			Question: rq.Question,
			Context:  rq.Context,
			Options:  make([]model.QuestionOption, 0, len(rq.Options)),
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s%d", idPrefix, i+1)
		}
		for j, opt := range rq.Options {
			o := model.QuestionOption{ID: opt.ID, Text: opt.Text, Subtext: opt.Subtext}
			if o.ID == "" {
				o.ID = string(rune('a' + j))
			}
			q.Options = append(q.Options, o)
		}
		questions = append(questions, q)
	}
	return questions
}

// Analysis 返回解析结果中的 analysis 文本，缺失时返回 fallback。
func Analysis(parsed map[string]any, fallback string) string {
	if s, ok := parsed["analysis"].(string); ok && s != "" {
		return s
	}
	return fallback
}

// ReadyForReport 返回模型的完成信号，缺失视为 false。
func ReadyForReport(parsed map[string]any) bool {
	b, ok := parsed["readyForReport"].(bool)
	return ok && b
}

// 报告字段的缺省文案
const (
	defaultSummary       = "命理分析报告"
	missingAnalysisText  = "暂无分析"
	fallbackAnalysisText = "请参阅总体分析"
)

type rawReport struct {
	Summary  string `json:"summary"`
	Analysis struct {
		Career    string `json:"career"`
		Education string `json:"education"`
		Family    string `json:"family"`
		Wealth    string `json:"wealth"`
		Health    string `json:"health"`
	} `json:"analysis"`
	KeyYears []model.KeyYear `json:"keyYears"`
	Advice   []string        `json:"advice"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// NormalizeReport 由解析成功的模型输出组装报告，缺失的分项用缺省文案补齐。
func NormalizeReport(parsed map[string]any, mingPan model.MingPan) model.FortuneReport {
	var rr rawReport
	if data, err := json.Marshal(parsed); err == nil {
		_ = json.Unmarshal(data, &rr)
	}

	now := time.Now().UnixMilli()
	report := model.FortuneReport{
		ID:      fmt.Sprintf("report_%d", now),
		MingPan: mingPan,
		Summary: orDefault(rr.Summary, defaultSummary),
		Analysis: model.ReportAnalysis{
			Career:    orDefault(rr.Analysis.Career, missingAnalysisText),
			Education: orDefault(rr.Analysis.Education, missingAnalysisText),
			Family:    orDefault(rr.Analysis.Family, missingAnalysisText),
			Wealth:    orDefault(rr.Analysis.Wealth, missingAnalysisText),
			Health:    orDefault(rr.Analysis.Health, missingAnalysisText),
		},
		KeyYears:    rr.KeyYears,
		Advice:      rr.Advice,
		GeneratedAt: now,
	}
	if report.KeyYears == nil {
		report.KeyYears = []model.KeyYear{}
	}
	if report.Advice == nil {
		report.Advice = []string{}
	}
	return report
}

// FallbackReport 在模型输出无法解析时合成降级报告：
// 摘要取原始文本前 500 字符，各分项指向总体分析，附固定三条建议。
func FallbackReport(raw string, mingPan model.MingPan) model.FortuneReport {
	summary := raw
	if runes := []rune(summary); len(runes) > 500 {
		summary = string(runes[:500])
	}
	now := time.Now().UnixMilli()
	return model.FortuneReport{
		ID:      fmt.Sprintf("report_%d", now),
		MingPan: mingPan,
		Summary: summary,
		Analysis: model.ReportAnalysis{
			Career:    fallbackAnalysisText,
			Education: fallbackAnalysisText,
			Family:    fallbackAnalysisText,
			Wealth:    fallbackAnalysisText,
			Health:    fallbackAnalysisText,
		},
		KeyYears:    []model.KeyYear{},
		Advice:      []string{"保持积极心态", "顺应自然规律", "努力奋进"},
		GeneratedAt: now,
	}
}
