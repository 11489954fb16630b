// Package sanitize 对所有外部输入的文本做清洗：限制长度并过滤 prompt injection。
package sanitize

import (
	"regexp"
	"strings"
)

// 注入特征模式，命中即整体移除（大小写不敏感，全局替换）。
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)忽略\s*以上\s*指令`),
	regexp.MustCompile(`(?i)ignore\s*(previous|above|prior)\s*(instructions?|prompts?)`),
	regexp.MustCompile(`(?i)system\s*:\s*`),
	regexp.MustCompile(`(?i)<\s*script\s*>`),
	regexp.MustCompile(`(?i)\[\s*INST\s*\]`),
	regexp.MustCompile(`(?i)\[\s*/\s*INST\s*\]`),
}

// Clean 去除首尾空白、按字符数截断到 maxLen，再移除所有注入特征。
// 纯数据清洗，永不报错；空输入得到空字符串。
func Clean(text string, maxLen int) string {
	s := strings.TrimSpace(text)
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	for _, p := range injectionPatterns {
		s = p.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
