// Package llm provides a client for interacting with Large Language Models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"linglong-go/internal/config"
)

// 两档调用规格：互动轮次用短超时小预算，报告生成内容多，需要更大预算和更长超时。
const (
	DefaultTimeout   = 45 * time.Second
	ReportTimeout    = 90 * time.Second
	DefaultMaxTokens = 1500
	ReportMaxTokens  = 2500

	maxRetryAttempts = 2
	retryDelay       = time.Second
)

// ErrTimeout 表示对话接口在规定时间内未返回。
var ErrTimeout = errors.New("AI 响应超时，请稍后重试")

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"` // system / user / assistant
	Content string `json:"content"`
}

// Client 定义对话补全客户端的接口。
type Client interface {
	// Complete 发起一次非流式对话补全，返回首个 choice 的文本内容。
	Complete(ctx context.Context, messages []Message, maxTokens int, timeout time.Duration) (string, error)
	// CompleteWithRetry 在 Complete 之上做有限重试：最多两次尝试，失败间隔一秒。
	CompleteWithRetry(ctx context.Context, messages []Message, maxTokens int, timeout time.Duration) (string, error)
}

type deepseekClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient creates a new LLM client based on the provider in the config.
func NewClient(cfg config.LLMConfig) Client {
	return &deepseekClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *deepseekClient) Complete(ctx context.Context, messages []Message, maxTokens int, timeout time.Duration) (string, error) {
	// 凭证缺失时在任何网络调用之前失败
	if c.cfg.APIKey == "" {
		return "", errors.New("DEEPSEEK_API_KEY is not configured")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	reqBody := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
		Stream:      false,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		// 超时单独上报，不与其他网络错误混淆
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat api returned non-2xx status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	// 响应结构不符合预期时返回空串而非报错
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return chatResp.Choices[0].Message.Content, nil
}

func (c *deepseekClient) CompleteWithRetry(ctx context.Context, messages []Message, maxTokens int, timeout time.Duration) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		content, err := c.Complete(ctx, messages, maxTokens, timeout)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if attempt < maxRetryAttempts {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return "", lastErr
			}
		}
	}
	return "", lastErr
}
