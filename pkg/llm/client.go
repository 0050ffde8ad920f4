// Package llm provides a client for the external chat-completion service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nichestudioai/aibnb-superhost/internal/config"
)

// ErrAPIKeyMissing 表示未配置补全服务的凭证。
// 缺少凭证属于致命配置错误，客户端在构造时立即失败，而不是在调用时才发现。
var ErrAPIKeyMissing = errors.New("llm: api key is not configured")

// UpstreamError 表示补全服务返回了非成功状态或结构不完整的响应。
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: upstream error: %s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm: upstream returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm: upstream error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for an LLM client.
type Client interface {
	// Chat 以 role-based 消息调用聊天接口并返回生成的完整文本。
	// 采样温度和响应长度上限在每次调用中固定，不支持按调用调参。
	Chat(ctx context.Context, messages []Message) (string, error)
}

type openaiClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient 基于配置创建一个新的 LLM 客户端。
// 凭证缺失时返回 ErrAPIKeyMissing。
func NewClient(cfg config.LLMConfig) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyMissing
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	return &openaiClient{
		cfg:    cfg,
		client: &http.Client{},
	}, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat 调用 /chat/completions 接口，单次请求/响应交换，不使用流式传输。
func (c *openaiClient) Chat(ctx context.Context, messages []Message) (string, error) {
	reqBody := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Message: "failed to call chat api", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 错误响应体只读取有限长度，用于日志定位
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: string(bodyBytes)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &UpstreamError{Message: "failed to read chat response", Err: err}
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", &UpstreamError{Message: "failed to decode chat response", Err: err}
	}
	if len(payload.Choices) == 0 {
		return "", &UpstreamError{Message: "no choices in chat response"}
	}

	return payload.Choices[0].Message.Content, nil
}
