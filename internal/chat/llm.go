package chat

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dearhome/assistant-go/internal/apperrors"
)

// Completer 单轮文本补全的抽象，参数提取只依赖这一个方法
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Ready() bool
}

// OpenAICompleter 基于 OpenAI Chat Completions 的实现
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAICompleter 创建补全客户端，apiKey 为空时返回不可用实例
func NewOpenAICompleter(apiKey, model string, temperature float64, maxTokens int) *OpenAICompleter {
	c := &OpenAICompleter{
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
	if c.model == "" {
		c.model = openai.GPT4oMini
	}
	if apiKey != "" {
		c.client = openai.NewClient(apiKey)
	}
	return c
}

func (c *OpenAICompleter) Ready() bool {
	return c.client != nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", apperrors.New(apperrors.ErrCodeExternalService, "OpenAI 客户端未初始化")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeExternalService, "调用补全接口失败", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrCodeExternalService, "补全接口返回空结果")
	}
	return resp.Choices[0].Message.Content, nil
}
