package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// openAIClient implements LLMClient using the OpenAI chat completions API.
type openAIClient struct {
	cfg      LLMConfig
	client   *openai.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient backed by OpenAI chat completions.
// A non-empty cfg.Endpoint replaces the default API base URL.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		oc.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	}
	oc.HTTPClient = &http.Client{}
	return &openAIClient{
		cfg:      cfg,
		client:   openai.NewClientWithConfig(oc),
		observer: observer,
	}
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	if c.cfg.APIKey == "" {
		err := fmt.Errorf("%w: OpenAI API key not configured", ErrNotConfigured)
		c.report(req.Task, start, err)
		return nil, err
	}

	temp, maxTok := c.cfg.params(req)

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: float32(temp),
		MaxTokens:   maxTok,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var (
		resp    openai.ChatCompletionResponse
		lastErr error
	)
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		resp, lastErr = c.client.CreateChatCompletion(ctx, chatReq)
		if lastErr == nil || ctx.Err() != nil || !retryable(lastErr) {
			break
		}
	}

	if lastErr != nil {
		var err error
		switch {
		case ctx.Err() != nil:
			err = ErrTimeout
		case isConnectionError(lastErr):
			err = ErrUnavailable
		default:
			err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
		}
		c.report(req.Task, start, err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w: no choices in response", ErrInvalidOutput)
		c.report(req.Task, start, err)
		return nil, err
	}

	c.report(req.Task, start, nil)
	model := resp.Model
	if model == "" {
		model = c.cfg.Model
	}
	return &GenerateResponse{
		Text:      resp.Choices[0].Message.Content,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// Available reports whether a credential is configured. It does not call
// the API.
func (c *openAIClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}

func (c *openAIClient) report(task TaskType, start time.Time, err error) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

// retryable reports whether a failed call may succeed on a second attempt.
// Client errors other than rate limiting are final.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return true
}
