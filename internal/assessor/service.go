package assessor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/prescreen/internal/analysis"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/llm"
)

// Service turns a questionnaire into an assessment through a language model.
type Service struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewService creates a Service. A nil client makes every call fail with
// llm.ErrNotConfigured.
func NewService(client llm.LLMClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// Assess prompts the model with fields and normalises its JSON answer.
func (s *Service) Assess(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error) {
	if s.client == nil {
		return domain.AnalysisResult{}, llm.ErrNotConfigured
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskAssess,
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildPrompt(fields),
		JSON:         true,
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("generating assessment: %w", err)
	}

	var result domain.AnalysisResult
	_, err = llm.ExtractJSON[map[string]json.RawMessage](resp.Text, func(obj map[string]json.RawMessage) (err error) {
		result, err = analysis.NormalizeObject(obj)
		return err
	})
	if err != nil {
		s.logger.Warn("assessment rejected", "model", resp.Model, "error", err)
		return domain.AnalysisResult{}, err
	}
	return result, nil
}

// Analyze lets a Service stand in for the remote collaborator.
func (s *Service) Analyze(ctx context.Context, fields domain.FieldMap) (domain.AnalysisResult, error) {
	return s.Assess(ctx, fields)
}
