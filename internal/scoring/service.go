package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/ai"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/logger"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/utils"
	"go.uber.org/zap"
)

const defaultLogMaxLength = 200

// Resolver turns raw input (literal text or a link) into the text that goes into the prompt.
type Resolver interface {
	JobDescription(ctx context.Context, raw string) (string, error)
	CandidateInfo(ctx context.Context, raw string) (string, error)
}

// Request holds the raw inputs as the user typed them.
type Request struct {
	JobDescription string
	CV             string
}

// Result is a single scoring reply. The reply text is not parsed.
type Result struct {
	Reply    string
	Prompt   Prompt
	Provider string
	Model    string
	Elapsed  time.Duration
}

type Service struct {
	resolver     Resolver
	completer    ai.Completer
	logger       *zap.Logger
	logMaxLength int
}

func NewService(resolver Resolver, completer ai.Completer, log *zap.Logger, logMaxLength int) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("scoring: resolver is required")
	}
	if completer == nil {
		return nil, errors.New("scoring: completer is required")
	}
	if logMaxLength <= 0 {
		logMaxLength = defaultLogMaxLength
	}

	return &Service{
		resolver:     resolver,
		completer:    completer,
		logger:       logger.WithCommonFields(log, completer.Provider(), completer.Model()),
		logMaxLength: logMaxLength,
	}, nil
}

// Provider returns the name of the configured LLM provider.
func (s *Service) Provider() string {
	return s.completer.Provider()
}

// Score resolves both inputs, sends the prompt and returns the model reply.
func (s *Service) Score(ctx context.Context, req Request) (*Result, error) {
	job, err := s.resolver.JobDescription(ctx, req.JobDescription)
	if err != nil {
		return nil, fmt.Errorf("resolve job description: %w", err)
	}

	cv, err := s.resolver.CandidateInfo(ctx, req.CV)
	if err != nil {
		return nil, fmt.Errorf("resolve cv: %w", err)
	}

	prompt := NewPrompt(job, cv)

	s.logger.Debug("sending scoring prompt",
		zap.String("user_prompt", utils.PreviewForLog(prompt.User, s.logMaxLength)),
	)

	start := time.Now()
	reply, err := s.completer.Complete(ctx, prompt.System, prompt.User)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", s.completer.Provider(), err)
	}

	s.logger.Info("candidate scored", zap.Duration("elapsed", elapsed))
	s.logger.Debug("scoring reply", zap.String("reply", utils.PreviewForLog(reply, s.logMaxLength)))

	return &Result{
		Reply:    reply,
		Prompt:   prompt,
		Provider: s.completer.Provider(),
		Model:    s.completer.Model(),
		Elapsed:  elapsed,
	}, nil
}
