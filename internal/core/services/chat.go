package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/quarry-labs/sitechat-cli/internal/logger"
)

// NoInformationAnswer is returned when no grounding context exists.
// The generator is never invoked in that case.
const NoInformationAnswer = "I couldn't find any information about that on the indexed pages."

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService runs the full pipeline: retrieve candidate chunks,
// assemble a budgeted context, generate an answer.
type ChatService struct {
	retriever driving.RetrievalService
	assembler *ContextAssembler
	generator driven.AnswerGenerator
}

// NewChatService creates a chat service. The generator may be nil;
// asking then fails with domain.ErrGeneratorUnavailable once grounding
// context exists (retrieval and assembly still run).
func NewChatService(
	retriever driving.RetrievalService,
	assembler *ContextAssembler,
	generator driven.AnswerGenerator,
) *ChatService {
	return &ChatService{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
	}
}

// Ask answers a question grounded in stored chunks. Retrieval and
// assembly are read-only and idempotent, so a generation timeout never
// affects stored state and the whole call is safe to retry.
func (s *ChatService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*driving.Answer, error) {
	start := time.Now()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required: %w", domain.ErrInvalidInput)
	}

	scored, err := s.retriever.Retrieve(ctx, question, domain.RetrieveOptions{
		Limit:      opts.Limit,
		MaxPerPage: opts.MaxPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	block := s.assembler.Assemble(scored, opts.ContextBudget)
	if block.Empty() {
		logger.Info("No grounding context for %q", question)
		return &driving.Answer{
			Text:         NoInformationAnswer,
			ContextFound: false,
			Elapsed:      time.Since(start),
		}, nil
	}

	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}

	logger.Debug("Generating answer from %d context chunks", len(block.Included))
	text, err := s.generator.Generate(ctx, question, block.Text)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &driving.Answer{
		Text:         text,
		SourceURLs:   block.SourceURLs(),
		ContextFound: true,
		Elapsed:      time.Since(start),
	}, nil
}
