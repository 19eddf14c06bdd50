package driven

import "context"

// AnswerGenerator produces a natural-language answer from a question
// and an assembled context block. It is a black box to the core:
// the pipeline only guarantees it is never invoked with an empty
// context. Calls should honour the caller's context deadline; a
// timeout never affects stored state.
type AnswerGenerator interface {
	// Generate answers the question using only the supplied context.
	Generate(ctx context.Context, question, contextText string) (string, error)
}
