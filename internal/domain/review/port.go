package review

import "context"

// Client sends a prompt to a remote model and returns its review.
// Any error means the model is unavailable for this request.
type Client interface {
	Query(ctx context.Context, prompt string) (*AnalysisResult, error)
}

// Analyzer produces a review locally without any I/O.
type Analyzer interface {
	Analyze(code string) AnalysisResult
}
