// Package fallback reviews code locally with literal text-pattern rules.
// It is used when the remote model cannot answer.
package fallback

import (
	"strings"

	"github.com/bryanwahyu/coderefine/internal/domain/review"
)

const (
	baselineScore = 85
	cleanScore    = 95

	baselineExplanation = "Demo mode: Basic improvements applied."
)

// draft is the mutable state a rule edits on top of the baselines.
type draft struct {
	score         int
	issues        []string
	optimizations []string
	complexity    string
	improvedCode  string
	explanation   string
}

type rule struct {
	name    string
	matches func(code string) bool
	apply   func(d *draft)
}

// rules are evaluated in order and only the first match is applied.
// The checks are plain substring tests: "None" inside an identifier still
// matches, and rule order decides overlaps.
var rules = []rule{
	{
		name: "counted-loop",
		matches: func(code string) bool {
			return strings.Contains(code, "for ") && strings.Contains(code, "range(len(")
		},
		apply: func(d *draft) {
			d.issues = append(d.issues, "Avoid using range(len()) pattern, use direct iteration.")
			d.optimizations = append(d.optimizations, "Use enumerate() or iterate directly over the collection.")
			d.complexity = review.ComplexityQuadratic
			d.score -= 15
			d.improvedCode = strings.ReplaceAll(d.improvedCode, "range(len(", "enumerate(")
			d.explanation = "Replaced range(len()) with enumerate() for better performance."
		},
	},
	{
		name: "equality-none-check",
		matches: func(code string) bool {
			return strings.Contains(code, "==") && strings.Contains(code, "None")
		},
		apply: func(d *draft) {
			d.issues = append(d.issues, "Use 'is None' for None checks.")
			d.optimizations = append(d.optimizations, "Use identity check 'is None' instead of equality '== None'.")
			d.score -= 5
			d.improvedCode = strings.ReplaceAll(d.improvedCode, "== None", "is None")
			d.explanation = "Fixed None comparison to use 'is None'."
		},
	},
	{
		name: "accumulation-loop",
		matches: func(code string) bool {
			return strings.Contains(code, "append") && strings.Contains(code, "for")
		},
		apply: func(d *draft) {
			d.issues = append(d.issues, "Consider using list comprehension for better performance.")
			d.optimizations = append(d.optimizations, "List comprehensions are generally faster than explicit loops.")
			d.score -= 10
			d.explanation = "Consider refactoring to list comprehension."
		},
	},
}

// applyClean is the default when no rule matches. It overrides the baselines.
func applyClean(d *draft) {
	d.issues = append(d.issues, "Code looks reasonably clean.")
	d.optimizations = append(d.optimizations, "Consider adding type hints for better readability.")
	d.complexity = review.ComplexityConstant
	d.score = cleanScore
}

// Analyzer is the rule-cascade implementation of review.Analyzer.
// It holds no state and is safe for concurrent use.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

// Analyze never fails. The Mode field is left empty for the caller to stamp.
// SecurityConcerns is always the NoneFound placeholder: no rule inspects security.
func (Analyzer) Analyze(code string) review.AnalysisResult {
	d := draft{
		score:        baselineScore,
		complexity:   review.ComplexityLinear,
		improvedCode: strings.TrimSpace(code),
		explanation:  baselineExplanation,
	}

	apply := applyClean
	for _, r := range rules {
		if r.matches(code) {
			apply = r.apply
			break
		}
	}
	apply(&d)

	optimizations := d.optimizations
	if len(optimizations) == 0 {
		optimizations = []string{review.NoneFound}
	}

	return review.AnalysisResult{
		Score:            review.ClampScore(d.score),
		Issues:           d.issues,
		Optimizations:    optimizations,
		SecurityConcerns: []string{review.NoneFound},
		Complexity:       d.complexity,
		ImprovedCode:     d.improvedCode,
		Explanation:      d.explanation,
	}
}
