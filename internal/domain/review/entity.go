package review

// Mode tags which analysis path produced a result.
type Mode string

const (
	ModeGemini Mode = "gemini"
	ModeDemo   Mode = "demo"
)

// Big-O labels used by the fallback analyzer.
const (
	ComplexityConstant  = "O(1)"
	ComplexityLinear    = "O(n)"
	ComplexityQuadratic = "O(n^2)"
)

// NoneFound is the placeholder for a list with nothing to report.
const NoneFound = "None found"

const (
	MinScore = 0
	MaxScore = 100
)

// AnalysisResult is the review returned for a single code submission.
type AnalysisResult struct {
	Score            int      `json:"score"`
	Issues           []string `json:"issues"`
	Optimizations    []string `json:"optimizations"`
	SecurityConcerns []string `json:"security_concerns"`
	Complexity       string   `json:"complexity"`
	ImprovedCode     string   `json:"improved_code"`
	Explanation      string   `json:"explanation"`
	Mode             Mode     `json:"mode"`
}

// ClampScore bounds s to [MinScore, MaxScore].
func ClampScore(s int) int {
	return max(MinScore, min(MaxScore, s))
}

// Normalize clamps the score and replaces empty lists with the NoneFound
// placeholder so no list is ever serialized as null or [].
func (r *AnalysisResult) Normalize() {
	r.Score = ClampScore(r.Score)
	r.Issues = orNoneFound(r.Issues)
	r.Optimizations = orNoneFound(r.Optimizations)
	r.SecurityConcerns = orNoneFound(r.SecurityConcerns)
}

func orNoneFound(xs []string) []string {
	if len(xs) == 0 {
		return []string{NoneFound}
	}
	return xs
}
