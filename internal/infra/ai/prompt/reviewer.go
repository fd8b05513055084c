package prompt

import (
	"fmt"
	"strings"
)

// StatusProbe is the trivial prompt sent to check that the model answers.
const StatusProbe = "hello"

// GetSystemPrompt provides reviewer directions and the exact JSON keys expected back.
func GetSystemPrompt() string {
	return `You are an expert Python code reviewer. Analyze the following code and provide a JSON response.

INSTRUCTIONS:
- Identify specific issues in the code (e.g., inefficient loops, bad variable names, redundant logic).
- Provide concrete optimization suggestions specific to this code.
- Write the IMPROVED version of the code that fixes these issues.
- Give an explanation of what was changed and why.

The response MUST be valid JSON with these exact keys:
1. "score": integer (0-100) - Rate readability, efficiency, security.
2. "issues": list of strings - Specific issues found in THIS code.
3. "optimizations": list of strings - Specific suggestions for THIS code.
4. "security_concerns": list of strings - Security risks in THIS code.
5. "complexity": string - Time and space complexity.
6. "improved_code": string - ONLY the raw improved code, NO markdown fences.
7. "explanation": string - Brief summary of changes.`
}

// GetUserPrompt wraps the submitted code.
func GetUserPrompt(code string) string {
	return fmt.Sprintf("CODE TO ANALYZE:\n%s\n", code)
}

// Build joins the system and user parts into the single prompt sent to the model.
func Build(code string) string {
	var b strings.Builder
	b.WriteString(GetSystemPrompt())
	b.WriteString("\n\n")
	b.WriteString(GetUserPrompt(code))
	return b.String()
}
