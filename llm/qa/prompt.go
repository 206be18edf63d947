package qa

import (
	"fmt"
	"strings"
)

// answerPrompt defines the persona and guardrails for the pharmaceutical
// assistant. The retrieved document contents are stuffed into Context and the
// user question is embedded verbatim.
const answerPrompt = `You are an Indian pharmaceutical assistant. Provide:
1. Medicine info including Indian brands
2. Disease info with symptoms and treatments
3. Always recommend doctor consultation for prescriptions
4. Never suggest prescription medicines without doctor advice

Context: %s
Question: %s
Answer:`

// renderPrompt fills the answer template with the retrieved contents and the
// question.
func renderPrompt(contents []string, question string) string {
	return fmt.Sprintf(answerPrompt, strings.Join(contents, "\n\n"), question)
}
