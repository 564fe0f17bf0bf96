package rag

import (
	"fmt"
	"strings"

	"github.com/bull/sathi/internal/storage"
)

// NoContextNotice is embedded in the prompt, verbatim, when search
// returns no passages. The model then explains it has nothing to go on
// instead of fabricating an answer.
const NoContextNotice = "I could not find any relevant information in the uploaded documents to answer this question."

// passageSeparator visibly delimits the retrieved passages inside the
// prompt.
const passageSeparator = "\n\n---\n\n"

const groundedPromptFormat = `You are a helpful assistant. Use the following context from a document to answer the user's question.
If the answer is not found in the context, say "I could not find the answer in the document."
Do not make up information. Ask the user to ask relevant questions.

Context:
%s

User Question:
%s

Answer:`

// BuildPrompt assembles the generation prompt from the question and the
// retrieved passages.
func BuildPrompt(question string, passages []storage.ScoredPassage) string {
	if len(passages) == 0 {
		return fmt.Sprintf("User Question: %s\n\nNote: %s", question, NoContextNotice)
	}

	texts := make([]string, len(passages))
	for i, passage := range passages {
		texts[i] = passage.Text
	}
	return fmt.Sprintf(groundedPromptFormat, strings.Join(texts, passageSeparator), question)
}
