package tutor

import (
	"fmt"
	"strings"

	"github.com/st-academy/academy/internal/curriculum"
)

const systemPrompt = `You are a friendly Solana tutor helping a beginner who picked a wrong answer in a lesson quiz. Explain the misunderstanding in plain language. Never state which choice is correct.`

func buildUserMessage(in Input, chosen curriculum.Choice, contextChars int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Lesson: %s\n", in.Lesson.Title))
	if ctx := lessonContext(in.Lesson, contextChars); ctx != "" {
		b.WriteString("\nLesson text:\n")
		b.WriteString(ctx)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nQuestion: %s\n", in.Question.Prompt))
	b.WriteString("Choices:\n")
	for _, c := range in.Question.Choices {
		b.WriteString(fmt.Sprintf("- %s\n", c.Label))
	}
	b.WriteString(fmt.Sprintf("\nThe learner chose: %s\n", chosen.Label))

	b.WriteString(`
Instructions:
1. In 2-4 sentences, explain why the chosen answer is not right, using ideas from the lesson text.
2. Give one short hint that points toward the right idea without naming or quoting the correct choice.
3. Use plain text. No markdown, no code blocks.`)

	return b.String()
}
