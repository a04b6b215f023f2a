// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns the context document into the final research
// answer with a hosted language model.
package summarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrEmptyContext is returned when there is no context text to summarize.
var ErrEmptyContext = errors.New("context document is empty")

// Backend abstracts the language model API so tests can supply a fake.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// researchPromptTmpl is the fixed prompt sent with every request. Only the
// query and the context document are interpolated.
var researchPromptTmpl = template.Must(template.New("research").Parse(`You are an AI research specialist. You deliver precise and informative answers with credible sources, synthesized from verified web content.

Research the topic: '{{.Query}}'

Instructions:
- Only use verified, recent information from the context below
- Present a clear and concise summary
- Highlight key aspects
- Provide 3-5 relevant sources with titles and URLs taken from the context

Respond in Markdown with exactly these sections:
1. Overview of the topic
2. Key findings
3. Summary with evidence
4. References: 3-5 links with titles

Context:
{{.Context}}
`))

// RenderPrompt executes the research prompt template.
func RenderPrompt(query, contextDoc string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Query, Context string }{Query: query, Context: contextDoc}
	if err := researchPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Summarize renders the prompt from query and contextDoc and returns the
// model's trimmed answer. An empty context or an empty answer is an error.
func Summarize(ctx context.Context, backend Backend, query, contextDoc string) (string, error) {
	if strings.TrimSpace(contextDoc) == "" {
		return "", ErrEmptyContext
	}

	prompt, err := RenderPrompt(query, contextDoc)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := backend.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}
	return text, nil
}
