// Package llmcheck runs an optional secondary review of a chapter pair
// through an OpenAI-compatible model. It complements the algorithmic
// comparison with judgment calls the token diff cannot make (reworded
// sentences, silently merged paragraphs). The pass is advisory: its
// findings are folded into the batch report tagged with source "llm",
// and any transport or parse failure degrades to a logged warning.
package llmcheck

import (
    "context"
    "encoding/json"
    "fmt"
    "strings"

    openai "github.com/sashabaranov/go-openai"
)

// ChatClient mirrors the subset we need from the OpenAI client for
// testability.
type ChatClient interface {
    CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Finding is one model-reported discrepancy between the two texts.
type Finding struct {
    Severity    string `json:"severity"` // "LOW" | "MEDIUM" | "HIGH"
    Description string `json:"description"`
    SourceText  string `json:"source_text"`
    RenderText  string `json:"rendered_text"`
}

// Reviewer holds the client and model used for the review pass.
type Reviewer struct {
    Client ChatClient
    Model  string
}

// Each side of the pair is truncated to this many bytes before being
// sent, keeping long chapters inside a single context window.
const maxSideChars = 24000

// Review asks the model to compare the normalized source and rendered
// text of one pair and returns its findings. An unreachable endpoint or
// an unparseable response is an error; the caller continues without
// LLM findings for this pair.
func (r *Reviewer) Review(ctx context.Context, basename, sourceText, renderedText string) ([]Finding, error) {
    req := openai.ChatCompletionRequest{
        Model: r.Model,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleSystem, Content: systemMessage()},
            {Role: openai.ChatMessageRoleUser, Content: userMessage(basename, sourceText, renderedText)},
        },
        Temperature: 0.0,
        N:           1,
    }
    resp, err := r.Client.CreateChatCompletion(ctx, req)
    if err != nil {
        return nil, fmt.Errorf("llm review: %w", err)
    }
    if len(resp.Choices) == 0 {
        return nil, fmt.Errorf("llm review: empty response")
    }
    raw := strings.TrimSpace(resp.Choices[0].Message.Content)
    raw = stripFences(raw)
    var out struct {
        Findings []Finding `json:"findings"`
    }
    if err := json.Unmarshal([]byte(raw), &out); err != nil {
        return nil, fmt.Errorf("llm review: parse response: %w", err)
    }
    findings := out.Findings
    for i := range findings {
        findings[i].Severity = canonicalSeverity(findings[i].Severity)
    }
    return findings, nil
}

func systemMessage() string {
    return "You are a document fidelity reviewer. You receive the text of an original PDF chapter and the text rendered from its HTML conversion. Report content present in one and absent or altered in the other. Ignore whitespace, hyphenation and formatting artifacts. Respond with strict JSON only: {\"findings\":[{\"severity\":\"LOW|MEDIUM|HIGH\",\"description\":string,\"source_text\":string,\"rendered_text\":string}]}. An empty findings array means the conversion is faithful."
}

func userMessage(basename, sourceText, renderedText string) string {
    var sb strings.Builder
    sb.WriteString("Chapter: ")
    sb.WriteString(basename)
    sb.WriteString("\n\n--- PDF TEXT ---\n")
    sb.WriteString(truncate(sourceText, maxSideChars))
    sb.WriteString("\n\n--- HTML TEXT ---\n")
    sb.WriteString(truncate(renderedText, maxSideChars))
    return sb.String()
}

func truncate(s string, max int) string {
    if len(s) <= max {
        return s
    }
    return s[:max]
}

// stripFences removes a Markdown code fence wrapper that some models
// insist on despite the strict-JSON instruction.
func stripFences(s string) string {
    if !strings.HasPrefix(s, "```") {
        return s
    }
    s = strings.TrimPrefix(s, "```json")
    s = strings.TrimPrefix(s, "```")
    s = strings.TrimSuffix(strings.TrimSpace(s), "```")
    return strings.TrimSpace(s)
}

func canonicalSeverity(s string) string {
    switch strings.ToUpper(strings.TrimSpace(s)) {
    case "HIGH":
        return "HIGH"
    case "LOW":
        return "LOW"
    default:
        return "MEDIUM"
    }
}
