package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"accounfix/internal/domain"
	"accounfix/internal/httpx"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const analysisMaxTokens = 1024
const chatMaxTokens = 2048

// Client talks to the Anthropic API. A missing key is tolerated: calls
// fail and classification falls back, per the gateway contract.
type Client struct {
	client anthropic.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithHTTPClient(httpx.ExternalHTTPClient()),
		),
		model: model,
	}
}

type analysisResponse struct {
	Category        string `json:"category"`
	Priority        string `json:"priority"`
	Suggestion      string `json:"suggestion"`
	PotentialImpact string `json:"potentialImpact"`
}

// Analyze classifies a free-text discrepancy report, optionally with an
// attached base64 JPEG. It never returns an error: any failure yields the
// documented fallback analysis.
func (c *Client) Analyze(ctx context.Context, description, imageBase64 string) domain.Analysis {
	systemPrompt, userPrompt := buildAnalysisPrompts(description)

	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(userPrompt)}
	if imageBase64 != "" {
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/jpeg", imageBase64))
	}

	log.Printf("ai analyze model=%s desc_len=%d image=%t", c.model, len(description), imageBase64 != "")
	responseText, err := c.callModel(ctx, systemPrompt, []anthropic.MessageParam{
		anthropic.NewUserMessage(blocks...),
	}, analysisMaxTokens)
	if err != nil {
		log.Printf("ai analyze error (falling back): %v", err)
		return FallbackAnalysis()
	}

	analysis, err := parseAnalysisResponse(responseText)
	if err != nil {
		log.Printf("ai analyze parse error (falling back): %v", err)
		return FallbackAnalysis()
	}
	return analysis
}

// Chat continues the conversation scoped to one record. Unlike Analyze,
// failures propagate so the user can retry the message.
func (c *Client) Chat(ctx context.Context, rec *domain.ErrorRecord, history []domain.ChatMessage, newMessage string) (string, error) {
	systemPrompt := buildChatSystemPrompt(rec)

	var messages []anthropic.MessageParam
	for _, msg := range history {
		if msg.Role == domain.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(newMessage)))

	log.Printf("ai chat model=%s record=%s history=%d", c.model, rec.ID, len(history))
	return c.callModel(ctx, systemPrompt, messages, chatMaxTokens)
}

func (c *Client) callModel(ctx context.Context, systemPrompt string, messages []anthropic.MessageParam, maxTokens int64) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("ai response size=%d tokens_in=%d tokens_out=%d", len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

func buildAnalysisPrompts(description string) (string, string) {
	var categoryLines strings.Builder
	for _, cat := range domain.Categories() {
		categoryLines.WriteString(fmt.Sprintf("- %s\n", cat))
	}
	var priorityLines strings.Builder
	for _, pri := range domain.Priorities() {
		priorityLines.WriteString(fmt.Sprintf("- %s\n", pri))
	}

	systemPrompt := fmt.Sprintf(`You are a senior accountant with deep knowledge of ERP systems (Microsoft Dynamics 365) and Excel.
Analyze the reported bookkeeping discrepancy and return a structured verdict.

Choose exactly one category from:
%s
Choose exactly one priority from:
%s
Also:
- suggest concrete remediation steps, preferring accounting-software operations or Excel formulas where they apply
- assess the potential impact of the discrepancy.

Respond with JSON only (no markdown):
{"category": "Invoice", "priority": "HIGH", "suggestion": "...", "potentialImpact": "..."}`, categoryLines.String(), priorityLines.String())

	userPrompt := "Discrepancy report:\n\n" + strings.TrimSpace(description)
	return systemPrompt, userPrompt
}

func buildChatSystemPrompt(rec *domain.ErrorRecord) string {
	return fmt.Sprintf(`You are an assistant specialized in accounting and the Microsoft ecosystem (Excel, Dynamics 365, Power BI).
Help the user resolve the discrepancy below. Where useful, point them to Excel functions (VLOOKUP, XLOOKUP, PivotTable) or Dynamics 365 modules for reconciling data.

Title: %s
Description: %s`, strings.TrimSpace(rec.Title), strings.TrimSpace(rec.Description))
}

func parseAnalysisResponse(responseText string) (domain.Analysis, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var parsed analysisResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		return domain.Analysis{}, fmt.Errorf("parsing analysis response: %w (response: %s)", err, responseText)
	}
	if strings.TrimSpace(parsed.Suggestion) == "" {
		return domain.Analysis{}, fmt.Errorf("analysis response missing suggestion (response: %s)", responseText)
	}

	return domain.Analysis{
		Category:        domain.CategoryOrDefault(parsed.Category),
		Priority:        domain.PriorityOrDefault(parsed.Priority),
		Suggestion:      strings.TrimSpace(parsed.Suggestion),
		PotentialImpact: strings.TrimSpace(parsed.PotentialImpact),
	}, nil
}
