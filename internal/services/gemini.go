package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// FeedbackResponse mirrors the scoring service's wire shape: a message whose
// content is either a plain string or a sequence whose first element carries
// the text.
type FeedbackResponse struct {
	Message FeedbackMessage `json:"message"`
}

type FeedbackMessage struct {
	Content MessageContent `json:"content"`
}

// MessageContent normalizes both payload forms to one text value.
type MessageContent struct {
	value   string
	present bool
}

// TextContent wraps an already-normalized text payload.
func TextContent(text string) MessageContent {
	return MessageContent{value: text, present: true}
}

// Text returns the normalized payload text, and false when the payload was
// absent.
func (c MessageContent) Text() (string, bool) {
	return c.value, c.present
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if !c.present {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = MessageContent{}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = MessageContent{value: text, present: true}
		return nil
	}

	var parts []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &parts); err == nil {
		if len(parts) == 0 {
			*c = MessageContent{}
			return nil
		}
		*c = MessageContent{value: parts[0].Text, present: true}
		return nil
	}

	return fmt.Errorf("unsupported message content payload: %s", string(data))
}

// FeedbackProvider is the external scoring service. The document path refers
// to an object previously stored through the BlobStore.
type FeedbackProvider interface {
	Feedback(ctx context.Context, documentPath, instructions string) (*FeedbackResponse, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	blobStore  BlobStore
	pdfParser  PDFParserService
	maxRetries int
}

func NewGeminiService(apiKey string, blobStore BlobStore, pdfParser PDFParserService, maxRetries int) (FeedbackProvider, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		blobStore:  blobStore,
		pdfParser:  pdfParser,
		maxRetries: maxRetries,
	}, nil
}

// Feedback implements FeedbackProvider.
func (g *geminiService) Feedback(ctx context.Context, documentPath, instructions string) (*FeedbackResponse, error) {
	data, err := g.blobStore.Download(ctx, documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", documentPath, err)
	}

	resumeText, err := g.pdfParser.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}

	prompt := fmt.Sprintf("%s\n\nRESUME:\n%s", instructions, resumeText)

	text, err := g.generateTextWithRetry(ctx, prompt, 0.2)
	if err != nil {
		return nil, fmt.Errorf("failed to generate feedback: %w", err)
	}

	return &FeedbackResponse{
		Message: FeedbackMessage{Content: TextContent(CleanJSON(text))},
	}, nil
}

func (g *geminiService) generateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

func (g *geminiService) generateTextWithRetry(ctx context.Context, prompt string, temperature float32) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		result, err := g.generateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < g.maxRetries {
			log.Printf("⚠️ Gemini attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

// CleanJSON strips markdown code fences the model sometimes wraps around its
// JSON despite the instructions.
func CleanJSON(text string) string {
	clean := strings.TrimSpace(text)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return strings.TrimSpace(clean)
}
