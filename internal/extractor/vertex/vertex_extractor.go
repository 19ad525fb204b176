// Package vertex extracts reports through Gemini models hosted on Vertex AI.
package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"aria/internal/config"
	"aria/internal/extractor"
	"aria/internal/port"
)

const defaultLocation = "us-central1"

// Generator is the subset of *genai.GenerativeModel the extractor calls.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Extractor implements port.Extractor on the Vertex AI SDK.
type Extractor struct {
	model     Generator
	modelName string
	client    *genai.Client
}

// NewExtractor dials Vertex AI with application default credentials.
func NewExtractor(ctx context.Context, cfg *config.ExtractorProviderConfig) (*Extractor, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("vertex provider requires a project id")
	}
	location := cfg.Location
	if location == "" {
		location = defaultLocation
	}
	modelName := cfg.DefaultModel
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, location)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Extractor{model: model, modelName: modelName, client: client}, nil
}

// NewExtractorWithGenerator builds an extractor around an existing model (for testing).
func NewExtractorWithGenerator(model Generator, modelName string) *Extractor {
	return &Extractor{model: model, modelName: modelName}
}

// Close releases the underlying client connection.
func (e *Extractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	switch input.ContentType {
	case "application/pdf", "image/jpeg", "image/png", "image/webp":
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", input.ContentType)
	}

	doc := genai.Blob{MIMEType: input.ContentType, Data: input.Data}
	resp, err := e.model.GenerateContent(ctx, doc, genai.Text(extractor.Prompt))
	if err != nil {
		baseErr := fmt.Errorf("calling vertex AI: %w", err)
		if status.Code(err) == codes.ResourceExhausted {
			return nil, extractor.NewRateLimitError("vertex", baseErr, 0)
		}
		return nil, baseErr
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty response from vertex AI")
	}

	report, err := extractor.ParseReport(text)
	if err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}

	return &port.ExtractOutput{
		Report:    *report,
		RawText:   text,
		ModelUsed: e.modelName,
	}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
