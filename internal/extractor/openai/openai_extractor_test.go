package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/config"
	"aria/internal/domain"
	"aria/internal/extractor"
	"aria/internal/extractor/openai"
	"aria/internal/port"
)

const reportJSON = `{"is_invoice":true,"total":250,"currency":"EUR","date":"2024-02-10","authenticity_score":"0.75","verification_summary":"Consistent layout."}`

func newTestExtractor(serverURL string) *openai.Extractor {
	return openai.NewExtractorWithEndpoint(&config.ExtractorProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
	}, serverURL)
}

func chatResponse(text, finish string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": text}, "finish_reason": finish},
		},
	}
}

func TestOpenAIExtractor_Extract_PDF_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "json_object", reqBody["response_format"].(map[string]interface{})["type"])

		content := reqBody["messages"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})
		file := content[0].(map[string]interface{})["file"].(map[string]interface{})
		assert.Equal(t, "invoice.pdf", file["filename"])
		assert.True(t, strings.HasPrefix(file["file_data"].(string), "data:application/pdf;base64,"))
		assert.Equal(t, extractor.Prompt, content[1].(map[string]interface{})["text"])

		_ = json.NewEncoder(w).Encode(chatResponse(reportJSON, "stop"))
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Data:        []byte("%PDF-1.4"),
		ContentType: "application/pdf",
		Filename:    "invoice.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FlexString("250"), out.Report.Total)
	assert.InDelta(t, 0.75, out.Report.AuthenticityScore, 1e-9)
}

func TestOpenAIExtractor_Extract_ImageUsesDataURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		content := reqBody["messages"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})
		imageURL := content[0].(map[string]interface{})["image_url"].(map[string]interface{})
		assert.True(t, strings.HasPrefix(imageURL["url"].(string), "data:image/jpeg;base64,"))

		_ = json.NewEncoder(w).Encode(chatResponse(reportJSON, "stop"))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{Data: []byte("jpg"), ContentType: "image/jpeg"})

	assert.NoError(t, err)
}

func TestOpenAIExtractor_Extract_LengthFinish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse(`{"is_`, "length"))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{Data: []byte("x"), ContentType: "image/png"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestOpenAIExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{Data: []byte("x"), ContentType: "image/png"})

	var rlErr *extractor.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
}

func TestOpenAIExtractor_Extract_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{Data: []byte("x"), ContentType: "image/png"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
