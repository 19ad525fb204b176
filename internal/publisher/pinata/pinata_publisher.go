// Package pinata pins attestation metadata to IPFS through the Pinata API.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aria/internal/config"
	"aria/internal/domain"
)

const (
	ProviderName    = "pinata"
	defaultEndpoint = "https://api.pinata.cloud/pinning/pinJSONToIPFS"
	defaultGateway  = "https://gateway.pinata.cloud"
)

// Publisher implements port.Publisher on Pinata's pinJSONToIPFS endpoint.
type Publisher struct {
	apiKey    string
	secretKey string
	endpoint  string
	gateway   string
	client    *http.Client
}

// NewPublisher creates a Pinata publisher. Missing credentials are reported on Publish.
func NewPublisher(cfg *config.PinataConfig) *Publisher {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	gateway := strings.TrimRight(cfg.Gateway, "/")
	if gateway == "" {
		gateway = defaultGateway
	}
	return &Publisher{
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		endpoint:  endpoint,
		gateway:   gateway,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type pinRequest struct {
	PinataContent  *domain.AttestationMetadata `json:"pinataContent"`
	PinataMetadata struct {
		Name string `json:"name"`
	} `json:"pinataMetadata"`
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (p *Publisher) Publish(ctx context.Context, metadata *domain.AttestationMetadata, name string) (*domain.PublishedArtifact, error) {
	if p.apiKey == "" || p.secretKey == "" {
		return nil, &domain.PublishError{Provider: ProviderName, Err: domain.ErrMissingCredentials}
	}

	body := pinRequest{PinataContent: metadata}
	body.PinataMetadata.Name = name
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.PublishError{Provider: ProviderName, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &domain.PublishError{Provider: ProviderName, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &domain.PublishError{Provider: ProviderName, Err: fmt.Errorf("calling pinata API: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.PublishError{Provider: ProviderName, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.PublishError{
			Provider: ProviderName,
			Err:      fmt.Errorf("pinata API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 300)),
		}
	}

	var pinned pinResponse
	if err := json.Unmarshal(respBody, &pinned); err != nil {
		return nil, &domain.PublishError{Provider: ProviderName, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}
	if pinned.IpfsHash == "" {
		return nil, &domain.PublishError{Provider: ProviderName, Err: fmt.Errorf("response has no IpfsHash")}
	}

	return &domain.PublishedArtifact{
		ContentID: pinned.IpfsHash,
		URL:       fmt.Sprintf("%s/ipfs/%s", p.gateway, pinned.IpfsHash),
		Provider:  ProviderName,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
