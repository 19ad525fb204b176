package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
)

// DocumentSubmission is the immutable input of one pipeline run.
type DocumentSubmission struct {
	Data        []byte
	ContentType string
	Filename    string
	Recipient   string
}

// RasterPage is one decoded image of a submission. Err is set when this
// particular image could not be decoded; the remaining pages are unaffected.
type RasterPage struct {
	Index  int
	PageNr int
	Name   string
	Image  image.Image
	Err    error
}

// FlexString holds a report field that models return as a string, a number or null.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '{', '[':
		return fmt.Errorf("expected string or number, got %s", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			if string(data) == "true" || string(data) == "false" {
				*f = FlexString(data)
				return nil
			}
			return err
		}
		*f = FlexString(n.String())
		return nil
	}
}

// MarshalJSON renders an absent value as null.
func (f FlexString) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// ExtractionReport is the structured trust report produced by the inference provider.
type ExtractionReport struct {
	IsInvoice           bool       `json:"is_invoice"`
	Total               FlexString `json:"total"`
	Currency            FlexString `json:"currency"`
	Date                FlexString `json:"date"`
	AuthenticityScore   float64    `json:"authenticity_score"`
	VerificationSummary string     `json:"verification_summary"`
}

// VerificationRecord is the outcome of the code scan: either a confirmed code
// with its decoded payload, or AI analysis only. The zero value is AI analysis only.
type VerificationRecord struct {
	payload string
	found   bool
}

// CodeConfirmed returns a record carrying a decoded verification code.
func CodeConfirmed(payload string) VerificationRecord {
	return VerificationRecord{payload: payload, found: true}
}

// AIAnalysisOnly returns a record for documents without a decodable code.
func AIAnalysisOnly() VerificationRecord {
	return VerificationRecord{}
}

// Payload returns the decoded code and whether one was found.
func (r VerificationRecord) Payload() (string, bool) {
	return r.payload, r.found
}

// Method maps the record to its verification method.
func (r VerificationRecord) Method() VerificationMethod {
	if r.found {
		return VerificationCodeConfirmed
	}
	return VerificationAIAnalysisOnly
}

// DisplayReport is the extraction report as shown to callers, annotated with the verification label.
type DisplayReport struct {
	ExtractionReport
	VerificationMethod string `json:"verification_method"`
}

// Attribute is a display trait of the attestation.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// AttestationProperties carries the report and verification outcome inside the metadata.
type AttestationProperties struct {
	AIReport           DisplayReport      `json:"ai_report"`
	VerificationMethod VerificationMethod `json:"verification_method"`
	CodePayload        string             `json:"code_payload,omitempty"`
}

// AttestationMetadata is the canonical object published to content-addressable storage.
type AttestationMetadata struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Image       string                `json:"image"`
	Attributes  []Attribute           `json:"attributes"`
	Properties  AttestationProperties `json:"properties"`
}

// PublishedArtifact identifies published metadata.
type PublishedArtifact struct {
	ContentID string `json:"content_id"`
	URL       string `json:"url"`
	Provider  string `json:"provider"`
}

// MintResult is a successful ledger mint.
type MintResult struct {
	TxID string `json:"tx_id"`
}

// PipelineResult is the outcome of a completed run.
type PipelineResult struct {
	RunID    uuid.UUID           `json:"run_id"`
	Stage    Stage               `json:"stage"`
	TxID     string              `json:"tx_id"`
	Report   DisplayReport       `json:"report"`
	Metadata AttestationMetadata `json:"metadata"`
	Artifact PublishedArtifact   `json:"artifact"`
}

// PendingMint is a published artifact whose mint failed and awaits operator reconciliation.
type PendingMint struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	RunID       uuid.UUID         `db:"run_id" json:"run_id"`
	Recipient   string            `db:"recipient" json:"recipient"`
	ContentID   string            `db:"content_id" json:"content_id"`
	ArtifactURL string            `db:"artifact_url" json:"artifact_url"`
	Filename    string            `db:"filename" json:"filename"`
	LastError   string            `db:"last_error" json:"last_error"`
	Attempts    int               `db:"attempts" json:"attempts"`
	Status      PendingMintStatus `db:"status" json:"status"`
	TxID        *string           `db:"tx_id" json:"tx_id,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
	// Persisted is set once the entry is stored in the registry and can be reconciled by ID.
	Persisted bool `db:"-" json:"-"`
}
