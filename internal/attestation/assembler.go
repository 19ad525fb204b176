// Package attestation builds the metadata object that is published and minted.
package attestation

import (
	"aria/internal/config"
	"aria/internal/domain"
)

// VerificationTrait is the trait type of the single verification attribute.
const VerificationTrait = "Verification"

// Display returns the report as shown to callers, annotated with the verification label.
func Display(report domain.ExtractionReport, record domain.VerificationRecord) domain.DisplayReport {
	return domain.DisplayReport{
		ExtractionReport:   report,
		VerificationMethod: record.Method().Label(),
	}
}

// Assemble builds the attestation metadata. It is pure: equal inputs give equal output.
func Assemble(report domain.ExtractionReport, record domain.VerificationRecord, filename string, display config.DisplayConfig) domain.AttestationMetadata {
	method := record.Method()
	payload, _ := record.Payload()

	return domain.AttestationMetadata{
		Name:        display.NamePrefix + filename,
		Description: display.Description,
		Image:       display.ImageURL,
		Attributes: []domain.Attribute{
			{TraitType: VerificationTrait, Value: method.Label()},
		},
		Properties: domain.AttestationProperties{
			AIReport:           Display(report, record),
			VerificationMethod: method,
			CodePayload:        payload,
		},
	}
}
