package domain

// FileType represents the document formats accepted for analysis.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeWEBP FileType = "webp"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/webp":      FileTypeWEBP,
}

// Stage identifies a step of the attestation pipeline.
type Stage string

const (
	StageReceived  Stage = "received"
	StageDecoded   Stage = "decoded"
	StageExtracted Stage = "extracted"
	StageScanned   Stage = "scanned"
	StageAssembled Stage = "assembled"
	StagePublished Stage = "published"
	StageMinted    Stage = "minted"
	StageCompleted Stage = "completed"
	StageFailed    Stage = "failed"
)

// Failure stage labels reported to callers.
const (
	FailedDecode     Stage = "decode"
	FailedExtraction Stage = "extraction"
	FailedPublish    Stage = "publish"
	FailedMint       Stage = "mint"
)

// VerificationMethod labels how a document was verified.
type VerificationMethod string

const (
	VerificationCodeConfirmed  VerificationMethod = "code_confirmed"
	VerificationAIAnalysisOnly VerificationMethod = "ai_analysis_only"
)

// Label returns the human-readable form written into attestation metadata.
func (m VerificationMethod) Label() string {
	switch m {
	case VerificationCodeConfirmed:
		return "✅ QR Code Confirmed"
	case VerificationAIAnalysisOnly:
		return "AI Analysis Only"
	}
	return string(m)
}

// PendingMintStatus represents the reconciliation state of a published-but-unminted artifact.
type PendingMintStatus string

const (
	PendingMintStatusPending   PendingMintStatus = "pending"
	PendingMintStatusResolved  PendingMintStatus = "resolved"
	PendingMintStatusAbandoned PendingMintStatus = "abandoned"
)

// ValidPendingMintStatuses is used to validate status filters.
var ValidPendingMintStatuses = map[PendingMintStatus]bool{
	PendingMintStatusPending:   true,
	PendingMintStatusResolved:  true,
	PendingMintStatusAbandoned: true,
}
