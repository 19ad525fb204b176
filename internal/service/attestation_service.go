package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aria/internal/attestation"
	"aria/internal/config"
	"aria/internal/domain"
	"aria/internal/port"
)

// AttestationService runs the verification-and-attestation pipeline for one submission.
type AttestationService interface {
	Analyze(ctx context.Context, sub *domain.DocumentSubmission) (*domain.PipelineResult, error)
}

// AttestationOptions holds the fixed display fields and per-stage timeouts. A zero timeout disables it.
type AttestationOptions struct {
	Display        config.DisplayConfig
	ExtractTimeout time.Duration
	PublishTimeout time.Duration
	MintTimeout    time.Duration
}

// OptionsFromConfig collects the pipeline options from the loaded config.
func OptionsFromConfig(cfg *config.Config) AttestationOptions {
	return AttestationOptions{
		Display:        cfg.Display,
		ExtractTimeout: cfg.Pipeline.ExtractTimeout,
		PublishTimeout: cfg.Pipeline.PublishTimeout,
		MintTimeout:    cfg.Mint.Timeout,
	}
}

type attestationService struct {
	decoder   port.DocumentDecoder
	scanner   port.CodeScanner
	extractor port.Extractor
	publisher port.Publisher
	minter    port.Minter
	pending   port.PendingMintRepository // optional
	notifier  port.Notifier              // optional
	opts      AttestationOptions
	log       zerolog.Logger
}

// NewAttestationService creates a new AttestationService implementation.
// pendingRepo and notifier may be nil.
func NewAttestationService(
	decoder port.DocumentDecoder,
	scanner port.CodeScanner,
	extractor port.Extractor,
	publisher port.Publisher,
	minter port.Minter,
	pendingRepo port.PendingMintRepository,
	notifier port.Notifier,
	opts AttestationOptions,
	log zerolog.Logger,
) AttestationService {
	return &attestationService{
		decoder:   decoder,
		scanner:   scanner,
		extractor: extractor,
		publisher: publisher,
		minter:    minter,
		pending:   pendingRepo,
		notifier:  notifier,
		opts:      opts,
		log:       log.With().Str("component", "attestation").Logger(),
	}
}

func (s *attestationService) Analyze(ctx context.Context, sub *domain.DocumentSubmission) (*domain.PipelineResult, error) {
	runID := uuid.New()
	log := s.log.With().
		Str("run_id", runID.String()).
		Str("recipient", sub.Recipient).
		Str("filename", sub.Filename).
		Logger()
	start := time.Now()
	log.Info().Str("content_type", sub.ContentType).Int("size", len(sub.Data)).Str("stage", string(domain.StageReceived)).Msg("run started")

	// Decode
	pages, err := s.decoder.Decode(ctx, sub.Data, sub.ContentType)
	if err != nil {
		return nil, s.fail(log, domain.FailedDecode, err, nil)
	}
	log.Debug().Str("stage", string(domain.StageDecoded)).Msg("stage complete")

	// Extract
	extractCtx, cancel := withOptionalTimeout(ctx, s.opts.ExtractTimeout)
	out, err := s.extractor.Extract(extractCtx, port.ExtractInput{
		Data:        sub.Data,
		ContentType: sub.ContentType,
		Filename:    sub.Filename,
	})
	cancel()
	if err != nil {
		var extErr *domain.ExtractionError
		if !errors.As(err, &extErr) {
			err = &domain.ExtractionError{Err: err}
		}
		return nil, s.fail(log, domain.FailedExtraction, err, nil)
	}
	log.Info().Str("stage", string(domain.StageExtracted)).Str("model", out.ModelUsed).Bool("is_invoice", out.Report.IsInvoice).Msg("stage complete")

	// Scan
	record := s.scanner.Scan(ctx, pages)
	log.Info().Str("stage", string(domain.StageScanned)).Str("method", string(record.Method())).Msg("stage complete")

	// Assemble
	metadata := attestation.Assemble(out.Report, record, sub.Filename, s.opts.Display)
	log.Debug().Str("stage", string(domain.StageAssembled)).Str("name", metadata.Name).Msg("stage complete")

	// Publish
	publishCtx, cancel := withOptionalTimeout(ctx, s.opts.PublishTimeout)
	artifact, err := s.publisher.Publish(publishCtx, &metadata, metadata.Name)
	cancel()
	if err != nil {
		var pubErr *domain.PublishError
		if !errors.As(err, &pubErr) {
			err = &domain.PublishError{Provider: "unknown", Err: err}
		}
		return nil, s.fail(log, domain.FailedPublish, err, nil)
	}
	log.Info().Str("stage", string(domain.StagePublished)).Str("content_id", artifact.ContentID).Str("url", artifact.URL).Msg("stage complete")

	// Mint
	mintCtx, cancel := withOptionalTimeout(ctx, s.opts.MintTimeout)
	minted, err := s.minter.Mint(mintCtx, sub.Recipient, artifact.ContentID)
	cancel()
	if err != nil {
		s.recordPendingMint(ctx, log, runID, sub, artifact, err)
		return nil, s.fail(log, domain.FailedMint, err, artifact)
	}
	log.Info().Str("stage", string(domain.StageMinted)).Str("tx_id", minted.TxID).Msg("stage complete")

	log.Info().Str("stage", string(domain.StageCompleted)).Dur("elapsed", time.Since(start)).Msg("run completed")
	return &domain.PipelineResult{
		RunID:    runID,
		Stage:    domain.StageCompleted,
		TxID:     minted.TxID,
		Report:   metadata.Properties.AIReport,
		Metadata: metadata,
		Artifact: *artifact,
	}, nil
}

func (s *attestationService) fail(log zerolog.Logger, stage domain.Stage, err error, artifact *domain.PublishedArtifact) error {
	log.Error().Err(err).Str("stage", string(domain.StageFailed)).Str("failed_at", string(stage)).Msg("run failed")
	return &domain.StageError{Stage: stage, Err: err, Artifact: artifact}
}

// recordPendingMint registers a published-but-unminted artifact and alerts operators.
// Failures here are logged only; the run outcome is already decided.
func (s *attestationService) recordPendingMint(ctx context.Context, log zerolog.Logger, runID uuid.UUID, sub *domain.DocumentSubmission, artifact *domain.PublishedArtifact, mintErr error) {
	// The request context may be the reason the mint failed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	pending := &domain.PendingMint{
		ID:          uuid.New(),
		RunID:       runID,
		Recipient:   sub.Recipient,
		ContentID:   artifact.ContentID,
		ArtifactURL: artifact.URL,
		Filename:    sub.Filename,
		LastError:   mintErr.Error(),
		Attempts:    1,
		Status:      domain.PendingMintStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.pending != nil {
		if err := s.pending.Create(ctx, pending); err != nil {
			log.Error().Err(err).Str("content_id", artifact.ContentID).Msg("failed to record pending mint")
		} else {
			pending.Persisted = true
			log.Warn().Str("pending_id", pending.ID.String()).Msg("recorded pending mint")
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyPendingMint(ctx, pending); err != nil {
			log.Error().Err(err).Msg("failed to notify operators of pending mint")
		}
	}
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
