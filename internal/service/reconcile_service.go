package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aria/internal/domain"
	"aria/internal/export"
	"aria/internal/port"
)

const exportBatchSize = 500

// ReconcileService lets operators resolve artifacts that were published but never minted.
type ReconcileService interface {
	List(ctx context.Context, status domain.PendingMintStatus, offset, limit int) ([]domain.PendingMint, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error)
	Retry(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error)
	Abandon(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error)
	Export(ctx context.Context, w io.Writer, format export.Format, status domain.PendingMintStatus) (int, error)
}

type reconcileService struct {
	repo        port.PendingMintRepository
	minter      port.Minter
	mintTimeout time.Duration
	log         zerolog.Logger
}

// NewReconcileService creates a new ReconcileService implementation.
func NewReconcileService(repo port.PendingMintRepository, minter port.Minter, mintTimeout time.Duration, log zerolog.Logger) ReconcileService {
	return &reconcileService{
		repo:        repo,
		minter:      minter,
		mintTimeout: mintTimeout,
		log:         log.With().Str("component", "reconcile").Logger(),
	}
}

func (s *reconcileService) List(ctx context.Context, status domain.PendingMintStatus, offset, limit int) ([]domain.PendingMint, int, error) {
	if status != "" && !domain.ValidPendingMintStatuses[status] {
		return nil, 0, domain.ErrInvalidPendingStatus
	}
	return s.repo.List(ctx, status, offset, limit)
}

func (s *reconcileService) Get(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	return s.repo.GetByID(ctx, id)
}

// Retry re-invokes the minter with the stored recipient and content id.
func (s *reconcileService) Retry(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	pending, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOpen(pending); err != nil {
		return nil, err
	}

	log := s.log.With().Str("pending_id", id.String()).Str("content_id", pending.ContentID).Logger()
	log.Info().Int("attempt", pending.Attempts+1).Msg("retrying mint")

	mintCtx, cancel := withOptionalTimeout(ctx, s.mintTimeout)
	result, mintErr := s.minter.Mint(mintCtx, pending.Recipient, pending.ContentID)
	cancel()

	if mintErr != nil {
		if err := s.repo.RecordAttempt(ctx, id, mintErr.Error()); err != nil {
			log.Error().Err(err).Msg("failed to record mint attempt")
		}
		log.Warn().Err(mintErr).Msg("mint retry failed")
		return nil, fmt.Errorf("retrying mint: %w", mintErr)
	}

	if err := s.repo.MarkResolved(ctx, id, result.TxID); err != nil {
		// The ledger has the mint; the registry is now stale and must not be retried blindly.
		log.Error().Err(err).Str("tx_id", result.TxID).Msg("minted but failed to mark resolved")
		return nil, fmt.Errorf("minted as %s but failed to mark resolved: %w", result.TxID, err)
	}

	pending.Attempts++
	pending.Status = domain.PendingMintStatusResolved
	pending.TxID = &result.TxID
	pending.UpdatedAt = time.Now().UTC()
	log.Info().Str("tx_id", result.TxID).Msg("pending mint resolved")
	return pending, nil
}

func (s *reconcileService) Abandon(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	pending, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOpen(pending); err != nil {
		return nil, err
	}
	if err := s.repo.MarkAbandoned(ctx, id); err != nil {
		return nil, err
	}
	pending.Status = domain.PendingMintStatusAbandoned
	pending.UpdatedAt = time.Now().UTC()
	s.log.Info().Str("pending_id", id.String()).Msg("pending mint abandoned")
	return pending, nil
}

// Export writes every pending mint with the given status (all when empty) and returns the row count.
func (s *reconcileService) Export(ctx context.Context, w io.Writer, format export.Format, status domain.PendingMintStatus) (int, error) {
	if status != "" && !domain.ValidPendingMintStatuses[status] {
		return 0, domain.ErrInvalidPendingStatus
	}
	rw, err := export.NewRowWriter(format, w)
	if err != nil {
		return 0, err
	}
	if err := rw.WriteHeader(); err != nil {
		return 0, err
	}

	written := 0
	for offset := 0; ; offset += exportBatchSize {
		items, total, err := s.repo.List(ctx, status, offset, exportBatchSize)
		if err != nil {
			return written, fmt.Errorf("listing pending mints: %w", err)
		}
		if err := rw.WritePendingMints(items); err != nil {
			return written, err
		}
		written += len(items)
		if len(items) == 0 || offset+len(items) >= total {
			break
		}
	}

	if err := rw.Close(); err != nil {
		return written, err
	}
	return written, nil
}

func checkOpen(p *domain.PendingMint) error {
	switch p.Status {
	case domain.PendingMintStatusResolved:
		return domain.ErrPendingMintResolved
	case domain.PendingMintStatusAbandoned:
		return domain.ErrPendingMintAbandoned
	}
	return nil
}
