package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"aria/internal/domain"
	"aria/internal/port"
)

type pendingMintRepo struct {
	db *sqlx.DB
}

// NewPendingMintRepo creates a new PostgreSQL-backed PendingMintRepository.
func NewPendingMintRepo(db *sqlx.DB) port.PendingMintRepository {
	return &pendingMintRepo{db: db}
}

func (r *pendingMintRepo) Create(ctx context.Context, p *domain.PendingMint) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO pending_mints
		(id, run_id, recipient, content_id, artifact_url, filename, last_error,
		 attempts, status, tx_id, created_at, updated_at)
		VALUES (:id, :run_id, :recipient, :content_id, :artifact_url, :filename, :last_error,
		 :attempts, :status, :tx_id, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("pendingMintRepo.Create: %w", err)
	}
	return nil
}

func (r *pendingMintRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	var p domain.PendingMint
	err := r.db.GetContext(ctx, &p, "SELECT * FROM pending_mints WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("pendingMintRepo.GetByID: %w", err)
	}
	p.Persisted = true
	return &p, nil
}

// List returns entries newest first. An empty status lists every entry.
func (r *pendingMintRepo) List(ctx context.Context, status domain.PendingMintStatus, offset, limit int) ([]domain.PendingMint, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM pending_mints WHERE ($1::text = '' OR status = $1::text)", status)
	if err != nil {
		return nil, 0, fmt.Errorf("pendingMintRepo.List count: %w", err)
	}

	items := []domain.PendingMint{}
	err = r.db.SelectContext(ctx, &items,
		`SELECT * FROM pending_mints
		 WHERE ($1::text = '' OR status = $1::text)
		 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pendingMintRepo.List: %w", err)
	}
	for i := range items {
		items[i].Persisted = true
	}
	return items, total, nil
}

func (r *pendingMintRepo) RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pending_mints SET attempts = attempts + 1, last_error = $1, updated_at = $2
		 WHERE id = $3 AND status = $4`,
		lastError, time.Now().UTC(), id, domain.PendingMintStatusPending)
	if err != nil {
		return fmt.Errorf("pendingMintRepo.RecordAttempt: %w", err)
	}
	return requireRow(result)
}

func (r *pendingMintRepo) MarkResolved(ctx context.Context, id uuid.UUID, txID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pending_mints SET status = $1, tx_id = $2, attempts = attempts + 1, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		domain.PendingMintStatusResolved, txID, time.Now().UTC(), id, domain.PendingMintStatusPending)
	if err != nil {
		return fmt.Errorf("pendingMintRepo.MarkResolved: %w", err)
	}
	return requireRow(result)
}

func (r *pendingMintRepo) MarkAbandoned(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE pending_mints SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4",
		domain.PendingMintStatusAbandoned, time.Now().UTC(), id, domain.PendingMintStatusPending)
	if err != nil {
		return fmt.Errorf("pendingMintRepo.MarkAbandoned: %w", err)
	}
	return requireRow(result)
}

// requireRow reports ErrNotFound when an update matched no open entry.
func requireRow(result sql.Result) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
