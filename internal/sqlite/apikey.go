package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/projectboard/internal/repository"
)

var _ repository.APIKeyRepository = (*APIKeyRepository)(nil)

// APIKeyRepository stores hashed bearer tokens
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add stores the hash of token for owner
func (r *APIKeyRepository) Add(ctx context.Context, token, owner, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, owner, created_at, description) VALUES (?, ?, ?, ?)`,
		hashToken(token), owner, time.Now(), description,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// ResolveOwner returns the owner of token and records its use
func (r *APIKeyRepository) ResolveOwner(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT owner FROM api_keys WHERE key_hash = ?`, hash).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return owner, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
