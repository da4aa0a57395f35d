package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carbondash/internal/model"
)

// Store provides Postgres persistence for mint reconciliation records.
// Mints are not idempotent on chain, so operators dedupe through the
// metadata reference; the upsert keeps one row per reference.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertMintRecords inserts or updates reconciliation rows in one batch.
func (s *Store) UpsertMintRecords(ctx context.Context, records []model.MintRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO mint_records (
				metadata_ref, tx_hash, recipient, amount, record_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (metadata_ref)
			DO UPDATE SET
				tx_hash = EXCLUDED.tx_hash,
				recipient = EXCLUDED.recipient,
				amount = EXCLUDED.amount,
				record_id = EXCLUDED.record_id,
				updated_at = now()
		`,
			record.MetadataRef,
			record.TxHash,
			record.Recipient,
			record.Amount,
			record.RecordID,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SaveMintRecord persists one record; satisfies mint.RecordStore.
func (s *Store) SaveMintRecord(ctx context.Context, record model.MintRecord) error {
	return s.UpsertMintRecords(ctx, []model.MintRecord{record})
}

// RecentMintRecords returns the newest records, up to limit.
func (s *Store) RecentMintRecords(ctx context.Context, limit int) ([]model.MintRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT metadata_ref, tx_hash, recipient, amount, record_id
		FROM mint_records
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.MintRecord
	for rows.Next() {
		var record model.MintRecord
		if err := rows.Scan(&record.MetadataRef, &record.TxHash, &record.Recipient, &record.Amount, &record.RecordID); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
