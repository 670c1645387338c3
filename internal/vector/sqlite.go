package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteVecStore is a persistent vector store backed by SQLite. Similarity
// search is brute-force in Go over deserialized embeddings, which is fine
// for a recipe catalog. Thread-safe.
type SqliteVecStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	dims      int
	tableName string
	closed    bool
}

// SqliteVecConfig holds configuration for SqliteVecStore.
type SqliteVecConfig struct {
	DBPath    string // Path to SQLite database file
	TableName string // Name for the vectors table (default: "vectors")
	Dims      int    // Embedding dimensions
}

// NewSqliteVecStore creates a persistent vector store at cfg.DBPath,
// creating the schema if needed.
func NewSqliteVecStore(cfg SqliteVecConfig) (*SqliteVecStore, error) {
	if cfg.DBPath == "" {
		return nil, types.NewError(ErrCodeInvalidConfig, "database path cannot be empty")
	}
	if cfg.Dims <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig, fmt.Sprintf("dimensions must be positive, got %d", cfg.Dims))
	}
	if cfg.TableName == "" {
		cfg.TableName = "vectors"
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", cfg.DBPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to ping database", err)
	}

	store := &SqliteVecStore{
		db:        db,
		dims:      cfg.Dims,
		tableName: cfg.TableName,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to initialize schema", err)
	}

	return store, nil
}

func (s *SqliteVecStore) initSchema() error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			ref TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, s.tableName)

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create vectors table: %w", err)
	}

	// Every ref-scoped operation (update, list, delete) hits this index.
	indexSQL := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_ref ON %s(ref)", s.tableName, s.tableName)
	if _, err := s.db.Exec(indexSQL); err != nil {
		return fmt.Errorf("failed to create ref index: %w", err)
	}

	return nil
}

// Store adds a single vector record to the store.
func (s *SqliteVecStore) Store(ctx context.Context, record VectorRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeVectorStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	embeddingBytes := serializeEmbedding(record.Embedding)

	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return types.WrapError(ErrCodeVectorStoreFailed, "failed to serialize metadata", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, ref, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Ref,
		record.Content,
		embeddingBytes,
		metadataJSON,
		record.CreatedAt,
	)
	if err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to insert record", err)
	}

	return nil
}

// StoreBatch adds multiple vector records in one transaction.
func (s *SqliteVecStore) StoreBatch(ctx context.Context, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	for i, record := range records {
		if err := record.Validate(); err != nil {
			return types.WrapError(ErrCodeVectorStoreFailed,
				fmt.Sprintf("invalid record at index %d", i), err)
		}
		if len(record.Embedding) != s.dims {
			return types.NewError(ErrCodeVectorStoreFailed,
				fmt.Sprintf("record %d: embedding dimensions mismatch: expected %d, got %d",
					i, s.dims, len(record.Embedding)))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, ref, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.tableName)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	for _, record := range records {
		var metadataJSON []byte
		if record.Metadata != nil {
			metadataJSON, err = json.Marshal(record.Metadata)
			if err != nil {
				return types.WrapError(ErrCodeVectorStoreFailed, "failed to serialize metadata", err)
			}
		}

		_, err = stmt.ExecContext(ctx,
			record.ID,
			record.Ref,
			record.Content,
			serializeEmbedding(record.Embedding),
			metadataJSON,
			record.CreatedAt,
		)
		if err != nil {
			return types.WrapError(ErrCodeVectorStoreFailed, "failed to insert batch record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to commit transaction", err)
	}

	return nil
}

// Update overwrites the mutable fields of every record held for ref.
func (s *SqliteVecStore) Update(ctx context.Context, ref, content string, embedding []float64, metadata map[string]any) (int, error) {
	if len(embedding) != s.dims {
		return 0, types.NewError(ErrCodeVectorStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return 0, types.WrapError(ErrCodeVectorStoreFailed, "failed to serialize metadata", err)
		}
	}

	query := fmt.Sprintf(
		"UPDATE %s SET content = ?, embedding = ?, metadata = ? WHERE ref = ?", s.tableName)
	res, err := s.db.ExecContext(ctx, query, content, serializeEmbedding(embedding), metadataJSON, ref)
	if err != nil {
		return 0, types.WrapError(ErrCodeVectorStoreFailed, "failed to update records", err)
	}

	touched, err := res.RowsAffected()
	if err != nil {
		return 0, types.WrapError(ErrCodeVectorStoreFailed, "failed to read affected rows", err)
	}
	return int(touched), nil
}

// Search finds similar records by embedding vector using brute-force
// cosine similarity over all stored rows.
func (s *SqliteVecStore) Search(ctx context.Context, query VectorQuery) ([]VectorResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.Embedding) != s.dims {
		return nil, types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d",
				s.dims, len(query.Embedding)))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	querySQL := fmt.Sprintf(
		"SELECT id, ref, content, embedding, metadata, created_at FROM %s", s.tableName)
	rows, err := s.db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "failed to query vectors", err)
	}
	defer rows.Close()

	results := make([]VectorResult, 0)
	for rows.Next() {
		record, err := scanVectorRow(rows, s.dims)
		if err != nil {
			return nil, err
		}
		if query.excludes(record.Ref) {
			continue
		}

		score := cosineSimilarity(query.Embedding, record.Embedding)
		if query.MinScore > 0 && score < query.MinScore {
			continue
		}
		results = append(results, VectorResult{Record: record, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "error iterating rows", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > query.TopK {
		results = results[:query.TopK]
	}
	return results, nil
}

// Get retrieves a specific record by its surrogate ID.
func (s *SqliteVecStore) Get(ctx context.Context, id string) (*VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	query := fmt.Sprintf(
		"SELECT id, ref, content, embedding, metadata, created_at FROM %s WHERE id = ?", s.tableName)
	row := s.db.QueryRowContext(ctx, query, id)

	record, err := scanVectorRow(row, s.dims)
	if err == sql.ErrNoRows {
		return nil, types.NewError(ErrCodeVectorNotFound, fmt.Sprintf("vector record not found: %s", id))
	}
	if err != nil {
		if types.CodeOf(err) != "" {
			return nil, err
		}
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "failed to get record", err)
	}

	return &record, nil
}

// ListByRef returns every record held for ref.
func (s *SqliteVecStore) ListByRef(ctx context.Context, ref string) ([]VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	query := fmt.Sprintf(
		"SELECT id, ref, content, embedding, metadata, created_at FROM %s WHERE ref = ?", s.tableName)
	rows, err := s.db.QueryContext(ctx, query, ref)
	if err != nil {
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "failed to query by ref", err)
	}
	defer rows.Close()

	var records []VectorRecord
	for rows.Next() {
		record, err := scanVectorRow(rows, s.dims)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "error iterating rows", err)
	}
	return records, nil
}

// DeleteByRef removes every record held for ref.
func (s *SqliteVecStore) DeleteByRef(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE ref = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, query, ref); err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to delete records", err)
	}
	return nil
}

// Health returns the current health status of the vector store.
func (s *SqliteVecStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Unhealthy("sqlite vector store is closed")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return types.Unhealthy(fmt.Sprintf("database ping failed: %v", err))
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return types.Degraded(fmt.Sprintf("failed to count records: %v", err))
	}

	return types.Healthy(
		fmt.Sprintf("sqlite vector store operational with %d records (dims: %d)", count, s.dims))
}

// Close releases all resources held by the vector store.
func (s *SqliteVecStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVectorRow(row rowScanner, dims int) (VectorRecord, error) {
	var record VectorRecord
	var embeddingBytes, metadataJSON []byte

	err := row.Scan(&record.ID, &record.Ref, &record.Content, &embeddingBytes, &metadataJSON, &record.CreatedAt)
	if err != nil {
		return VectorRecord{}, err
	}

	embedding, err := deserializeEmbedding(embeddingBytes, dims)
	if err != nil {
		return VectorRecord{}, types.WrapError(ErrCodeVectorSearchFailed, "failed to deserialize embedding", err)
	}
	record.Embedding = embedding

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return VectorRecord{}, types.WrapError(ErrCodeVectorSearchFailed, "failed to deserialize metadata", err)
		}
	}

	return record, nil
}

// serializeEmbedding packs a float64 slice little-endian, 8 bytes per value.
func serializeEmbedding(embedding []float64) []byte {
	bytes := make([]byte, len(embedding)*8)
	for i, val := range embedding {
		bits := math.Float64bits(val)
		offset := i * 8
		bytes[offset] = byte(bits)
		bytes[offset+1] = byte(bits >> 8)
		bytes[offset+2] = byte(bits >> 16)
		bytes[offset+3] = byte(bits >> 24)
		bytes[offset+4] = byte(bits >> 32)
		bytes[offset+5] = byte(bits >> 40)
		bytes[offset+6] = byte(bits >> 48)
		bytes[offset+7] = byte(bits >> 56)
	}
	return bytes
}

func deserializeEmbedding(bytes []byte, dims int) ([]float64, error) {
	expectedLen := dims * 8
	if len(bytes) != expectedLen {
		return nil, fmt.Errorf("invalid embedding bytes length: expected %d, got %d", expectedLen, len(bytes))
	}

	embedding := make([]float64, dims)
	for i := 0; i < dims; i++ {
		offset := i * 8
		bits := uint64(bytes[offset]) |
			uint64(bytes[offset+1])<<8 |
			uint64(bytes[offset+2])<<16 |
			uint64(bytes[offset+3])<<24 |
			uint64(bytes[offset+4])<<32 |
			uint64(bytes[offset+5])<<40 |
			uint64(bytes[offset+6])<<48 |
			uint64(bytes[offset+7])<<56
		embedding[i] = math.Float64frombits(bits)
	}
	return embedding, nil
}
