package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/nlxchange/intent-engine/internal/llm"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStore creates a PostgreSQL-backed activity log.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("history-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{db: db, logger: cfg.Logger}, nil
}

// newPostgresStoreWithDB wires an existing handle; used by sqlmock tests.
func newPostgresStoreWithDB(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// RecordParse logs a parse turn.
func (p *PostgresStore) RecordParse(ctx context.Context, rec *ParseRecord) error {
	query := `
		INSERT INTO parse_history (id, wallet_address, text, mode, response_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := p.db.ExecContext(ctx, query,
		rec.ID, rec.WalletAddress, rec.Text, string(rec.Mode), rec.ResponseText, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert parse record: %w", err)
	}
	return nil
}

// RecordStatus logs a terminal trade outcome.
func (p *PostgresStore) RecordStatus(ctx context.Context, rec *StatusRecord) error {
	query := `
		INSERT INTO trade_status_history (trade_id, wallet_address, state, tx_hash, error, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := p.db.ExecContext(ctx, query,
		rec.TradeID, rec.WalletAddress, string(rec.State), rec.TxHash, rec.Error, rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert status record: %w", err)
	}
	return nil
}

// RecentMessages returns the last n parse turns for a wallet, oldest first.
func (p *PostgresStore) RecentMessages(ctx context.Context, walletAddress string, n int) ([]llm.Message, error) {
	query := `
		SELECT text, response_text
		FROM parse_history
		WHERE wallet_address = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := p.db.QueryContext(ctx, query, walletAddress, n)
	if err != nil {
		return nil, fmt.Errorf("query parse history: %w", err)
	}
	defer rows.Close()

	var reversed []llm.Message
	for rows.Next() {
		var text, response string
		if err := rows.Scan(&text, &response); err != nil {
			return nil, fmt.Errorf("scan parse history: %w", err)
		}
		// Newest-first from the query; flip to oldest-first below.
		reversed = append(reversed,
			llm.Message{Role: "assistant", Content: response},
			llm.Message{Role: "user", Content: text})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parse history: %w", err)
	}

	messages := make([]llm.Message, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		messages = append(messages, reversed[i])
	}
	return messages, nil
}

// Close closes the database connection.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
