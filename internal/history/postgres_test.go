package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nlxchange/intent-engine/pkg/types"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return newPostgresStoreWithDB(db, zaptest.NewLogger(t)), mock
}

func TestRecordParse(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	rec := &ParseRecord{
		ID:            "11111111-1111-1111-1111-111111111111",
		WalletAddress: "0xwallet",
		Text:          "swap 1 ETH to USDC",
		Mode:          types.ModeSwap,
		ResponseText:  "You'd pay 1 ETH...",
		CreatedAt:     time.Now(),
	}

	mock.ExpectExec("INSERT INTO parse_history").
		WithArgs(rec.ID, rec.WalletAddress, rec.Text, "swap", rec.ResponseText, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.RecordParse(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStatus(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	rec := &StatusRecord{
		TradeID:       "22222222-2222-2222-2222-222222222222",
		WalletAddress: "0xwallet",
		State:         types.StateFailed,
		Error:         "aggregator down",
		RecordedAt:    time.Now(),
	}

	mock.ExpectExec("INSERT INTO trade_status_history").
		WithArgs(rec.TradeID, rec.WalletAddress, "failed", rec.TxHash, rec.Error, rec.RecordedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.RecordStatus(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentMessages(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	// The query returns newest-first; the store replays oldest-first as
	// alternating user/assistant messages.
	rows := sqlmock.NewRows([]string{"text", "response_text"}).
		AddRow("swap 2 ETH to DAI", "You'd pay 2 ETH...").
		AddRow("swap 1 ETH to USDC", "You'd pay 1 ETH...")

	mock.ExpectQuery("SELECT text, response_text").
		WithArgs("0xwallet", 2).
		WillReturnRows(rows)

	messages, err := store.RecentMessages(context.Background(), "0xwallet", 2)
	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "swap 1 ETH to USDC", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "user", messages[2].Role)
	assert.Equal(t, "swap 2 ETH to DAI", messages[2].Content)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordParseError(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO parse_history").
		WillReturnError(assert.AnError)

	err := store.RecordParse(context.Background(), &ParseRecord{ID: "x", CreatedAt: time.Now()})
	require.Error(t, err)
}
