package worker

import (
	"context"
	"testing"
	"time"

	"financehub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFixedStore struct {
	rows    []*models.Transaction
	batches [][]*models.Transaction
}

func (f *fakeFixedStore) ListFixedInRange(_ context.Context, start, end time.Time) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range f.rows {
		if tx.Kind == models.KindFixed && !tx.Date.Before(start) && !tx.Date.After(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeFixedStore) CreateBatch(_ context.Context, transactions []*models.Transaction) error {
	f.batches = append(f.batches, transactions)
	f.rows = append(f.rows, transactions...)
	return nil
}

func newTestWorker(t *testing.T, store *fakeFixedStore) *DueResetWorker {
	t.Helper()
	w, err := NewDueResetWorker("0 0 1 * *", store, zap.NewNop())
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }
	return w
}

func fixedExpense(userID uuid.UUID, description string, date time.Time, dueDay *int, paid bool) *models.Transaction {
	return &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        models.KindFixed,
		Date:        date,
		Amount:      decimal.NewFromInt(120),
		Description: description,
		IsPaid:      &paid,
		DueDay:      dueDay,
	}
}

func intPtr(v int) *int { return &v }

func TestCarryOver_ClampsDueDay(t *testing.T) {
	userID := uuid.New()
	store := &fakeFixedStore{rows: []*models.Transaction{
		fixedExpense(userID, "Alquiler", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), intPtr(31), true),
		fixedExpense(userID, "Internet", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), intPtr(10), true),
	}}
	w := newTestWorker(t, store)

	require.NoError(t, w.CarryOver(context.Background(), 2025, 2))

	require.Len(t, store.batches, 1)
	clones := store.batches[0]
	require.Len(t, clones, 2)

	byDescription := make(map[string]*models.Transaction, len(clones))
	for _, tx := range clones {
		byDescription[tx.Description] = tx
	}
	// Day 31 does not exist in February, the clone lands on the last day.
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), byDescription["Alquiler"].Date)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), byDescription["Internet"].Date)
}

func TestCarryOver_ClampsDueDayLeapYear(t *testing.T) {
	userID := uuid.New()
	store := &fakeFixedStore{rows: []*models.Transaction{
		fixedExpense(userID, "Alquiler", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), intPtr(31), true),
	}}
	w := newTestWorker(t, store)

	require.NoError(t, w.CarryOver(context.Background(), 2024, 2))

	require.Len(t, store.batches, 1)
	require.Len(t, store.batches[0], 1)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), store.batches[0][0].Date)
}

func TestCarryOver_RerunIsIdempotent(t *testing.T) {
	userID := uuid.New()
	store := &fakeFixedStore{rows: []*models.Transaction{
		fixedExpense(userID, "Alquiler", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), intPtr(1), true),
	}}
	w := newTestWorker(t, store)

	require.NoError(t, w.CarryOver(context.Background(), 2025, 2))
	require.Len(t, store.batches, 1)

	// The clone now exists in February, a rerun must not insert it again.
	require.NoError(t, w.CarryOver(context.Background(), 2025, 2))
	assert.Len(t, store.batches, 1)
}

func TestCarryOver_SkipsManualEntries(t *testing.T) {
	userID := uuid.New()
	store := &fakeFixedStore{rows: []*models.Transaction{
		fixedExpense(userID, "Alquiler", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), intPtr(1), true),
		// Already recorded by hand for February.
		fixedExpense(userID, "Alquiler", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), intPtr(1), false),
	}}
	w := newTestWorker(t, store)

	require.NoError(t, w.CarryOver(context.Background(), 2025, 2))
	assert.Empty(t, store.batches)
}

func TestCarryOver_ClonesStartUnpaid(t *testing.T) {
	userID := uuid.New()
	source := fixedExpense(userID, "Seguro", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), nil, true)
	store := &fakeFixedStore{rows: []*models.Transaction{source}}
	w := newTestWorker(t, store)

	require.NoError(t, w.CarryOver(context.Background(), 2025, 2))

	require.Len(t, store.batches, 1)
	require.Len(t, store.batches[0], 1)
	clone := store.batches[0][0]

	require.NotNil(t, clone.IsPaid)
	assert.False(t, *clone.IsPaid)
	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, source.UserID, clone.UserID)
	assert.Equal(t, models.KindFixed, clone.Kind)
	assert.True(t, source.Amount.Equal(clone.Amount))
	// Without a due day the clone keeps the source's day of month.
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), clone.Date)
	// The source row itself stays paid.
	assert.True(t, *source.IsPaid)
}
