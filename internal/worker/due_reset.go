// Package worker hosts the background jobs that run beside the HTTP server.
package worker

import (
	"context"
	"fmt"
	"time"

	"financehub/internal/models"
	"financehub/internal/service"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

// fixedExpenseStore is the slice of the transaction repository the carry-over
// job needs.
type fixedExpenseStore interface {
	ListFixedInRange(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
}

// DueResetWorker carries fixed expenses into each new month: on the cron
// tick it clones the previous month's fixed expenses as unpaid rows dated at
// their due day. Rows whose description already exists for the user in the
// new month are left alone, so manual entries and reruns are safe.
type DueResetWorker struct {
	cron   *cron.Cron
	txRepo fixedExpenseStore
	logger *zap.Logger
	now    func() time.Time
}

func NewDueResetWorker(spec string, txRepo fixedExpenseStore, logger *zap.Logger) (*DueResetWorker, error) {
	w := &DueResetWorker{
		cron:   cron.New(),
		txRepo: txRepo,
		logger: logger,
		now:    time.Now,
	}

	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return w, nil
}

func (w *DueResetWorker) Start() {
	w.cron.Start()
	w.logger.Info("Due reset worker started")
}

func (w *DueResetWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Due reset worker stopped")
}

func (w *DueResetWorker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := w.now()
	if err := w.CarryOver(ctx, now.Year(), int(now.Month())); err != nil {
		w.logger.Error("Due reset failed", zap.Error(err))
	}
}

// CarryOver clones the previous month's fixed expenses into (year, month).
func (w *DueResetWorker) CarryOver(ctx context.Context, year, month int) error {
	prevYear, prevMonth := service.PreviousMonth(year, month)
	prevStart, prevEnd := service.MonthBounds(prevYear, prevMonth)
	curStart, curEnd := service.MonthBounds(year, month)

	previous, err := w.txRepo.ListFixedInRange(ctx, prevStart, prevEnd)
	if err != nil {
		return fmt.Errorf("list previous month: %w", err)
	}
	if len(previous) == 0 {
		return nil
	}

	current, err := w.txRepo.ListFixedInRange(ctx, curStart, curEnd)
	if err != nil {
		return fmt.Errorf("list current month: %w", err)
	}
	existing := make(map[string]struct{}, len(current))
	for _, tx := range current {
		existing[dedupeKey(tx.UserID, tx.Description)] = struct{}{}
	}

	days := service.DaysInMonth(year, month)
	now := w.now()
	var clones []*models.Transaction
	for _, tx := range previous {
		if _, ok := existing[dedupeKey(tx.UserID, tx.Description)]; ok {
			continue
		}

		day := tx.Date.Day()
		if tx.DueDay != nil {
			day = *tx.DueDay
		}
		if day > days {
			day = days
		}

		paid := false
		clone := *tx
		clone.ID = uuid.New()
		clone.Date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		clone.IsPaid = &paid
		clone.CreatedAt = now
		clone.UpdatedAt = now
		clones = append(clones, &clone)

		existing[dedupeKey(tx.UserID, tx.Description)] = struct{}{}
	}

	if len(clones) == 0 {
		return nil
	}

	if err := w.txRepo.CreateBatch(ctx, clones); err != nil {
		return fmt.Errorf("insert clones: %w", err)
	}

	w.logger.Info("Fixed expenses carried over",
		zap.Int("count", len(clones)),
		zap.Int("year", year),
		zap.Int("month", month),
	)
	return nil
}

func dedupeKey(userID uuid.UUID, description string) string {
	return userID.String() + "|" + description
}
