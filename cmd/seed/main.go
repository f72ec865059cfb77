package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"financehub/internal/models"
	"financehub/internal/repository"
	"financehub/pkg/auth"
	"financehub/pkg/config"
	"financehub/pkg/logger"
	"financehub/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeds a demo account with six months of realistic activity so the
// dashboards have something to show on a fresh install.

const (
	demoUsername = "demo"
	demoEmail    = "demo@financehub.local"
	demoPassword = "demo1234"

	seedDays = 180
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := postgres.RunMigrations(&cfg.Database); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	methodRepo := repository.NewPaymentMethodRepository(db, appLogger)
	goalRepo := repository.NewSavingGoalRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	if _, err := userRepo.GetByEmail(ctx, demoEmail); err == nil {
		appLogger.Info("Demo user already exists, nothing to do", zap.String("email", demoEmail))
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		appLogger.Fatal("Failed to check demo user", zap.Error(err))
	}

	now := time.Now()
	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		appLogger.Fatal("Failed to hash password", zap.Error(err))
	}

	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		appLogger.Fatal("Failed to create demo user", zap.Error(err))
	}

	categories, err := seedCategories(ctx, categoryRepo, user.ID, now)
	if err != nil {
		appLogger.Fatal("Failed to seed categories", zap.Error(err))
	}

	methods, err := seedPaymentMethods(ctx, methodRepo, user.ID, now)
	if err != nil {
		appLogger.Fatal("Failed to seed payment methods", zap.Error(err))
	}

	goals, err := seedGoals(ctx, goalRepo, user.ID, now)
	if err != nil {
		appLogger.Fatal("Failed to seed saving goals", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))
	transactions := buildTransactions(rng, user.ID, categories, methods, goals, now)
	if err := txRepo.CreateBatch(ctx, transactions); err != nil {
		appLogger.Fatal("Failed to seed transactions", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.String("username", demoUsername),
		zap.Int("transactions", len(transactions)),
	)
}

// categoryKey addresses a seeded category by kind and name.
type categoryKey struct {
	kind models.TransactionKind
	name string
}

func seedCategories(ctx context.Context, repo *repository.CategoryRepository, userID uuid.UUID, now time.Time) (map[categoryKey]uuid.UUID, error) {
	names := map[models.TransactionKind][]string{
		models.KindIncome:   {"Salario", "Freelance", "Negocio"},
		models.KindFixed:    {"Renta", "Servicios", "Internet"},
		models.KindVariable: {"Supermercado", "Transporte", "Ocio"},
		models.KindSaving:   {"Fondo de emergencia", "Inversión"},
	}

	out := make(map[categoryKey]uuid.UUID)
	for kind, list := range names {
		for _, name := range list {
			category := &models.Category{
				ID:        uuid.New(),
				UserID:    userID,
				Name:      name,
				Kind:      kind,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repo.Create(ctx, category); err != nil {
				return nil, err
			}
			out[categoryKey{kind, name}] = category.ID
		}
	}
	return out, nil
}

func seedPaymentMethods(ctx context.Context, repo *repository.PaymentMethodRepository, userID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, name := range []string{"Efectivo", "Tarjeta", "Transferencia"} {
		method := &models.PaymentMethod{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      name,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, method); err != nil {
			return nil, err
		}
		out = append(out, method.ID)
	}
	return out, nil
}

func seedGoals(ctx context.Context, repo *repository.SavingGoalRepository, userID uuid.UUID, now time.Time) ([]*models.SavingGoal, error) {
	targets := map[string]int64{
		"Fondo de emergencia": 5000,
		"Vacaciones":          1500,
	}

	var out []*models.SavingGoal
	for name, target := range targets {
		goal := &models.SavingGoal{
			ID:           uuid.New(),
			UserID:       userID,
			Name:         name,
			TargetAmount: decimal.NewFromInt(target),
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.Create(ctx, goal); err != nil {
			return nil, err
		}
		out = append(out, goal)
	}
	return out, nil
}

func buildTransactions(
	rng *rand.Rand,
	userID uuid.UUID,
	categories map[categoryKey]uuid.UUID,
	methods []uuid.UUID,
	goals []*models.SavingGoal,
	now time.Time,
) []*models.Transaction {
	var out []*models.Transaction

	start := now.AddDate(0, 0, -seedDays)
	necessary := models.ExpenseNecessary
	want := models.ExpenseWant
	savings := models.SavingSavings
	investment := models.SavingInvestment

	variableCats := []struct {
		name        string
		expenseType *models.ExpenseType
		min, max    int
	}{
		{"Supermercado", &necessary, 15, 90},
		{"Transporte", &necessary, 3, 25},
		{"Ocio", &want, 10, 60},
	}

	newTx := func(kind models.TransactionKind, date time.Time, amount decimal.Decimal, catID uuid.UUID, description string) *models.Transaction {
		method := methods[rng.Intn(len(methods))]
		cat := catID
		return &models.Transaction{
			ID:              uuid.New(),
			UserID:          userID,
			Kind:            kind,
			Date:            date,
			Amount:          amount,
			CategoryID:      &cat,
			PaymentMethodID: &method,
			Description:     description,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	// Walk month by month for the recurring entries.
	for cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(now); cursor = cursor.AddDate(0, 1, 0) {
		salary := decimal.NewFromInt(int64(2500 + rng.Intn(600)))
		tx := newTx(models.KindIncome, cursor, salary, categories[categoryKey{models.KindIncome, "Salario"}], "Salario mensual")
		tx.Source = "Empresa Omega"
		out = append(out, tx)

		if rng.Intn(3) == 0 {
			extra := decimal.NewFromInt(int64(150 + rng.Intn(400)))
			freelance := newTx(models.KindIncome, cursor.AddDate(0, 0, 10+rng.Intn(10)), extra, categories[categoryKey{models.KindIncome, "Freelance"}], "Proyecto freelance")
			freelance.Source = "Cliente independiente"
			out = append(out, freelance)
		}

		fixed := []struct {
			name   string
			cat    string
			amount int64
			due    int
		}{
			{"Renta departamento", "Renta", 800, 1},
			{"Luz y agua", "Servicios", int64(60 + rng.Intn(50)), 10},
			{"Fibra óptica", "Internet", 45, 5},
		}
		for _, f := range fixed {
			paid := cursor.Before(now.AddDate(0, -1, 0)) || rng.Intn(2) == 0
			due := f.due
			tx := newTx(models.KindFixed, time.Date(cursor.Year(), cursor.Month(), due, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(f.amount), categories[categoryKey{models.KindFixed, f.cat}], f.name)
			tx.IsPaid = &paid
			tx.DueDay = &due
			out = append(out, tx)
		}

		for i, goal := range goals {
			amount := decimal.NewFromInt(int64(100 + rng.Intn(200)))
			tx := newTx(models.KindSaving, cursor.AddDate(0, 0, 2), amount, categories[categoryKey{models.KindSaving, "Fondo de emergencia"}], "Aporte mensual "+goal.Name)
			savingType := savings
			if i%2 == 1 {
				savingType = investment
				tx.CategoryID = ptrUUID(categories[categoryKey{models.KindSaving, "Inversión"}])
			}
			goalID := goal.ID
			tx.SavingType = &savingType
			tx.GoalID = &goalID
			tx.GoalName = goal.Name
			target := goal.TargetAmount
			tx.GoalAmount = &target
			out = append(out, tx)
		}
	}

	// Daily variable spending.
	for day := 0; day < seedDays; day++ {
		date := start.AddDate(0, 0, day)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		for n := rng.Intn(3); n > 0; n-- {
			pick := variableCats[rng.Intn(len(variableCats))]
			cents := int64((pick.min + rng.Intn(pick.max-pick.min)) * 100)
			amount := decimal.New(cents, -2)
			tx := newTx(models.KindVariable, date, amount, categories[categoryKey{models.KindVariable, pick.name}], "Gasto en "+pick.name)
			tx.ExpenseType = pick.expenseType
			out = append(out, tx)
		}
	}

	return out
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
