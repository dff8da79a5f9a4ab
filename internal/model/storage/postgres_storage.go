package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jinzhu/now"
	"go.uber.org/zap"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var expenseColumns = []string{"id", "merchant", "amount", "currency", "category", "note", "expense_date", "created_at"}

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = runMigrations(db); err != nil {
		return nil, errors.Wrap(err, "cannot migrate database")
	}
	return &PostgresStorage{db}, nil
}

// SaveExpenses writes the whole batch in one transaction and returns the
// records with their assigned ids, in input order.
func (s *PostgresStorage) SaveExpenses(ctx context.Context, batch []expense.ParsedExpense) ([]expense.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "save expenses")
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	records := make([]expense.Record, 0, len(batch))
	for _, exp := range batch {
		query := psql.Insert("expenses").
			Columns("merchant", "amount", "currency", "category", "note", "expense_date").
			Values(exp.Merchant, exp.Amount, currencyOrDefault(exp.Currency), exp.Category, exp.Note, exp.ExpenseDate.String()).
			Suffix("RETURNING id, created_at")

		rec := expense.Record{
			Merchant:    exp.Merchant,
			Amount:      exp.Amount,
			Currency:    currencyOrDefault(exp.Currency),
			Category:    exp.Category,
			Note:        exp.Note,
			ExpenseDate: exp.ExpenseDate,
		}
		err = query.RunWith(tx).QueryRowContext(ctx).Scan(&rec.ID, &rec.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "save expenses")
		}
		records = append(records, rec)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "save expenses")
	}
	return records, nil
}

func (s *PostgresStorage) RecentExpenses(ctx context.Context, limit int) ([]expense.Record, error) {
	query := psql.Select(expenseColumns...).
		From("expenses").
		OrderBy("expense_date DESC", "created_at DESC").
		Limit(uint64(limit))

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "recent expenses")
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	records := make([]expense.Record, 0)
	for rows.Next() {
		var rec expense.Record
		var category, note sql.NullString
		err = rows.Scan(&rec.ID, &rec.Merchant, &rec.Amount, &rec.Currency,
			&category, &note, &rec.ExpenseDate.Time, &rec.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "recent expenses")
		}
		rec.Category = nullableString(category)
		rec.Note = nullableString(note)
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "recent expenses")
	}

	return records, nil
}

func (s *PostgresStorage) Summary(ctx context.Context, today time.Time) (expense.Summary, error) {
	day := expense.NewDate(today)
	month := now.New(today)

	todayTotal, err := s.sumWhere(ctx, sq.Eq{"expense_date": day.String()})
	if err != nil {
		return expense.Summary{}, errors.Wrap(err, "summary")
	}

	monthTotal, err := s.sumWhere(ctx, sq.And{
		sq.GtOrEq{"expense_date": expense.NewDate(month.BeginningOfMonth()).String()},
		sq.LtOrEq{"expense_date": expense.NewDate(month.EndOfMonth()).String()},
	})
	if err != nil {
		return expense.Summary{}, errors.Wrap(err, "summary")
	}

	recent, err := s.RecentExpenses(ctx, summaryRecentLimit)
	if err != nil {
		return expense.Summary{}, errors.Wrap(err, "summary")
	}

	return expense.Summary{
		TodayTotal: todayTotal,
		MonthTotal: monthTotal,
		Recent:     recent,
	}, nil
}

func (s *PostgresStorage) sumWhere(ctx context.Context, cond sq.Sqlizer) (float64, error) {
	query := psql.Select("COALESCE(SUM(amount), 0)").
		From("expenses").
		Where(cond)

	var total float64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "sum expenses")
	}
	return total, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
