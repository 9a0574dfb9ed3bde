package payment

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airtimehq/airtime/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	debitQuery  = `(?s)^UPDATE\s+accounts\s+SET\s+balance\s*=\s*balance\s*-\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
	creditQuery = `(?s)^\s*INSERT\s+INTO\s+accounts\s+\(id,\s*balance\)\s+VALUES\s+\(\$1,\s*\$2\)\s+ON\s+CONFLICT\s+\(id\)\s+DO\s+UPDATE\s+SET\s+balance\s*=\s*accounts\.balance\s*\+\s*EXCLUDED\.balance\s*$`
)

func newProcessorWithMock(t *testing.T) (*PostgresProcessor, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresProcessor(db), mock, db
}

func TestTransfer_Success(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(debitQuery).WithArgs("GALICE", int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs("GADMIN", int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := p.Transfer(context.Background(), "GALICE", "GADMIN", 100); err != nil {
		t.Fatalf("Transfer error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransfer_OverdraftIsInsufficientBalance(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(debitQuery).WithArgs("GALICE", int64(100)).
		WillReturnError(&pgconn.PgError{Code: checkViolationCode, Message: "balance check violated"})
	mock.ExpectRollback()

	err := p.Transfer(context.Background(), "GALICE", "GADMIN", 100)
	if !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTransfer_MissingAccountIsInsufficientBalance(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(debitQuery).WithArgs("GNOBODY", int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := p.Transfer(context.Background(), "GNOBODY", "GADMIN", 100)
	if !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTransfer_InfrastructureErrorIsNotInsufficientBalance(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	boom := errors.New("connection reset by peer")

	mock.ExpectBegin()
	mock.ExpectExec(debitQuery).WithArgs("GALICE", int64(100)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := p.Transfer(context.Background(), "GALICE", "GADMIN", 100)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("infrastructure failure must not read as insufficient balance: %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected the db error to propagate, got %v", err)
	}
}

func TestTransfer_CreditFailureRollsBack(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(debitQuery).WithArgs("GALICE", int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(creditQuery).WithArgs("GADMIN", int64(100)).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if err := p.Transfer(context.Background(), "GALICE", "GADMIN", 100); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransfer_ZeroAmountIsNoop(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	if err := p.Transfer(context.Background(), "GALICE", "GADMIN", 0); err != nil {
		t.Fatalf("Transfer error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db access: %v", err)
	}
}

func TestDeposit(t *testing.T) {
	p, mock, db := newProcessorWithMock(t)
	defer db.Close()

	mock.ExpectExec(creditQuery).WithArgs("GALICE", int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := p.Deposit(context.Background(), "GALICE", 500); err != nil {
		t.Fatalf("Deposit error: %v", err)
	}
}
