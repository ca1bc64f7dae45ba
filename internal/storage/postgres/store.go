// Package postgres provides a pgx-backed storage implementation that satisfies
// the account and message store contracts used by the services.
//
// Schema lives in the embedded migrations directory and is applied by Migrate.
// Check-and-mutate operations are single statements (on conflict / returning)
// so concurrent requests cannot interleave between the check and the write.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
// Pool sizing can be tuned through the DSN (pool_max_conns, pool_min_conns).
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// translate maps driver errors onto the shared sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errs.ErrConflict
	}
	return errs.Storage(err)
}

// --- Account reads ---

const accountColumns = `account_id, username, password`

func (s *Store) AccountByUsername(ctx context.Context, username string) (social.Account, error) {
	return s.queryAccount(ctx, `select `+accountColumns+` from account where username = $1`, username)
}

func (s *Store) AccountByID(ctx context.Context, accountID int64) (social.Account, error) {
	return s.queryAccount(ctx, `select `+accountColumns+` from account where account_id = $1`, accountID)
}

func (s *Store) AccountByCredentials(ctx context.Context, username, password string) (social.Account, error) {
	return s.queryAccount(ctx, `select `+accountColumns+` from account where username = $1 and password = $2`, username, password)
}

func (s *Store) AccountExists(ctx context.Context, accountID int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `select exists(select 1 from account where account_id = $1)`, accountID).Scan(&ok)
	if err != nil {
		return false, errs.Storage(err)
	}
	return ok, nil
}

// ListAccounts returns all accounts ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]social.Account, error) {
	rows, err := s.pool.Query(ctx, `select `+accountColumns+` from account order by account_id`)
	if err != nil {
		return nil, errs.Storage(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (social.Account, error) {
		var a social.Account
		err := row.Scan(&a.AccountID, &a.Username, &a.Password)
		return a, err
	})
	if err != nil {
		return nil, errs.Storage(err)
	}
	if out == nil {
		out = []social.Account{}
	}
	return out, nil
}

func (s *Store) queryAccount(ctx context.Context, sql string, args ...any) (social.Account, error) {
	var a social.Account
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&a.AccountID, &a.Username, &a.Password); err != nil {
		return social.Account{}, translate(err)
	}
	return a, nil
}

// --- Account writes ---

// CreateAccount inserts an account; a taken username yields errs.ErrConflict.
func (s *Store) CreateAccount(ctx context.Context, username, password string) (social.Account, error) {
	a := social.Account{Username: username, Password: password}
	err := s.pool.QueryRow(ctx, `
		insert into account (username, password)
		values ($1, $2)
		on conflict (username) do nothing
		returning account_id
	`, username, password).Scan(&a.AccountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return social.Account{}, errs.ErrConflict
	}
	if err != nil {
		return social.Account{}, translate(err)
	}
	return a, nil
}

// UpdateAccount replaces username and password of an existing account.
func (s *Store) UpdateAccount(ctx context.Context, a social.Account) (social.Account, error) {
	ct, err := s.pool.Exec(ctx, `
		update account set username = $1, password = $2
		where account_id = $3
	`, a.Username, a.Password, a.AccountID)
	if err != nil {
		return social.Account{}, translate(err)
	}
	if ct.RowsAffected() == 0 {
		return social.Account{}, errs.ErrNotFound
	}
	return a, nil
}

// DeleteAccount removes an account. Its messages are kept.
func (s *Store) DeleteAccount(ctx context.Context, accountID int64) error {
	ct, err := s.pool.Exec(ctx, `delete from account where account_id = $1`, accountID)
	if err != nil {
		return translate(err)
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Message reads ---

const messageColumns = `message_id, posted_by, message_text, time_posted_epoch`

func scanMessage(row pgx.CollectableRow) (social.Message, error) {
	var m social.Message
	err := row.Scan(&m.MessageID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch)
	return m, err
}

func (s *Store) ListMessages(ctx context.Context) ([]social.Message, error) {
	return s.queryMessages(ctx, `select `+messageColumns+` from message order by message_id`)
}

func (s *Store) MessagesByAccountID(ctx context.Context, accountID int64) ([]social.Message, error) {
	return s.queryMessages(ctx, `select `+messageColumns+` from message where posted_by = $1 order by message_id`, accountID)
}

func (s *Store) MessageByID(ctx context.Context, messageID int64) (social.Message, error) {
	return s.queryMessage(ctx, `select `+messageColumns+` from message where message_id = $1`, messageID)
}

func (s *Store) queryMessages(ctx context.Context, sql string, args ...any) ([]social.Message, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errs.Storage(err)
	}
	out, err := pgx.CollectRows(rows, scanMessage)
	if err != nil {
		return nil, errs.Storage(err)
	}
	if out == nil {
		out = []social.Message{}
	}
	return out, nil
}

func (s *Store) queryMessage(ctx context.Context, sql string, args ...any) (social.Message, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return social.Message{}, errs.Storage(err)
	}
	m, err := pgx.CollectOneRow(rows, scanMessage)
	if err != nil {
		return social.Message{}, translate(err)
	}
	return m, nil
}

// --- Message writes ---

func (s *Store) CreateMessage(ctx context.Context, m social.Message) (social.Message, error) {
	return s.queryMessage(ctx, `
		insert into message (posted_by, message_text, time_posted_epoch)
		values ($1, $2, $3)
		returning `+messageColumns, m.PostedBy, m.MessageText, m.TimePostedEpoch)
}

// UpdateMessageText replaces the text in one statement and returns the updated row.
func (s *Store) UpdateMessageText(ctx context.Context, messageID int64, text string) (social.Message, error) {
	return s.queryMessage(ctx, `
		update message set message_text = $1
		where message_id = $2
		returning `+messageColumns, text, messageID)
}

// DeleteMessage removes the row and returns it as it was before deletion.
func (s *Store) DeleteMessage(ctx context.Context, messageID int64) (social.Message, error) {
	return s.queryMessage(ctx, `
		delete from message
		where message_id = $1
		returning `+messageColumns, messageID)
}
