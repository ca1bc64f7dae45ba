// Package sqlite provides a single-file store backed by gorm and SQLite, for local
// runs that want persistence without a Postgres server.
package sqlite

import (
	"context"
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

type accountRow struct {
	AccountID int64  `gorm:"column:account_id;primaryKey;autoIncrement"`
	Username  string `gorm:"column:username;not null;uniqueIndex"`
	Password  string `gorm:"column:password;not null"`
}

func (accountRow) TableName() string { return "account" }

func (r accountRow) toDomain() social.Account {
	return social.Account{AccountID: r.AccountID, Username: r.Username, Password: r.Password}
}

type messageRow struct {
	MessageID       int64  `gorm:"column:message_id;primaryKey;autoIncrement"`
	PostedBy        int64  `gorm:"column:posted_by;not null;index"`
	MessageText     string `gorm:"column:message_text;not null"`
	TimePostedEpoch int64  `gorm:"column:time_posted_epoch;not null;default:0"`
}

func (messageRow) TableName() string { return "message" }

func (r messageRow) toDomain() social.Message {
	return social.Message{MessageID: r.MessageID, PostedBy: r.PostedBy, MessageText: r.MessageText, TimePostedEpoch: r.TimePostedEpoch}
}

// Store implements the account and message stores on a gorm handle.
// SQLite allows a single writer, so the pool is held to one connection and
// every check-and-mutate runs inside a transaction on it.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database file at path and migrates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.WithContext(ctx).AutoMigrate(&accountRow{}, &messageRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Ready pings the database.
func (s *Store) Ready(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.ErrConflict
	default:
		return errs.Storage(err)
	}
}

// --- Account reads ---

func (s *Store) firstAccount(ctx context.Context, query any, args ...any) (social.Account, error) {
	var row accountRow
	if err := s.db.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		return social.Account{}, translate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) AccountByUsername(ctx context.Context, username string) (social.Account, error) {
	return s.firstAccount(ctx, "username = ?", username)
}

func (s *Store) AccountByID(ctx context.Context, accountID int64) (social.Account, error) {
	return s.firstAccount(ctx, "account_id = ?", accountID)
}

func (s *Store) AccountByCredentials(ctx context.Context, username, password string) (social.Account, error) {
	return s.firstAccount(ctx, "username = ? AND password = ?", username, password)
}

func (s *Store) AccountExists(ctx context.Context, accountID int64) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&accountRow{}).Where("account_id = ?", accountID).Count(&n).Error; err != nil {
		return false, errs.Storage(err)
	}
	return n > 0, nil
}

// ListAccounts returns all accounts ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]social.Account, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Order("account_id").Find(&rows).Error; err != nil {
		return nil, errs.Storage(err)
	}
	out := make([]social.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// --- Account writes ---

// CreateAccount inserts an account; the unique index on username yields errs.ErrConflict.
func (s *Store) CreateAccount(ctx context.Context, username, password string) (social.Account, error) {
	row := accountRow{Username: username, Password: password}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return social.Account{}, translate(err)
	}
	return row.toDomain(), nil
}

// UpdateAccount replaces username and password of an existing account.
func (s *Store) UpdateAccount(ctx context.Context, a social.Account) (social.Account, error) {
	res := s.db.WithContext(ctx).Model(&accountRow{}).
		Where("account_id = ?", a.AccountID).
		Updates(map[string]any{"username": a.Username, "password": a.Password})
	if res.Error != nil {
		return social.Account{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return social.Account{}, errs.ErrNotFound
	}
	return a, nil
}

// DeleteAccount removes an account. Its messages are kept.
func (s *Store) DeleteAccount(ctx context.Context, accountID int64) error {
	res := s.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&accountRow{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Message reads ---

func (s *Store) findMessages(ctx context.Context, query *gorm.DB) ([]social.Message, error) {
	var rows []messageRow
	if err := query.WithContext(ctx).Order("message_id").Find(&rows).Error; err != nil {
		return nil, errs.Storage(err)
	}
	out := make([]social.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) ListMessages(ctx context.Context) ([]social.Message, error) {
	return s.findMessages(ctx, s.db)
}

func (s *Store) MessagesByAccountID(ctx context.Context, accountID int64) ([]social.Message, error) {
	return s.findMessages(ctx, s.db.Where("posted_by = ?", accountID))
}

func (s *Store) MessageByID(ctx context.Context, messageID int64) (social.Message, error) {
	var row messageRow
	if err := s.db.WithContext(ctx).First(&row, "message_id = ?", messageID).Error; err != nil {
		return social.Message{}, translate(err)
	}
	return row.toDomain(), nil
}

// --- Message writes ---

func (s *Store) CreateMessage(ctx context.Context, m social.Message) (social.Message, error) {
	row := messageRow{PostedBy: m.PostedBy, MessageText: m.MessageText, TimePostedEpoch: m.TimePostedEpoch}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return social.Message{}, translate(err)
	}
	return row.toDomain(), nil
}

// UpdateMessageText replaces the text and re-reads the row in one transaction.
func (s *Store) UpdateMessageText(ctx context.Context, messageID int64, text string) (social.Message, error) {
	var row messageRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&messageRow{}).Where("message_id = ?", messageID).Update("message_text", text)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&row, "message_id = ?", messageID).Error
	})
	if err != nil {
		return social.Message{}, translate(err)
	}
	return row.toDomain(), nil
}

// DeleteMessage captures the row and deletes it in one transaction.
func (s *Store) DeleteMessage(ctx context.Context, messageID int64) (social.Message, error) {
	var row messageRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "message_id = ?", messageID).Error; err != nil {
			return err
		}
		return tx.Delete(&messageRow{}, "message_id = ?", messageID).Error
	})
	if err != nil {
		return social.Message{}, translate(err)
	}
	return row.toDomain(), nil
}
