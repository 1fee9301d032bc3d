package adapters

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"skateswap/internal/feature/auth/usecase"
)

const (
	// mysqlDuplicateEntry is MySQL error 1062: duplicate entry for a unique key.
	mysqlDuplicateEntry = 1062
	// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
	pgUniqueViolation = "23505"
	// sqliteUniqueFailed prefixes sqlite3 messages such as "UNIQUE constraint failed: users.email".
	sqliteUniqueFailed = "UNIQUE constraint failed: "
)

// isDuplicateKey reports whether err is a unique constraint violation on any supported dialect.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), sqliteUniqueFailed)
}

// duplicateKey extracts the violated index or column from a uniqueness error.
// MySQL messages also quote the duplicate value, so only the part after
// "for key" is used.
func duplicateKey(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if i := strings.LastIndex(mysqlErr.Message, "for key "); i >= 0 {
			return mysqlErr.Message[i+len("for key "):]
		}
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, sqliteUniqueFailed); i >= 0 {
		return msg[i+len(sqliteUniqueFailed):]
	}
	return ""
}

// translateDuplicate maps a uniqueness violation on users to the matching
// usecase error. Violations on other tables are returned unchanged.
func translateDuplicate(err error) error {
	if err == nil || !isDuplicateKey(err) {
		return err
	}
	key := strings.Trim(strings.ToLower(duplicateKey(err)), "'\" ")
	switch {
	case strings.HasSuffix(key, "idx_users_username"), strings.HasSuffix(key, "users.username"):
		return usecase.ErrUsernameTaken
	case strings.HasSuffix(key, "idx_users_email"), strings.HasSuffix(key, "users.email"):
		return usecase.ErrEmailTaken
	}
	return err
}
