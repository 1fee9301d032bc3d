package adapters

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"skateswap/internal/feature/auth/usecase"
)

func TestTranslateDuplicate(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"unrelated", plain, plain},
		{
			name: "mysql username",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann' for key 'users.idx_users_username'"},
			want: usecase.ErrUsernameTaken,
		},
		{
			name: "mysql email",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann@x.com' for key 'users.idx_users_email'"},
			want: usecase.ErrEmailTaken,
		},
		{
			name: "mysql email containing the word username",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'username@x.com' for key 'users.idx_users_email'"},
			want: usecase.ErrEmailTaken,
		},
		{
			name: "mysql email key without table prefix",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'username@x.com' for key 'idx_users_email'"},
			want: usecase.ErrEmailTaken,
		},
		{
			name: "mysql other error",
			err:  &mysql.MySQLError{Number: 1045, Message: "Access denied"},
			want: nil,
		},
		{
			name: "postgres username wrapped",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}),
			want: usecase.ErrUsernameTaken,
		},
		{
			name: "postgres email",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			want: usecase.ErrEmailTaken,
		},
		{
			name: "sqlite username",
			err:  errors.New("UNIQUE constraint failed: users.username"),
			want: usecase.ErrUsernameTaken,
		},
		{
			name: "sqlite email",
			err:  errors.New("UNIQUE constraint failed: users.email"),
			want: usecase.ErrEmailTaken,
		},
		{
			name: "duplicate token is not a user conflict",
			err:  fmt.Errorf("failed to save email_verification token: %w", errors.New("UNIQUE constraint failed: verification_tokens.token")),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := translateDuplicate(tt.err)
			switch {
			case tt.want == nil && tt.err != nil:
				assert.Equal(t, tt.err, got)
			case tt.want == nil:
				assert.NoError(t, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
