package pgx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lcwang/idgate/core"
)

// Requirement: unique-violation errors translate by constraint name;
// everything else passes through unchanged
func TestTranslateConstraint(t *testing.T) {
	uniqueErr := func(constraint string) error {
		return &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraint}
	}

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "email constraint",
			err:     uniqueErr("users_email_key"),
			wantErr: core.ErrEmailTaken,
		},
		{
			name:    "phone constraint",
			err:     uniqueErr("users_phone_number_key"),
			wantErr: core.ErrPhoneTaken,
		},
		{
			name:    "google constraint",
			err:     uniqueErr("users_google_id_key"),
			wantErr: core.ErrProviderConflict,
		},
		{
			name:    "facebook constraint",
			err:     uniqueErr("users_facebook_id_key"),
			wantErr: core.ErrProviderConflict,
		},
		{
			name:    "line constraint",
			err:     uniqueErr("users_line_id_key"),
			wantErr: core.ErrProviderConflict,
		},
		{
			name:    "subject constraint falls back to field conflict",
			err:     uniqueErr("users_subject_id_key"),
			wantErr: core.ErrFieldConflict,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := translateConstraint(test.err); !errors.Is(got, test.wantErr) {
				t.Errorf("should translate to %v; got %v", test.wantErr, got)
			}
		})
	}
}

// Requirement: non-unique-violation errors are not rewritten
func TestTranslateConstraint_Passthrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "plain error", err: errors.New("connection refused")},
		{name: "wrapped error", err: fmt.Errorf("query failed: %w", errors.New("timeout"))},
		{name: "other pg error code", err: &pgconn.PgError{Code: "42P01"}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := translateConstraint(test.err); !errors.Is(got, test.err) && got.Error() != test.err.Error() {
				t.Errorf("non-unique errors should pass through; got %v", got)
			}
		})
	}
}
