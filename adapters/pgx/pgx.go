package pgx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcwang/idgate/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.UserStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

const uniqueViolation = "23505"

// translateConstraint maps PostgreSQL unique-violation errors onto the core
// conflict kinds by constraint name. Two concurrent requests can both pass
// the engine's optimistic pre-check; this write-time translation is what
// makes the store the final arbiter.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return core.ErrEmailTaken
	case "users_phone_number_key":
		return core.ErrPhoneTaken
	case "users_google_id_key", "users_facebook_id_key", "users_line_id_key":
		return core.ErrProviderConflict
	default:
		return core.ErrFieldConflict
	}
}
