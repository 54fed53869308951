package core

import (
	"time"

	"go.uber.org/zap"
)

// Config wires the gateway. The store handle and oracle are constructed by
// the process bootstrap and injected here; the library holds no global state.
type Config struct {
	Secret string

	Database UserStorage
	Oracle   IdentityOracle

	HTTP HTTPAdapter

	// Optional config
	Logger         *zap.Logger
	PasswordHasher PasswordHandler
	TokenTTL       time.Duration
	BasePath       string
}
