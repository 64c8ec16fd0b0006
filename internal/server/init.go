package server

import (
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(
	NewTelemetry,
	NewHTTPServer,
	wire.Bind(new(ReadinessChecker), new(*pgxpool.Pool)),
)
