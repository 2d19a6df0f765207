// Package pg provides the PostgreSQL persistence layer for the access
// engine, built on the pgx/v5 driver. It offers connection pooling with
// retry, embedded goose migrations, health checks, common error helpers,
// and the concrete stores behind the access and quota packages.
//
// # Architecture
//
// The bootstrap building blocks mirror each other:
//
//   - Config is a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls
//     connection pool limits, health-check cadence and retry behaviour.
//
//   - Connect opens a *pgxpool.Pool based on Config, retrying with a
//     linear back-off until the database becomes available.
//
//   - Migrate runs the embedded goose migrations against the same pool,
//     guaranteeing the schema is up-to-date before the service starts.
//
// On top of those, the package exposes the domain stores:
//
//   - SubscriptionStore and GrantStore implement the read and write
//     interfaces declared in the access package.
//
//   - UsageSource counts projects and non-owner org members for the
//     quota package.
//
//   - ProjectStore and MemberStore perform the quota-counted writes.
//     ProjectStore.Create inserts the project and its owner membership
//     in a single transaction, which is what makes it usable as the
//     atomic write step of the admission gate.
//
// # Usage
//
// Basic set-up using the default configuration:
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
//	subs := pg.NewSubscriptionStore(pool)
//	grants := pg.NewGrantStore(pool)
//	usage := pg.NewUsageSource(pool)
//
// # Error Handling
//
// Store methods translate driver errors into the sentinel errors of the
// packages they serve (for example a unique-index violation on the trial
// index becomes access.ErrTrialGrantExists). For everything else the
// helpers IsNotFoundError, IsDuplicateKeyError and
// IsForeignKeyViolationError classify the underlying pgx error without
// the caller importing pgconn directly.
package pg
