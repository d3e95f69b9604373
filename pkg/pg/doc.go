// Package pg bootstraps PostgreSQL access on top of pgx/v5.
//
// Connect opens a pool with startup retries, Migrate applies goose migrations
// from an fs.FS (usually embedded), Healthcheck adapts a ping for readiness
// probes, and InTx runs a function in a transaction carried through the
// context so that stores called inside it join the same transaction:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//
// Error helpers such as IsNotFoundError and IsDuplicateKeyError classify
// pgx errors without leaking driver types into callers.
package pg
