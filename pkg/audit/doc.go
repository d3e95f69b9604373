// Package audit records access decisions and entitlement changes.
//
// A Recorder stamps each Event with an ID and time and passes it to a Storage.
// LogStorage writes events as slog records, MemoryStorage keeps them for tests,
// and AsyncStorage batches writes to a slower backend such as Postgres:
//
//	async := audit.NewAsyncStorage(pgstore.NewAuditStore(pool), audit.AsyncOptions{})
//	defer async.Close(ctx)
//	rec := audit.NewRecorder(async)
//	_ = rec.Record(ctx, audit.Event{Action: audit.ActionAuthorize, Allowed: true})
package audit
