// Package pgstore implements the engine's storage contracts on PostgreSQL:
// subscription.Store, access.MembershipResolver, quota.UsageSource, a
// row-locking quota.Admitter and an audit.Storage using COPY. Projects creates
// projects through the Admitter and backs the API's project creation route.
//
// The schema lives in Migrations and is applied with pg.Migrate. Every store
// reads its connection through pg.Conn, so calls made inside pg.InTx, such as
// the usage count of an admission, share the caller's transaction.
package pgstore
