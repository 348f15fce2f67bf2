// Package services implements the driving port interfaces.
//
// The batch engine lives here: an Engine hands out Transactions that load
// one snapshot of the item collection, apply validated operations to a
// working copy and persist it only when the commit policy accepts the
// outcome. ItemService, BulkService, ProgramService, RoutineService and
// SyncService all build their mutations as transactions.
package services
