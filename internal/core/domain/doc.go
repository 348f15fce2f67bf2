// Package domain holds the item model and the value types that flow
// through a batch.
//
//   - Item and Collection: what is persisted
//   - ItemDraft and ItemPatch: unvalidated create input and partial updates
//   - BatchOperation: create, update, delete and search as a closed set
//   - OperationOutput, StepResult, BulkOperationResult: what a batch reports
//   - Settings: configuration with defaults
//
// Everything here is plain data plus small helpers. The package imports
// only the standard library, and every other package in the module may
// import it.
package domain
