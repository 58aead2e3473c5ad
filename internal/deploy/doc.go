// Package deploy runs the fixed four-step deployment sequence: source sync,
// dependency install, static-asset collection, schema migration. Each step is
// a synchronous subprocess; the sequence aborts on the first non-zero exit
// with no rollback and no retries.
package deploy
