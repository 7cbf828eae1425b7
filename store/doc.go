// Package store persists workflow results and their step ledgers in
// sqlite (pure-Go driver, no cgo).
//
// One workflow row plus its seven step rows are written in a single
// transaction, queryable by workflow id (GetResult) and by the owning
// repository id (ListByRepo). Store implements refit.ResultStore.
package store
