// Package store defines the persistence interfaces for accounts and pending
// email changes, the errors implementations must return, and the transaction
// helpers services use to group writes.
package store
