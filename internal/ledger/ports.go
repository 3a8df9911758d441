// Package ledger declares the ports every storage backend implements.
package ledger

import (
	"context"
	"errors"

	"tally/internal/core"
)

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

type Order string

// ListOptions narrows and orders an owner's transaction listing.
// DatePrefix is an exact string prefix on the ISO date (e.g. "2024-03");
// a malformed prefix simply matches nothing. Ties on equal dates keep
// store-native (id) order in both directions, so re-fetches are stable.
type ListOptions struct {
	DatePrefix string
	Order      Order
}

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrNoSuchUser    = errors.New("no such user")
)

// User is an account able to own transactions. Every store query is
// scoped by the owning user's id; cross-user visibility is forbidden.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

type (
	TransactionStore interface {
		// ListByOwner returns the owner's transactions, optionally
		// filtered by date prefix, sorted by date in the requested
		// direction (ascending when unspecified).
		ListByOwner(ctx context.Context, ownerID int64, opts ListOptions) ([]core.Transaction, error)

		// Create validates and stores a transaction for the owner,
		// returning the record with its assigned id.
		Create(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error)

		// DeleteByID removes the owner's transaction with the given id.
		// It reports false, without error, when the id does not exist or
		// belongs to another user.
		DeleteByID(ctx context.Context, ownerID, id int64) (bool, error)
	}

	UserStore interface {
		// CreateUser stores a new account, failing with ErrUsernameTaken
		// on duplicate usernames.
		CreateUser(ctx context.Context, username, passwordHash string) (User, error)

		// UserByUsername fails with ErrNoSuchUser when absent.
		UserByUsername(ctx context.Context, username string) (User, error)
	}
)
