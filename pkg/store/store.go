package store

import (
	"context"
	"errors"

	"bookmart/pkg/domain"
)

// ErrDuplicateEmail is returned by seller writes that would violate the
// unique email constraint.
var ErrDuplicateEmail = errors.New("duplicate seller email")

// Store defines persistence operations for sellers and books.
// Every mutation runs as a single transaction; a failed write leaves
// no partial state behind.
type Store interface {
	// sellers
	CreateSeller(ctx context.Context, s domain.Seller) (domain.Seller, error)
	HasSellerEmail(ctx context.Context, email string) (bool, error)
	GetSeller(ctx context.Context, id int64) (domain.Seller, bool, error)
	ListSellers(ctx context.Context) ([]domain.Seller, error)
	UpdateSeller(ctx context.Context, s domain.Seller) (bool, error)
	// DeleteSeller removes the seller and every book it owns in one
	// transaction. Returns false when the seller does not exist.
	DeleteSeller(ctx context.Context, id int64) (bool, error)

	// books
	CreateBook(ctx context.Context, b domain.Book) (domain.Book, error)
	GetBook(ctx context.Context, id int64) (domain.Book, bool, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ListBooksBySeller(ctx context.Context, sellerID int64) ([]domain.Book, error)
	UpdateBook(ctx context.Context, b domain.Book) (bool, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)
}
