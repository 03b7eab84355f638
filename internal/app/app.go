package app

import (
	"context"
	"errors"
	"fmt"

	"bookmart/internal/validator"
	"bookmart/pkg/auth"
	"bookmart/pkg/domain"
	"bookmart/pkg/store"
)

const (
	// Books older than this are rejected at creation time.
	minYear = 2020

	// Page count applied when the caller omits it.
	defaultPages = 150
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string
	Store       store.Store
}

// App is the core application service enforcing the catalog's business
// rules in front of the store.
type App struct {
	store store.Store
}

// New constructs the application with database-backed storage unless a
// store is injected (tests inject the in-memory one).
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	return &App{store: dataStore}, nil
}

// SellerInput carries the fields accepted at seller registration.
type SellerInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// SellerUpdateInput carries the mutable seller fields. Password and
// owned books are never updated through this path.
type SellerUpdateInput struct {
	FirstName string
	LastName  string
	Email     string
}

// BookInput carries the fields accepted at book creation. Pages is a
// pointer so an omitted page count can default rather than read as zero.
type BookInput struct {
	Title    string
	Author   string
	Year     int
	Pages    *int
	SellerID int64
}

// BookUpdateInput carries the mutable book fields. The owning seller is
// not among them.
type BookUpdateInput struct {
	Title  string
	Author string
	Year   int
	Pages  int
}

// RegisterSeller creates a seller. The email must not be registered yet
// and the password is stored as a bcrypt hash, never as plaintext.
func (a *App) RegisterSeller(ctx context.Context, in SellerInput) (domain.Seller, error) {
	v := validator.New()
	checkSellerFields(v, in.FirstName, in.LastName, in.Email)
	v.Check(in.Password != "", "password", "must be provided")
	if !v.Valid() {
		return domain.Seller{}, &ValidationError{Fields: v.Errors}
	}

	exists, err := a.store.HasSellerEmail(ctx, in.Email)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.Seller{}, ErrEmailExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("hash password: %w", err)
	}
	seller, err := a.store.CreateSeller(ctx, domain.Seller{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// The unique index backstops the pre-check under concurrent
		// registrations.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return domain.Seller{}, ErrEmailExists
		}
		return domain.Seller{}, fmt.Errorf("create seller: %w", err)
	}
	return seller, nil
}

// ListSellers returns every seller ordered by id.
func (a *App) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	return a.store.ListSellers(ctx)
}

// GetSellerDetail returns a seller with all owned books, loaded in one
// additional query rather than one per book.
func (a *App) GetSellerDetail(ctx context.Context, id int64) (domain.SellerDetail, error) {
	seller, ok, err := a.store.GetSeller(ctx, id)
	if err != nil {
		return domain.SellerDetail{}, fmt.Errorf("get seller: %w", err)
	}
	if !ok {
		return domain.SellerDetail{}, ErrSellerNotFound
	}
	books, err := a.store.ListBooksBySeller(ctx, id)
	if err != nil {
		return domain.SellerDetail{}, fmt.Errorf("list seller books: %w", err)
	}
	detail := domain.SellerDetail{Seller: seller, Books: make([]domain.BookSummary, 0, len(books))}
	for _, b := range books {
		detail.Books = append(detail.Books, b.Summary())
	}
	return detail, nil
}

// UpdateSeller mutates first name, last name and email. Moving the email
// onto an address another seller holds fails the uniqueness invariant.
func (a *App) UpdateSeller(ctx context.Context, id int64, in SellerUpdateInput) (domain.Seller, error) {
	v := validator.New()
	checkSellerFields(v, in.FirstName, in.LastName, in.Email)
	if !v.Valid() {
		return domain.Seller{}, &ValidationError{Fields: v.Errors}
	}

	seller, ok, err := a.store.GetSeller(ctx, id)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("get seller: %w", err)
	}
	if !ok {
		return domain.Seller{}, ErrSellerNotFound
	}

	seller.FirstName = in.FirstName
	seller.LastName = in.LastName
	seller.Email = in.Email
	found, err := a.store.UpdateSeller(ctx, seller)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return domain.Seller{}, ErrEmailExists
		}
		return domain.Seller{}, fmt.Errorf("update seller: %w", err)
	}
	if !found {
		return domain.Seller{}, ErrSellerNotFound
	}
	return seller, nil
}

// DeleteSeller removes the seller and cascades to every owned book.
func (a *App) DeleteSeller(ctx context.Context, id int64) error {
	found, err := a.store.DeleteSeller(ctx, id)
	if err != nil {
		return fmt.Errorf("delete seller: %w", err)
	}
	if !found {
		return ErrSellerNotFound
	}
	return nil
}

// CreateBook persists a book once the static rules pass and the owning
// seller exists. The year bound is checked before any store access.
func (a *App) CreateBook(ctx context.Context, in BookInput) (domain.Book, error) {
	v := validator.New()
	checkBookFields(v, in.Title, in.Author)
	v.Check(in.Year >= minYear, "year", "must be 2020 or later")
	v.Check(in.SellerID > 0, "seller_id", "must be provided")
	if in.Pages != nil {
		v.Check(*in.Pages > 0, "pages", "must be a positive integer")
	}
	if !v.Valid() {
		return domain.Book{}, &ValidationError{Fields: v.Errors}
	}

	_, ok, err := a.store.GetSeller(ctx, in.SellerID)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get seller: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrSellerNotFound
	}

	pages := defaultPages
	if in.Pages != nil {
		pages = *in.Pages
	}
	book, err := a.store.CreateBook(ctx, domain.Book{
		Title:    in.Title,
		Author:   in.Author,
		Year:     in.Year,
		Pages:    pages,
		SellerID: in.SellerID,
	})
	if err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// ListBooks returns every book ordered by id.
func (a *App) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return a.store.ListBooks(ctx)
}

// GetBook returns a book by id.
func (a *App) GetBook(ctx context.Context, id int64) (domain.Book, error) {
	book, ok, err := a.store.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

// UpdateBook sets title, author, year and pages unconditionally. Any
// seller_id in the request is ignored: ownership is fixed at creation.
func (a *App) UpdateBook(ctx context.Context, id int64, in BookUpdateInput) (domain.Book, error) {
	v := validator.New()
	checkBookFields(v, in.Title, in.Author)
	if !v.Valid() {
		return domain.Book{}, &ValidationError{Fields: v.Errors}
	}

	book, ok, err := a.store.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}

	book.Title = in.Title
	book.Author = in.Author
	book.Year = in.Year
	book.Pages = in.Pages
	found, err := a.store.UpdateBook(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	if !found {
		return domain.Book{}, ErrBookNotFound
	}
	return book, nil
}

// DeleteBook removes a book.
func (a *App) DeleteBook(ctx context.Context, id int64) error {
	found, err := a.store.DeleteBook(ctx, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if !found {
		return ErrBookNotFound
	}
	return nil
}

func checkSellerFields(v *validator.Validator, firstName, lastName, email string) {
	v.Check(firstName != "", "first_name", "must be provided")
	v.Check(len(firstName) <= 50, "first_name", "must not be more than 50 characters")
	v.Check(lastName != "", "last_name", "must be provided")
	v.Check(len(lastName) <= 50, "last_name", "must not be more than 50 characters")
	v.Check(email != "", "e_mail", "must be provided")
	v.Check(len(email) <= 100, "e_mail", "must not be more than 100 characters")
	if email != "" {
		v.Check(validator.Matches(email, validator.EmailRX), "e_mail", "must be a valid email address")
	}
}

func checkBookFields(v *validator.Validator, title, author string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(len(title) <= 50, "title", "must not be more than 50 characters")
	v.Check(author != "", "author", "must be provided")
	v.Check(len(author) <= 100, "author", "must not be more than 100 characters")
}
