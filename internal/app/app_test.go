package app

import (
	"context"
	"errors"
	"testing"

	"bookmart/pkg/auth"
	"bookmart/pkg/domain"
	"bookmart/pkg/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{Store: store.NewMemoryStore()})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func registerSeller(t *testing.T, a *App, email string) domain.Seller {
	t.Helper()
	seller, err := a.RegisterSeller(context.Background(), SellerInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("register seller: %v", err)
	}
	return seller
}

func TestRegisterSellerAssignsIDAndHashesPassword(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")
	if seller.ID == 0 {
		t.Fatalf("expected assigned seller id")
	}
	if seller.PasswordHash == "secret" {
		t.Fatalf("password stored as plaintext")
	}
	if !auth.CheckPassword("secret", seller.PasswordHash) {
		t.Fatalf("stored hash does not match the password")
	}
}

func TestRegisterSellerDuplicateEmailLeavesFirstUntouched(t *testing.T) {
	a := newTestApp(t)
	first := registerSeller(t, a, "dup@example.com")

	_, err := a.RegisterSeller(context.Background(), SellerInput{
		FirstName: "Jane",
		LastName:  "Roe",
		Email:     "dup@example.com",
		Password:  "other",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	detail, err := a.GetSellerDetail(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get first seller: %v", err)
	}
	if detail.FirstName != "John" || detail.Email != "dup@example.com" {
		t.Fatalf("first seller mutated: %+v", detail.Seller)
	}
	sellers, err := a.ListSellers(context.Background())
	if err != nil {
		t.Fatalf("list sellers: %v", err)
	}
	if len(sellers) != 1 {
		t.Fatalf("expected 1 seller, got %d", len(sellers))
	}
}

func TestRegisterSellerValidation(t *testing.T) {
	a := newTestApp(t)
	_, err := a.RegisterSeller(context.Background(), SellerInput{
		FirstName: "",
		LastName:  "Doe",
		Email:     "not-an-email",
		Password:  "",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"first_name", "e_mail", "password"} {
		if _, ok := vErr.Fields[field]; !ok {
			t.Fatalf("expected error for field %q, got %v", field, vErr.Fields)
		}
	}
}

func TestCreateBookRoundTrip(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")

	pages := 300
	book, err := a.CreateBook(context.Background(), BookInput{
		Title:    "Clean Architecture",
		Author:   "Robert Martin",
		Year:     2025,
		Pages:    &pages,
		SellerID: seller.ID,
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	if book.ID == 0 {
		t.Fatalf("expected assigned book id")
	}

	got, err := a.GetBook(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	want := domain.Book{ID: book.ID, Title: "Clean Architecture", Author: "Robert Martin", Year: 2025, Pages: 300, SellerID: seller.ID}
	if got != want {
		t.Fatalf("book mismatch: got %+v want %+v", got, want)
	}
}

func TestCreateBookDefaultsPages(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")

	book, err := a.CreateBook(context.Background(), BookInput{
		Title:    "Go in Practice",
		Author:   "Matt Butcher",
		Year:     2024,
		SellerID: seller.ID,
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	if book.Pages != 150 {
		t.Fatalf("pages = %d, want default 150", book.Pages)
	}
}

func TestCreateBookYearBoundary(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")

	_, err := a.CreateBook(context.Background(), BookInput{
		Title:    "Old Book",
		Author:   "Anyone",
		Year:     2019,
		SellerID: seller.ID,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for year 2019, got %v", err)
	}
	if _, ok := vErr.Fields["year"]; !ok {
		t.Fatalf("expected year field error, got %v", vErr.Fields)
	}

	if _, err := a.CreateBook(context.Background(), BookInput{
		Title:    "New Book",
		Author:   "Anyone",
		Year:     2020,
		SellerID: seller.ID,
	}); err != nil {
		t.Fatalf("year 2020 should pass, got %v", err)
	}
}

func TestCreateBookUnknownSellerCreatesNothing(t *testing.T) {
	a := newTestApp(t)

	_, err := a.CreateBook(context.Background(), BookInput{
		Title:    "Orphan",
		Author:   "Nobody",
		Year:     2024,
		SellerID: 42,
	})
	if !errors.Is(err, ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}

	books, err := a.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("expected no books, got %d", len(books))
	}
}

func TestUpdateBookKeepsOwner(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")

	book, err := a.CreateBook(context.Background(), BookInput{
		Title:    "First Edition",
		Author:   "Robert Martin",
		Year:     2024,
		SellerID: seller.ID,
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}

	updated, err := a.UpdateBook(context.Background(), book.ID, BookUpdateInput{
		Title:  "Second Edition",
		Author: "Robert C. Martin",
		Year:   2025,
		Pages:  320,
	})
	if err != nil {
		t.Fatalf("update book: %v", err)
	}
	if updated.SellerID != seller.ID {
		t.Fatalf("seller_id changed on update: got %d want %d", updated.SellerID, seller.ID)
	}
	if updated.Title != "Second Edition" || updated.Year != 2025 || updated.Pages != 320 {
		t.Fatalf("fields not updated: %+v", updated)
	}
}

func TestDeleteSellerCascadesToBooks(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")
	other := registerSeller(t, a, "jane.roe@example.com")

	var ownedIDs []int64
	for i := 0; i < 3; i++ {
		book, err := a.CreateBook(context.Background(), BookInput{
			Title:    "Owned",
			Author:   "Robert Martin",
			Year:     2024,
			SellerID: seller.ID,
		})
		if err != nil {
			t.Fatalf("create book: %v", err)
		}
		ownedIDs = append(ownedIDs, book.ID)
	}
	kept, err := a.CreateBook(context.Background(), BookInput{
		Title:    "Kept",
		Author:   "Jane Roe",
		Year:     2024,
		SellerID: other.ID,
	})
	if err != nil {
		t.Fatalf("create kept book: %v", err)
	}

	if err := a.DeleteSeller(context.Background(), seller.ID); err != nil {
		t.Fatalf("delete seller: %v", err)
	}

	for _, id := range ownedIDs {
		if _, err := a.GetBook(context.Background(), id); !errors.Is(err, ErrBookNotFound) {
			t.Fatalf("book %d survived cascade: %v", id, err)
		}
	}
	if _, err := a.GetBook(context.Background(), kept.ID); err != nil {
		t.Fatalf("unrelated book deleted by cascade: %v", err)
	}
}

func TestUpdateSellerDoesNotTouchPasswordOrBooks(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")
	if _, err := a.CreateBook(context.Background(), BookInput{
		Title:    "Owned",
		Author:   "Robert Martin",
		Year:     2024,
		SellerID: seller.ID,
	}); err != nil {
		t.Fatalf("create book: %v", err)
	}

	updated, err := a.UpdateSeller(context.Background(), seller.ID, SellerUpdateInput{
		FirstName: "Johnny",
		LastName:  "Doe",
		Email:     "johnny.doe@example.com",
	})
	if err != nil {
		t.Fatalf("update seller: %v", err)
	}
	if updated.FirstName != "Johnny" || updated.Email != "johnny.doe@example.com" {
		t.Fatalf("fields not updated: %+v", updated)
	}

	detail, err := a.GetSellerDetail(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if !auth.CheckPassword("secret", detail.PasswordHash) {
		t.Fatalf("password changed by update")
	}
	if len(detail.Books) != 1 {
		t.Fatalf("books changed by update: %d", len(detail.Books))
	}
}

func TestUpdateSellerRejectsTakenEmail(t *testing.T) {
	a := newTestApp(t)
	registerSeller(t, a, "john.doe@example.com")
	second := registerSeller(t, a, "jane.roe@example.com")

	_, err := a.UpdateSeller(context.Background(), second.ID, SellerUpdateInput{
		FirstName: "Jane",
		LastName:  "Roe",
		Email:     "john.doe@example.com",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestOperationsOnMissingIDs(t *testing.T) {
	a := newTestApp(t)

	if _, err := a.GetBook(context.Background(), 7); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("get book: expected ErrBookNotFound, got %v", err)
	}
	if _, err := a.UpdateBook(context.Background(), 7, BookUpdateInput{Title: "T", Author: "A", Year: 2024, Pages: 1}); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("update book: expected ErrBookNotFound, got %v", err)
	}
	if err := a.DeleteBook(context.Background(), 7); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("delete book: expected ErrBookNotFound, got %v", err)
	}
	if _, err := a.GetSellerDetail(context.Background(), 7); !errors.Is(err, ErrSellerNotFound) {
		t.Fatalf("get seller: expected ErrSellerNotFound, got %v", err)
	}
	if _, err := a.UpdateSeller(context.Background(), 7, SellerUpdateInput{FirstName: "J", LastName: "D", Email: "j@example.com"}); !errors.Is(err, ErrSellerNotFound) {
		t.Fatalf("update seller: expected ErrSellerNotFound, got %v", err)
	}
	if err := a.DeleteSeller(context.Background(), 7); !errors.Is(err, ErrSellerNotFound) {
		t.Fatalf("delete seller: expected ErrSellerNotFound, got %v", err)
	}
}

func TestGetSellerDetailEmptyBooks(t *testing.T) {
	a := newTestApp(t)
	seller := registerSeller(t, a, "john.doe@example.com")

	detail, err := a.GetSellerDetail(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Books == nil || len(detail.Books) != 0 {
		t.Fatalf("expected empty non-nil books, got %#v", detail.Books)
	}
}
