package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookmart/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&SellerModel{}, &BookModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateSeller inserts a seller and returns it with the assigned id.
func (s *GormStore) CreateSeller(ctx context.Context, seller domain.Seller) (domain.Seller, error) {
	model := sellerToModel(seller)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Seller{}, ErrDuplicateEmail
		}
		return domain.Seller{}, err
	}
	return sellerFromModel(model), nil
}

// HasSellerEmail checks if email exists (case-sensitive exact match).
func (s *GormStore) HasSellerEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&SellerModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSeller returns a seller by id.
func (s *GormStore) GetSeller(ctx context.Context, id int64) (domain.Seller, bool, error) {
	var model SellerModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Seller{}, false, nil
		}
		return domain.Seller{}, false, err
	}
	return sellerFromModel(model), true, nil
}

// ListSellers returns all sellers ordered by id.
func (s *GormStore) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	var models []SellerModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Seller, 0, len(models))
	for _, m := range models {
		res = append(res, sellerFromModel(m))
	}
	return res, nil
}

// UpdateSeller mutates name and email fields only. The password hash
// and owned books are never touched here.
func (s *GormStore) UpdateSeller(ctx context.Context, seller domain.Seller) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&SellerModel{}).
		Where("id = ?", seller.ID).
		Updates(map[string]any{
			"first_name": seller.FirstName,
			"last_name":  seller.LastName,
			"email":      seller.Email,
		})
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return false, ErrDuplicateEmail
		}
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteSeller removes the seller and cascades to its books in one
// transaction, so no orphaned book is ever visible.
func (s *GormStore) DeleteSeller(ctx context.Context, id int64) (bool, error) {
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&BookModel{}, "seller_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&SellerModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}

// CreateBook inserts a book and returns it with the assigned id.
func (s *GormStore) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	model := bookToModel(book)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Book{}, err
	}
	return bookFromModel(model), nil
}

// GetBook retrieves a book by id.
func (s *GormStore) GetBook(ctx context.Context, id int64) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// ListBooks returns all books ordered by id.
func (s *GormStore) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.listBooks(ctx)
}

// ListBooksBySeller returns the books owned by one seller in a single
// query, so a seller detail costs exactly two round trips.
func (s *GormStore) ListBooksBySeller(ctx context.Context, sellerID int64) ([]domain.Book, error) {
	return s.listBooks(ctx, "seller_id = ?", sellerID)
}

func (s *GormStore) listBooks(ctx context.Context, conds ...any) ([]domain.Book, error) {
	var models []BookModel
	tx := s.db.WithContext(ctx).Order("id ASC")
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// UpdateBook mutates title, author, year and pages. seller_id is
// deliberately left out: ownership is fixed at creation.
func (s *GormStore) UpdateBook(ctx context.Context, book domain.Book) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"title":  book.Title,
			"author": book.Author,
			"year":   book.Year,
			"pages":  book.Pages,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteBook removes a book. Returns false when it does not exist.
func (s *GormStore) DeleteBook(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&BookModel{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func sellerToModel(s domain.Seller) SellerModel {
	return SellerModel{
		ID:           s.ID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
	}
}

func sellerFromModel(m SellerModel) domain.Seller {
	return domain.Seller{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Year:     b.Year,
		Pages:    b.Pages,
		SellerID: b.SellerID,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:       m.ID,
		Title:    m.Title,
		Author:   m.Author,
		Year:     m.Year,
		Pages:    m.Pages,
		SellerID: m.SellerID,
	}
}
