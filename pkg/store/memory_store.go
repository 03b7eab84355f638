package store

import (
	"context"
	"sort"
	"sync"

	"bookmart/pkg/domain"
)

// MemoryStore keeps the catalog in-process. It backs the test suites
// and mirrors the GORM store's semantics, including the unique email
// constraint and the cascading seller delete.
type MemoryStore struct {
	mu           sync.RWMutex
	sellers      map[int64]domain.Seller
	books        map[int64]domain.Book
	nextSellerID int64
	nextBookID   int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sellers: make(map[int64]domain.Seller),
		books:   make(map[int64]domain.Book),
	}
}

// CreateSeller assigns the next id and stores the seller.
func (m *MemoryStore) CreateSeller(_ context.Context, s domain.Seller) (domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sellers {
		if existing.Email == s.Email {
			return domain.Seller{}, ErrDuplicateEmail
		}
	}
	m.nextSellerID++
	s.ID = m.nextSellerID
	m.sellers[s.ID] = s
	return s, nil
}

// HasSellerEmail checks if email exists.
func (m *MemoryStore) HasSellerEmail(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sellers {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// GetSeller returns a seller by id.
func (m *MemoryStore) GetSeller(_ context.Context, id int64) (domain.Seller, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sellers[id]
	return s, ok, nil
}

// ListSellers returns all sellers ordered by id.
func (m *MemoryStore) ListSellers(_ context.Context) ([]domain.Seller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Seller, 0, len(m.sellers))
	for _, s := range m.sellers {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// UpdateSeller mutates name and email fields only.
func (m *MemoryStore) UpdateSeller(_ context.Context, s domain.Seller) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sellers[s.ID]
	if !ok {
		return false, nil
	}
	for id, existing := range m.sellers {
		if id != s.ID && existing.Email == s.Email {
			return false, ErrDuplicateEmail
		}
	}
	current.FirstName = s.FirstName
	current.LastName = s.LastName
	current.Email = s.Email
	m.sellers[s.ID] = current
	return true, nil
}

// DeleteSeller removes the seller and every book it owns.
func (m *MemoryStore) DeleteSeller(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sellers[id]; !ok {
		return false, nil
	}
	delete(m.sellers, id)
	for bookID, b := range m.books {
		if b.SellerID == id {
			delete(m.books, bookID)
		}
	}
	return true, nil
}

// CreateBook assigns the next id and stores the book.
func (m *MemoryStore) CreateBook(_ context.Context, b domain.Book) (domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	b.ID = m.nextBookID
	m.books[b.ID] = b
	return b, nil
}

// GetBook retrieves a book by id.
func (m *MemoryStore) GetBook(_ context.Context, id int64) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// ListBooks returns all books ordered by id.
func (m *MemoryStore) ListBooks(_ context.Context) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectBooks(func(domain.Book) bool { return true }), nil
}

// ListBooksBySeller returns books owned by one seller.
func (m *MemoryStore) ListBooksBySeller(_ context.Context, sellerID int64) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectBooks(func(b domain.Book) bool { return b.SellerID == sellerID }), nil
}

func (m *MemoryStore) collectBooks(keep func(domain.Book) bool) []domain.Book {
	res := make([]domain.Book, 0, len(m.books))
	for _, b := range m.books {
		if keep(b) {
			res = append(res, b)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// UpdateBook mutates title, author, year and pages. The owning seller
// is never changed.
func (m *MemoryStore) UpdateBook(_ context.Context, b domain.Book) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.books[b.ID]
	if !ok {
		return false, nil
	}
	current.Title = b.Title
	current.Author = b.Author
	current.Year = b.Year
	current.Pages = b.Pages
	m.books[b.ID] = current
	return true, nil
}

// DeleteBook removes a book.
func (m *MemoryStore) DeleteBook(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	delete(m.books, id)
	return true, nil
}
