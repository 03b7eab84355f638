package domain

// Seller is a book vendor. The password hash never leaves the process;
// the external field name e_mail matches the published API contract.
type Seller struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"e_mail"`
	PasswordHash string `json:"-"`
}

// Book is a catalog item owned by exactly one seller for its entire
// lifetime. SellerID never changes after creation.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	Pages    int    `json:"pages"`
	SellerID int64  `json:"seller_id"`
}

// BookSummary is the per-book projection embedded in a seller detail,
// where seller_id would be redundant.
type BookSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Pages  int    `json:"pages"`
}

// SellerDetail is a seller together with every book it owns.
type SellerDetail struct {
	Seller
	Books []BookSummary `json:"books"`
}

// Summary strips the owning seller from a book.
func (b Book) Summary() BookSummary {
	return BookSummary{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
		Pages:  b.Pages,
	}
}
