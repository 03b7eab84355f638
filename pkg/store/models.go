package store

// GORM models used for persistence. Column bounds mirror the validator
// rules so the database rejects what the service layer rejects.
type SellerModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FirstName    string `gorm:"type:varchar(50);not null"`
	LastName     string `gorm:"type:varchar(50);not null"`
	Email        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(128);not null"`
}

func (SellerModel) TableName() string { return "sellers" }

type BookModel struct {
	ID       int64       `gorm:"primaryKey;autoIncrement"`
	Title    string      `gorm:"type:varchar(50);not null"`
	Author   string      `gorm:"type:varchar(100);not null"`
	Year     int         `gorm:"not null"`
	Pages    int         `gorm:"not null"`
	SellerID int64       `gorm:"not null;index"`
	Seller   SellerModel `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

func (BookModel) TableName() string { return "books" }
