package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a library member. The password hash is never serialized.
type User struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:256" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash  string    `gorm:"size:128" json:"-"`
	Phone         string    `gorm:"size:32" json:"phone,omitempty"`
	Address       string    `gorm:"size:512" json:"address,omitempty"`
	FavoriteBooks []Book    `gorm:"many2many:user_favorite_books;" json:"favorite_books,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsActive      bool      `json:"is_active"`
}

type Category struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Books       []Book    `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsActive    bool      `json:"is_active"`
}

// Book tracks both the total owned copies and the copies currently
// loanable. AvailableQuantity is mutated only by the loans repository,
// except for the compensating shift applied when Quantity changes.
type Book struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string    `gorm:"index;size:512" json:"title"`
	Author            string    `gorm:"index;size:256" json:"author"`
	ISBN              string    `gorm:"uniqueIndex;size:20" json:"isbn"`
	Description       string    `gorm:"type:text" json:"description"`
	ImageURL          string    `gorm:"size:2048" json:"image_url,omitempty"`
	Quantity          int       `json:"quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	CategoryID        string    `gorm:"type:uuid;index" json:"category_id"`
	Category          Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Reviews           []Review  `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
	Loans             []Loan    `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	IsActive          bool      `json:"is_active"`
}

// Loan records one copy lent to one user. It is mutated exactly once,
// at return time, and is immutable afterwards.
type Loan struct {
	ID                 string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string     `gorm:"type:uuid;index" json:"user_id"`
	User               User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BookID             string     `gorm:"type:uuid;index" json:"book_id"`
	Book               Book       `gorm:"foreignKey:BookID" json:"book,omitempty"`
	LoanDate           time.Time  `json:"loan_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	IsReturned         bool       `gorm:"default:false" json:"is_returned"`
	IsOverdue          bool       `gorm:"default:false" json:"is_overdue"`
	ReminderSent       bool       `gorm:"default:false" json:"reminder_sent"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	IsActive           bool       `json:"is_active"`
}

type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BookID    string    `gorm:"type:uuid;index" json:"book_id"`
	Book      Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Content   string    `gorm:"type:text" json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (l *Loan) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

func (Category) TableName() string {
	return "categories"
}

func (Book) TableName() string {
	return "books"
}

func (Loan) TableName() string {
	return "loans"
}

func (Review) TableName() string {
	return "reviews"
}
