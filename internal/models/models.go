package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Name         string `gorm:"not null"                 json:"name"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Product struct {
	ID    uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name  string          `gorm:"not null"                    json:"name"`
	Type  string          `gorm:"not null"                    json:"type"`
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image string          `gorm:"not null"                    json:"image"`
}

type BlogPost struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID uint   `gorm:"index;not null"           json:"author_id"`
	Title    string `gorm:"unique;not null"          json:"title"`
	Date     string `gorm:"not null"                 json:"date"`
	Body     string `gorm:"type:text;not null"       json:"body"`
	Image    string `gorm:"not null"                 json:"image"`
}

type Comment struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID uint   `gorm:"index;not null"           json:"author_id"`
	PostID   uint   `gorm:"index;not null"           json:"post_id"`
	Text     string `gorm:"type:text;not null"       json:"text"`
}

type Order struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint   `gorm:"index;not null"           json:"user_id"`
	Date    string `gorm:"not null"                 json:"date"`
	Details string `gorm:"type:text;not null"       json:"details"`
}

// Session is one browsing session. Cart and Flashes are JSON blobs, so the
// whole session state lives in a single row looked up by the cookie token.
// UserID is zero while the session is anonymous.
type Session struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint           `gorm:"index"              json:"user_id"`
	Cart      datatypes.JSON `json:"cart"`
	Flashes   datatypes.JSON `json:"flashes"`
	CreatedAt int64          `gorm:"not null"           json:"created_at"`
	UpdatedAt int64          `gorm:"not null"           json:"updated_at"`
}
