package book

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID        int64     `json:"-" db:"id"`
	PublicID  uuid.UUID `json:"id" db:"public_id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type BookDTO struct {
	Title  string
	Author string
	Year   int
}
