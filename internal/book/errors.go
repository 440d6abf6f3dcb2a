package book

import "errors"

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrDuplicateTitle = errors.New("book title already exists")
)
