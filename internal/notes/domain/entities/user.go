// Package entities определяет доменные сущности сервиса заметок.
package entities

import (
	"errors"
)

// Определяем ошибки домена пользователя как константы.
var (
	ErrInvalidEmail   = errors.New("invalid email format")
	ErrEmptyUsername  = errors.New("username cannot be empty")
	ErrEmptyPassword  = errors.New("password cannot be empty")
	ErrUserNotFound   = errors.New("user not found")
	ErrStoreCorrupted = errors.New("user store file is corrupted")
)

// User представляет основную сущность домена пользователя.
// Заметки упорядочены по возрастанию идентификаторов и принадлежат
// ровно одному пользователю.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Notes        []Note `json:"notes"`
}

// Clone возвращает глубокую копию пользователя.
func (u *User) Clone() *User {
	clone := *u
	if u.Notes != nil {
		clone.Notes = make([]Note, len(u.Notes))
		copy(clone.Notes, u.Notes)
	}
	return &clone
}

// NextNoteID возвращает идентификатор следующей заметки пользователя.
// Заметки не удаляются, поэтому идентификаторы строго возрастают от 1.
func (u *User) NextNoteID() int {
	return len(u.Notes) + 1
}
