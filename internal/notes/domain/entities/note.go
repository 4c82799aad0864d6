package entities

import "errors"

// ErrEmptyNoteText возвращается при попытке создать заметку без текста.
var ErrEmptyNoteText = errors.New("note text cannot be empty")

// Note представляет собой заметку пользователя. Идентификатор
// уникален в пределах владельца, не глобально.
type Note struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}
