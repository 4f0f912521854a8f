// Package storage описывает key-value хранилище, в которое пишет ядро геймификации.
package storage

import (
	"context"
	"errors"
)

// Фиксированные ключи хранилища.
const (
	KeyUserProfile = "userProfile"
	KeyHabits      = "habits"
	KeyGoals       = "goals"

	completionsPrefix = "habitCompletions_"
)

// ErrClosed возвращается при обращении к хранилищу после Close.
var ErrClosed = errors.New("storage: store closed")

// Store сопоставляет строковым ключам JSON-документы. Отсутствующий ключ
// возвращается как ok == false, а не ошибка.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// CompletionsKey ключ журнала выполнений привычки.
func CompletionsKey(habitID string) string {
	return completionsPrefix + habitID
}
