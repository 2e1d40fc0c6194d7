package events

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие не найдено или скрыто от пользователя
	ErrEventNotFound = errors.New("events: event not found")

	// ErrCoachNotFound возвращается, когда у пользователя нет профиля тренера
	ErrCoachNotFound = errors.New("events: coach profile not found")

	// ErrAccessDenied возвращается при доступе к приватному событию без токена
	ErrAccessDenied = errors.New("events: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("events: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("events: internal error")
)
