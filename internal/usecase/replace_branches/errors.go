package replace_branches

import "errors"

var (
	// ErrCoachNotFound возвращается, когда у пользователя нет профиля тренера
	ErrCoachNotFound = errors.New("replace_branches: coach profile not found")

	// ErrValidation возвращается при некорректном наборе сертификатов
	// Текст ошибки содержит все найденные нарушения
	ErrValidation = errors.New("replace_branches: validation failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("replace_branches: internal error")
)
