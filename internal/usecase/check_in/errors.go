package check_in

import "errors"

var (
	// ErrParticipantNotFound возвращается, когда у пользователя нет профиля участника
	ErrParticipantNotFound = errors.New("check_in: participant profile not found")

	// ErrEventNotFound возвращается, когда событие не найдено
	ErrEventNotFound = errors.New("check_in: event not found")

	// ErrReservationNotFound возвращается, когда у участника нет бронирования на событие
	ErrReservationNotFound = errors.New("check_in: reservation not found")

	// ErrNotEligible возвращается, когда бронирование не оплачено, отменено или в листе ожидания
	ErrNotEligible = errors.New("check_in: reservation is not eligible for check-in")

	// ErrCapacityExceeded возвращается, когда все места уже заняты отметившимися участниками
	ErrCapacityExceeded = errors.New("check_in: event capacity exceeded")

	// ErrEventEnded возвращается при попытке отметиться после окончания события
	ErrEventEnded = errors.New("check_in: event already ended")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_in: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_in: internal error")
)
