package make_reservation

import "errors"

var (
	// ErrParticipantNotFound возвращается, когда у пользователя нет профиля участника
	ErrParticipantNotFound = errors.New("make_reservation: participant profile not found")

	// ErrEventNotFound возвращается, когда событие не найдено
	ErrEventNotFound = errors.New("make_reservation: event not found")

	// ErrAlreadyReserved возвращается, когда у участника уже есть бронирование на событие
	ErrAlreadyReserved = errors.New("make_reservation: you have already made a reservation for this event")

	// ErrCapacityExceeded возвращается, когда в окне check-in все места уже заняты
	ErrCapacityExceeded = errors.New("make_reservation: event capacity exceeded")

	// ErrEventStarted возвращается при попытке забронировать уже начавшееся событие
	ErrEventStarted = errors.New("make_reservation: event already started")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("make_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("make_reservation: internal error")
)
