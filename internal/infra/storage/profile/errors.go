package profile

import "errors"

var (
	// ErrParticipantNotFound возвращается, когда профиль участника не найден
	ErrParticipantNotFound = errors.New("profile.repository: participant not found")

	// ErrCoachNotFound возвращается, когда профиль тренера не найден
	ErrCoachNotFound = errors.New("profile.repository: coach not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("profile.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("profile.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("profile.repository: failed to scan row")
)
