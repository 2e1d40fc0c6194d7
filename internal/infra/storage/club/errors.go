package club

import "errors"

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("club.repository: club not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("club.repository: group not found")

	// ErrInviteNotFound возвращается, когда приглашение не найдено
	ErrInviteNotFound = errors.New("club.repository: invite not found")

	// ErrJoinRequestNotFound возвращается, когда заявка на вступление не найдена
	ErrJoinRequestNotFound = errors.New("club.repository: join request not found")

	// ErrDuplicateInvite возвращается при повторном приглашении того же пользователя
	ErrDuplicateInvite = errors.New("club.repository: invite already exists")

	// ErrDuplicateJoinRequest возвращается при повторной заявке, пока предыдущая не рассмотрена
	ErrDuplicateJoinRequest = errors.New("club.repository: pending join request already exists")

	// ErrInvalidReference возвращается при ссылке на несуществующего пользователя или тренера
	ErrInvalidReference = errors.New("club.repository: invalid reference")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("club.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("club.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("club.repository: failed to scan row")
)
