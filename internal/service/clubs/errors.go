package clubs

import "errors"

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("clubs: club not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("clubs: group not found")

	// ErrJoinRequestNotFound возвращается, когда заявка не найдена
	ErrJoinRequestNotFound = errors.New("clubs: join request not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("clubs: access denied")

	// ErrAlreadyMember возвращается, когда пользователь уже состоит в клубе или группе
	ErrAlreadyMember = errors.New("clubs: user is already a member")

	// ErrAlreadyRequested возвращается при повторной заявке до её рассмотрения
	ErrAlreadyRequested = errors.New("clubs: join request is already pending")

	// ErrAlreadyInvited возвращается при повторном приглашении
	ErrAlreadyInvited = errors.New("clubs: user is already invited")

	// ErrAlreadyReviewed возвращается при попытке изменить принятое решение по заявке
	ErrAlreadyReviewed = errors.New("clubs: join request already reviewed with another decision")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("clubs: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("clubs: internal error")
)
