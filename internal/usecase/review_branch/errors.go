package review_branch

import "errors"

var (
	// ErrBranchNotFound возвращается, когда сертификат не найден
	ErrBranchNotFound = errors.New("review_branch: branch not found")

	// ErrAccessDenied возвращается, когда пользователь не администратор и не владелец сертификата
	ErrAccessDenied = errors.New("review_branch: access denied")

	// ErrAlreadyReviewed возвращается при попытке изменить уже принятое решение
	ErrAlreadyReviewed = errors.New("review_branch: branch already reviewed with another decision")

	// ErrInvalidDecision возвращается при недопустимом решении
	ErrInvalidDecision = errors.New("review_branch: decision must be approved or rejected")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("review_branch: internal error")
)
