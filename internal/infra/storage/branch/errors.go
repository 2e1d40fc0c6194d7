package branch

import "errors"

var (
	// ErrBranchNotFound возвращается, когда сертификат тренера не найден
	ErrBranchNotFound = errors.New("branch.repository: branch not found")

	// ErrDuplicateBranch возвращается при нарушении уникальности вида спорта или порядка у тренера
	ErrDuplicateBranch = errors.New("branch.repository: duplicate sport or branch order")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("branch.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("branch.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("branch.repository: failed to scan row")
)
