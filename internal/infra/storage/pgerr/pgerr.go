package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsUniqueViolation сообщает о нарушении уникальности
// Если переданы имена ограничений, проверяется и имя
func IsUniqueViolation(err error, constraints ...string) bool {
	return is(err, codeUniqueViolation, constraints)
}

// IsForeignKeyViolation сообщает о нарушении внешнего ключа
func IsForeignKeyViolation(err error, constraints ...string) bool {
	return is(err, codeForeignKeyViolation, constraints)
}

// IsCheckViolation сообщает о нарушении CHECK ограничения
func IsCheckViolation(err error, constraints ...string) bool {
	return is(err, codeCheckViolation, constraints)
}

func is(err error, code string, constraints []string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if pqErr.Constraint == c {
			return true
		}
	}
	return false
}
