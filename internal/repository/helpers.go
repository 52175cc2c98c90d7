package repository

import (
	"errors"

	"github.com/lib/pq"
)

// isUniqueViolation распознаёт нарушение уникального ключа PostgreSQL.
// Коллизии детерминированных ключей сущностей всплывают именно так.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
