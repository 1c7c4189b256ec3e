package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes backing the overlap invariant at the storage
// layer: the booking-interval exclusion constraint fires 23P01, the
// unique fallback 23505.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// IsExclusionConflict reports whether the database itself rejected the
// insert because of an overlapping interval. This is the backstop for
// the read-check-write race: two writers may both pass validation, but
// only one commit survives the constraint.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
	}
	return false
}

func Conflict(c *gin.Context, code, message string, detail any) {
	c.JSON(http.StatusConflict, gin.H{
		"error_code": code,
		"message":    message,
		"conflict":   detail,
	})
}
