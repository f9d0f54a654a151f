package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// mustUserID reads the authenticated user id; it aborts with 401 when absent.
func mustUserID(c *gin.Context) (int64, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, msgNoCredentials)
		return 0, false
	}
	return userID, true
}

// pathID parses a positive integer path parameter. Anything else is a 404,
// since no such resource can exist.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, &fieldValueError{field: field, message: msgBadDate}
	}
	return t, nil
}
