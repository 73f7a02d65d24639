// Package controllers holds what the area controllers share: turning errors
// into HTTP responses and reading the session gin carries.
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
)

// SessionKey is where middleware.ValidateToken stores the *session.Session.
const SessionKey = "session"

// CurrentSession returns the session attached by the auth middleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// RequireSession aborts with 401 when no session is attached.
func RequireSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return sess, true
}

// StatusOf maps domain and store errors to an HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidCart),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes a human-readable error. failMsg is used for errors
// that should not be shown to the client as-is.
func RespondError(c *gin.Context, err error, failMsg string) {
	status := StatusOf(err)
	msg := err.Error()
	switch {
	case errors.Is(err, store.ErrNotFound):
		msg = "Not found"
	case errors.Is(err, store.ErrDuplicate):
		msg = "Already exists"
	case errors.Is(err, store.ErrConstraint):
		msg = failMsg + ": it conflicts with existing data"
	case status == http.StatusServiceUnavailable:
		log.Printf("❌ %s: %v", failMsg, err)
		msg = "Database is unavailable, please try again later"
	case status == http.StatusInternalServerError:
		log.Printf("❌ %s: %v", failMsg, err)
		msg = failMsg
	}
	c.JSON(status, gin.H{"error": msg})
}
