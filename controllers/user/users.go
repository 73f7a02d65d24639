package userControllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
)

type UpdateUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// UpdateProfile changes the username and email of the signed-in user and
// refreshes the identity held by the session.
func UpdateProfile(ctx context.Context, st store.UserStore, sessions *session.Store, sess *session.Session, in UpdateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return nil, models.Invalid("username and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, models.Invalid("email %q is not valid", email)
	}
	user, err := st.UpdateProfile(ctx, sess.Identity.UserID, username, email)
	if err != nil {
		return nil, err
	}
	sessions.SetIdentity(sess.ID, user.Identity())
	return user, nil
}

// GET /account
func GetUser(st store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		user, err := st.GetUser(c.Request.Context(), sess.Identity.UserID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch user")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /account
func UpdateUser(st store.UserStore, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := UpdateProfile(c.Request.Context(), st, sessions, sess, input)
		if err != nil {
			controllers.RespondError(c, err, "Failed to update user")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
