// Package auth handles registration, login and logout. A login creates a
// server-side session; the token handed back only names that session.
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// -------- Core Logic --------

// Register creates an active customer account.
func Register(ctx context.Context, st store.UserStore, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, models.Invalid("username, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, models.Invalid("email %q is not valid", email)
	}
	return st.CreateUser(ctx, username, email, in.Password, models.RoleCustomer)
}

// Login checks the credentials and opens a session for the user.
func Login(ctx context.Context, st store.UserStore, sessions *session.Store, in LoginInput) (*models.User, *session.Session, error) {
	user, err := st.Authenticate(ctx, strings.TrimSpace(in.Username), in.Password)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	return user, sessions.Create(user.Identity()), nil
}

// -------- Handlers --------

// POST /auth/register
func RegisterHandler(st store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := Register(c.Request.Context(), st, input)
		if err != nil {
			controllers.RespondError(c, err, "Failed to register")
			return
		}
		log.Printf("👤 Registered customer %s", user.Username)
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// POST /auth/login
func LoginHandler(st store.UserStore, sessions *session.Store, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, sess, err := Login(c.Request.Context(), st, sessions, input)
		if err != nil {
			controllers.RespondError(c, err, "Login failed")
			return
		}
		token, err := IssueToken(secret, sess)
		if err != nil {
			sessions.Delete(sess.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"user":       user,
			"expires_at": sess.ExpiresAt,
		})
	}
}

// POST /auth/logout
func LogoutHandler(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		sessions.Delete(sess.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
