package userControllers

import (
	"context"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore().WithHashCost(bcrypt.MinCost)
	user, err := st.CreateUser(ctx, "anna", "anna@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)
	_, err = st.CreateUser(ctx, "ben", "ben@example.com", "pw", models.RoleCustomer)
	require.NoError(t, err)

	sessions := session.NewStore(time.Hour)
	sess := sessions.Create(user.Identity())

	updated, err := UpdateProfile(ctx, st, sessions, sess, UpdateUserInput{Username: " annie ", Email: "annie@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "annie", updated.Username)

	live, err := sessions.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "annie", live.Identity.Username)
	assert.Equal(t, models.RoleCustomer, live.Identity.Role)

	_, err = UpdateProfile(ctx, st, sessions, sess, UpdateUserInput{Username: "annie", Email: "nope"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = UpdateProfile(ctx, st, sessions, sess, UpdateUserInput{Username: "ben", Email: "b@example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}
