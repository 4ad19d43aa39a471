//go:build e2e

package admin_test

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/aussiebroadwan/backoffice/pkg/adminsdk"
	"github.com/stretchr/testify/require"
)

var editLinkRe = regexp.MustCompile(`/users/edit\?user_id=(\d+)`)

// userIDs returns the ids linked from the user list, skipping the "new
// user" link.
func userIDs(t *testing.T, page string) []int64 {
	t.Helper()
	var ids []int64
	for _, m := range editLinkRe.FindAllStringSubmatch(page, -1) {
		id, err := strconv.ParseInt(m[1], 10, 64)
		require.NoError(t, err)
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestUserManagement(t *testing.T) {
	baseURL, cleanup := setupAdminContainer(t, nil)
	defer cleanup()

	ctx := t.Context()
	admin := loggedInClient(t, baseURL, adminEmail, adminPassword)

	blank, err := admin.EditUser(ctx, 0)
	require.NoError(t, err)
	require.Contains(t, blank, "New user")

	ada := adminsdk.UserForm{
		Email:     "a@b.com",
		Username:  "ab",
		FirstName: "Ada",
		LastName:  "Byron",
		CompanyID: 1,
		Password:  "analytical-engine",
	}
	require.NoError(t, admin.SaveUser(ctx, ada))

	err = admin.SaveUser(ctx, ada)
	require.ErrorIs(t, err, adminsdk.ErrConflict)

	err = admin.SaveUser(ctx, adminsdk.UserForm{Email: "nope", Username: "x"})
	require.ErrorIs(t, err, adminsdk.ErrValidation)

	list, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Contains(t, list, "a@b.com")

	ids := userIDs(t, list)
	require.Len(t, ids, 2)
	var adaID int64
	for _, id := range ids {
		if id != 1 {
			adaID = id
		}
	}
	require.NotZero(t, adaID)

	// The new user can log in with the password set by the admin.
	other := loggedInClient(t, baseURL, ada.Email, ada.Password)

	ada.ID = adaID
	ada.FirstName = "Augusta"
	ada.Password = ""
	require.NoError(t, admin.SaveUser(ctx, ada))

	edit, err := admin.EditUser(ctx, adaID)
	require.NoError(t, err)
	require.Contains(t, edit, `value="Augusta"`)

	// Password was kept on update.
	require.NoError(t, adminsdk.NewClient(baseURL).Login(ctx, ada.Email, "analytical-engine"))

	require.NoError(t, admin.DeleteUser(ctx, adaID))

	_, err = admin.EditUser(ctx, adaID)
	require.ErrorIs(t, err, adminsdk.ErrNotFound)

	_, err = admin.EditUser(ctx, -1)
	require.ErrorIs(t, err, adminsdk.ErrBadRequest)

	// Deleting the user ended their sessions too.
	_, err = other.ListUsers(ctx)
	require.ErrorIs(t, err, adminsdk.ErrUnauthenticated)
}
