package galaxykit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/galaxykit/galaxykit/internal/galaxytest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateUser(t *testing.T) {
	server, client := newGalaxyClient(t, nil)
	server.AddGroup("devs")
	ctx := context.Background()

	created, user, err := client.GetOrCreateUser(
		ctx,
		NewUser{
			Username:  "jdoe",
			Password:  "secret",
			Group:     "devs",
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jdoe@example.com",
		},
	)
	require.NoError(t, err)
	require.True(t, created)
	require.NotZero(t, user.ID)
	require.Equal(t, "jdoe", user.Username)
	require.Equal(t, "Jane", user.FirstName)
	require.Equal(t, "Doe", user.LastName)
	require.Equal(t, "jdoe@example.com", user.Email)
	require.False(t, user.IsSuperuser)
	require.Len(t, user.Groups, 1)
	require.Equal(t, "devs", user.Groups[0].Name)
	require.Equal(t, []string{"devs"}, server.UserGroups("jdoe"))

	req, ok := server.LastRequest()
	require.True(t, ok)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, galaxytest.Prefix+"_ui/v1/users/", req.Path)
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(req.Body, &payload))
	require.Equal(t, "secret", payload["password"])
	require.Equal(t, false, payload["is_superuser"])

	created, again, err := client.GetOrCreateUser(
		ctx,
		NewUser{Username: "jdoe", Password: "other"},
	)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, user.ID, again.ID)
}

func TestGetOrCreateUserWithoutGroup(t *testing.T) {
	server, client := newGalaxyClient(t, nil)
	created, user, err := client.GetOrCreateUser(
		context.Background(),
		NewUser{Username: "root2", Password: "pw", Superuser: true},
	)
	require.NoError(t, err)
	require.True(t, created)
	require.True(t, user.IsSuperuser)
	require.Empty(t, user.Groups)
	require.True(t, server.HasUser("root2"))
}

func TestGetOrCreateUserUnknownGroup(t *testing.T) {
	server, client := newGalaxyClient(t, nil)
	_, _, err := client.GetOrCreateUser(
		context.Background(),
		NewUser{Username: "jdoe", Password: "pw", Group: "ghosts"},
	)
	require.IsType(t, &ErrNotFound{}, errors.Cause(err))
	require.False(t, server.HasUser("jdoe"))
}

func TestGetUserList(t *testing.T) {
	server, client := newGalaxyClient(t, &galaxytest.Options{PageSize: 2})
	for _, username := range []string{"a", "b", "c", "d"} {
		server.AddUser(username, "pw")
	}
	users, err := client.GetUserList(context.Background())
	require.NoError(t, err)
	usernames := make([]string, len(users))
	for i, user := range users {
		usernames[i] = user.Username
	}
	require.Equal(
		t,
		[]string{testAdminUsername, "a", "b", "c", "d"},
		usernames,
	)
}

func TestDeleteUser(t *testing.T) {
	server, client := newGalaxyClient(t, nil)
	server.AddUser("jdoe", "pw")
	require.NoError(t, client.DeleteUser(context.Background(), "jdoe"))
	require.False(t, server.HasUser("jdoe"))

	req, ok := server.LastRequest()
	require.True(t, ok)
	require.Equal(t, http.MethodDelete, req.Method)
}

func TestDeleteUserNotFound(t *testing.T) {
	_, client := newGalaxyClient(t, nil)
	err := client.DeleteUser(context.Background(), "nobody")
	require.IsType(t, &ErrNotFound{}, errors.Cause(err))
	require.Equal(t, `User "nobody" not found.`, err.Error())
}

func TestUserFunctionsAcceptAnyRequester(t *testing.T) {
	server, client := newGalaxyClient(t, nil)
	server.AddUser("jdoe", "pw")
	// The free functions only need the low level primitives.
	var r Requester = client
	users, err := GetUserList(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestGetOrCreateUserIgnoresPartialMatches(t *testing.T) {
	server, client := newGalaxyClient(t, nil)
	server.AddUser("jdoe2", "pw")

	created, user, err := client.GetOrCreateUser(
		context.Background(),
		NewUser{Username: "jdoe", Password: "pw"},
	)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "jdoe", user.Username)
	require.True(t, server.HasUser("jdoe"))

	// Both now match the lookup; only the exact one is returned.
	created, user, err = client.GetOrCreateUser(
		context.Background(),
		NewUser{Username: "jdoe", Password: "pw"},
	)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "jdoe", user.Username)
}

func TestGetUserListStopsOnRepeatedPage(t *testing.T) {
	requests := 0
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				requests++
				require.LessOrEqual(t, requests, 2)
				fmt.Fprintf(
					w,
					`{"meta": {"count": 2}, "links": {"next": "/_ui/v1/users/?page=2"}, "data": [{"username": "u%d"}]}`,
					requests,
				)
			},
		),
	)
	defer server.Close()
	users, err := GetUserList(context.Background(), newTestClient(t, server.URL))
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "u1", users[0].Username)
	require.Equal(t, "u2", users[1].Username)
}
