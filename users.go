package galaxykit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const usersPath = "_ui/v1/users/"

// GetOrCreateUser returns the existing user with the given username, or
// creates it. The returned flag reports whether the user was created.
func GetOrCreateUser(
	ctx context.Context,
	r Requester,
	user NewUser,
) (bool, User, error) {
	existing, err := findUser(ctx, r, user.Username)
	if err == nil {
		return false, existing, nil
	}
	if _, ok := errors.Cause(err).(*ErrNotFound); !ok {
		return false, User{}, err
	}

	groups := []GroupRef{}
	if user.Group != "" {
		group, err := FindGroup(ctx, r, user.Group)
		if err != nil {
			return false, User{}, err
		}
		groups = append(groups, group.Ref())
	}

	created := User{}
	if _, err := r.Do(
		ctx,
		OutboundRequest{
			Method: http.MethodPost,
			Path:   usersPath,
			ReqBodyObj: userCreateRequest{
				Username:    user.Username,
				FirstName:   user.FirstName,
				LastName:    user.LastName,
				Email:       user.Email,
				Password:    user.Password,
				Groups:      groups,
				IsSuperuser: user.Superuser,
			},
			RespObj: &created,
		},
	); err != nil {
		return false, User{}, errors.Wrapf(
			err,
			"error creating user %q",
			user.Username,
		)
	}
	return true, created, nil
}

// GetUserList returns every user, following pagination links.
func GetUserList(ctx context.Context, r Requester) ([]User, error) {
	users := []User{}
	visited := map[string]bool{}
	path := usersPath
	for path != "" && !visited[path] {
		visited[path] = true
		page := UserList{}
		if _, err := r.Do(
			ctx,
			OutboundRequest{
				Method:  http.MethodGet,
				Path:    path,
				RespObj: &page,
			},
		); err != nil {
			return nil, errors.Wrap(err, "error listing users")
		}
		users = append(users, page.Data...)
		path = page.Links.Next
	}
	return users, nil
}

// DeleteUser deletes the user with the given username.
func DeleteUser(ctx context.Context, r Requester, username string) error {
	user, err := findUser(ctx, r, username)
	if err != nil {
		return err
	}
	if _, err = r.Delete(ctx, fmt.Sprintf("%s%d/", usersPath, user.ID)); err != nil {
		return errors.Wrapf(err, "error deleting user %q", username)
	}
	return nil
}

func findUser(ctx context.Context, r Requester, username string) (User, error) {
	users := UserList{}
	if _, err := r.Do(
		ctx,
		OutboundRequest{
			Method:  http.MethodGet,
			Path:    userLookupPath(username),
			RespObj: &users,
		},
	); err != nil {
		return User{}, errors.Wrapf(err, "error looking up user %q", username)
	}
	for _, user := range users.Data {
		if user.Username == username {
			return user, nil
		}
	}
	return User{}, &ErrNotFound{Type: "User", Name: username}
}

func userLookupPath(username string) string {
	return fmt.Sprintf("%s?username=%s", usersPath, url.QueryEscape(username))
}
