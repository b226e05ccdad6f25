package galaxykit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const groupsPath = "_ui/v1/groups/"

// CreateGroup creates a group.
func CreateGroup(
	ctx context.Context,
	r Requester,
	groupName string,
) (Group, error) {
	group := Group{}
	if _, err := r.Do(
		ctx,
		OutboundRequest{
			Method:     http.MethodPost,
			Path:       groupsPath,
			ReqBodyObj: map[string]string{"name": groupName},
			RespObj:    &group,
		},
	); err != nil {
		return Group{}, errors.Wrapf(err, "error creating group %q", groupName)
	}
	return group, nil
}

// FindGroup returns the group named groupName, or *ErrNotFound.
func FindGroup(
	ctx context.Context,
	r Requester,
	groupName string,
) (Group, error) {
	groups := GroupList{}
	if _, err := r.Do(
		ctx,
		OutboundRequest{
			Method: http.MethodGet,
			Path: fmt.Sprintf(
				"%s?name=%s",
				groupsPath,
				url.QueryEscape(groupName),
			),
			RespObj: &groups,
		},
	); err != nil {
		return Group{}, errors.Wrapf(err, "error looking up group %q", groupName)
	}
	// The name filter is not guaranteed to be an exact match.
	for _, group := range groups.Data {
		if group.Name == groupName {
			return group, nil
		}
	}
	return Group{}, &ErrNotFound{Type: "Group", Name: groupName}
}

// DeleteGroup deletes the group named groupName.
func DeleteGroup(ctx context.Context, r Requester, groupName string) error {
	group, err := FindGroup(ctx, r, groupName)
	if err != nil {
		return err
	}
	if _, err = r.Delete(ctx, groupPath(group)); err != nil {
		return errors.Wrapf(err, "error deleting group %q", groupName)
	}
	return nil
}

// SetPermissions grants each of the named model permissions to the group.
// Duplicates are sent once.
func SetPermissions(
	ctx context.Context,
	r Requester,
	groupName string,
	permissions []string,
) error {
	group, err := FindGroup(ctx, r, groupName)
	if err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for _, permission := range permissions {
		if _, ok := seen[permission]; ok {
			continue
		}
		seen[permission] = struct{}{}
		if _, err := r.Post(
			ctx,
			fmt.Sprintf("%smodel-permissions/", groupPath(group)),
			map[string]string{"permission": permission},
		); err != nil {
			return errors.Wrapf(
				err,
				"error granting permission %q to group %q",
				permission,
				groupName,
			)
		}
	}
	return nil
}

func groupPath(group Group) string {
	return fmt.Sprintf("%s%d/", groupsPath, group.ID)
}
