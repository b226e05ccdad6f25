package galaxytest

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type groupRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	PulpHref string `json:"pulp_href,omitempty"`
}

type user struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password,omitempty"`
	Groups      []groupRef `json:"groups"`
	IsSuperuser bool       `json:"is_superuser"`
	DateJoined  string     `json:"date_joined"`
}

type group struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	PulpHref string `json:"pulp_href"`
}

type permission struct {
	Permission string `json:"permission"`
}

// store is the in-memory state behind a Server.
type store struct {
	mu          sync.Mutex
	nextUserID  int
	nextGroupID int
	users       map[int]*user
	groups      map[int]*group
	permissions map[int][]string
	tokens      map[string]string
}

func newStore() *store {
	return &store{
		nextUserID:  1,
		nextGroupID: 1,
		users:       map[int]*user{},
		groups:      map[int]*group{},
		permissions: map[int][]string{},
		tokens:      map[string]string{},
	}
}

func (s *store) addUser(u user) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return user{}, errInvalid(
				"A user with that username already exists.",
				u.Username,
			)
		}
	}
	for _, ref := range u.Groups {
		if _, ok := s.groups[ref.ID]; !ok {
			return user{}, errInvalid(
				"Group does not exist.",
				fmt.Sprintf("%d", ref.ID),
			)
		}
	}
	u.ID = s.nextUserID
	s.nextUserID++
	u.DateJoined = time.Now().UTC().Format(time.RFC3339)
	if u.Groups == nil {
		u.Groups = []groupRef{}
	}
	s.users[u.ID] = &u
	return u.public(), nil
}

func (u user) public() user {
	u.Password = ""
	return u
}

func (s *store) userPassword(username string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u.Password, true
		}
	}
	return "", false
}

// listUsers filters by username containment, like listGroups.
func (s *store) listUsers(username string) []user {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []user{}
	for _, u := range s.users {
		if username == "" || strings.Contains(u.Username, username) {
			users = append(users, u.public())
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *store) deleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errNotFound()
	}
	delete(s.users, id)
	for token, username := range s.tokens {
		if username == u.Username {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *store) addGroup(name string) (group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.Name == name {
			return group{}, errInvalid(
				"A group with that name already exists.",
				name,
			)
		}
	}
	g := group{
		ID:   s.nextGroupID,
		Name: name,
	}
	g.PulpHref = fmt.Sprintf("/pulp/api/v3/groups/%d/", g.ID)
	s.nextGroupID++
	s.groups[g.ID] = &g
	return g, nil
}

// listGroups filters by name containment, which is how the API's name filter
// behaves.
func (s *store) listGroups(name string) []group {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := []group{}
	for _, g := range s.groups {
		if name == "" || strings.Contains(g.Name, name) {
			groups = append(groups, *g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

func (s *store) deleteGroup(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return errNotFound()
	}
	delete(s.groups, id)
	delete(s.permissions, id)
	for _, u := range s.users {
		refs := u.Groups[:0]
		for _, ref := range u.Groups {
			if ref.ID != id {
				refs = append(refs, ref)
			}
		}
		u.Groups = refs
	}
	return nil
}

func (s *store) addPermission(groupID int, perm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return errNotFound()
	}
	for _, existing := range s.permissions[groupID] {
		if existing == perm {
			return errInvalid("Permission already assigned.", perm)
		}
	}
	s.permissions[groupID] = append(s.permissions[groupID], perm)
	return nil
}

func (s *store) groupPermissions(groupID int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return nil, errNotFound()
	}
	perms := make([]string, len(s.permissions[groupID]))
	copy(perms, s.permissions[groupID])
	return perms, nil
}

func (s *store) issueToken(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
}

func (s *store) tokenOwner(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[token]
	return username, ok
}
