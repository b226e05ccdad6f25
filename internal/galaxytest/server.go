// Package galaxytest provides an in-memory Galaxy API for tests. It issues
// tokens, manages users, groups and group permissions, and answers failures
// with the API's errors envelope.
package galaxytest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Prefix is the path the API is served under.
const Prefix = "/api/automation-hub/"

const defaultPageSize = 10

// Options configure a Server.
type Options struct {
	// Accounts maps usernames to the passwords the token endpoint accepts.
	// Each account is also present as a superuser.
	Accounts map[string]string
	// PageSize bounds list responses. Defaults to 10.
	PageSize int
}

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Server is a running fake Galaxy API.
type Server struct {
	*httptest.Server
	store    *store
	pageSize int

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewServer starts a Server. Callers must Close it.
func NewServer(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	s := &Server{
		store:    newStore(),
		pageSize: opts.PageSize,
	}
	if s.pageSize < 1 {
		s.pageSize = defaultPageSize
	}
	for username, password := range opts.Accounts {
		if _, err := s.store.addUser(
			user{
				Username:    username,
				Password:    password,
				IsSuperuser: true,
			},
		); err != nil {
			panic(err)
		}
	}
	s.Server = httptest.NewServer(s.record(s.router()))
	return s
}

// Root returns the base URL clients should be constructed with.
func (s *Server) Root() string {
	return s.URL + Prefix
}

// Requests returns every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	requests := make([]RecordedRequest, len(s.requests))
	copy(requests, s.requests)
	return requests
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// AddGroup seeds a group.
func (s *Server) AddGroup(name string) int {
	g, err := s.store.addGroup(name)
	if err != nil {
		panic(err)
	}
	return g.ID
}

// AddUser seeds a non-superuser, optionally as a member of existing groups.
func (s *Server) AddUser(username, password string, groupNames ...string) int {
	refs := []groupRef{}
	for _, name := range groupNames {
		for _, g := range s.store.listGroups(name) {
			if g.Name == name {
				refs = append(refs, groupRef{ID: g.ID, Name: g.Name})
			}
		}
	}
	u, err := s.store.addUser(
		user{
			Username: username,
			Password: password,
			Groups:   refs,
		},
	)
	if err != nil {
		panic(err)
	}
	return u.ID
}

// HasUser reports whether a user with the given username exists.
func (s *Server) HasUser(username string) bool {
	_, ok := s.user(username)
	return ok
}

// HasGroup reports whether a group with exactly the given name exists.
func (s *Server) HasGroup(name string) bool {
	_, ok := s.groupID(name)
	return ok
}

// UserGroups returns the names of the groups the user belongs to.
func (s *Server) UserGroups(username string) []string {
	names := []string{}
	u, _ := s.user(username)
	for _, ref := range u.Groups {
		names = append(names, ref.Name)
	}
	return names
}

func (s *Server) user(username string) (user, bool) {
	for _, u := range s.store.listUsers(username) {
		if u.Username == username {
			return u, true
		}
	}
	return user{}, false
}

// Permissions returns the permissions granted to the named group.
func (s *Server) Permissions(groupName string) []string {
	id, ok := s.groupID(groupName)
	if !ok {
		return nil
	}
	perms, _ := s.store.groupPermissions(id)
	return perms
}

func (s *Server) groupID(name string) (int, bool) {
	for _, g := range s.store.listGroups(name) {
		if g.Name == name {
			return g.ID, true
		}
	}
	return 0, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var bodyBytes []byte
		if r.Body != nil {
			bodyBytes, _ = io.ReadAll(r.Body)
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
		s.mu.Lock()
		s.requests = append(
			s.requests,
			RecordedRequest{
				Method:   r.Method,
				Path:     r.URL.Path,
				RawQuery: r.URL.RawQuery,
				Header:   r.Header.Clone(),
				Body:     bodyBytes,
			},
		)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix(strings.TrimSuffix(Prefix, "/")).Subrouter()
	auth := &tokenAuthFilter{store: s.store}

	api.HandleFunc("/v3/auth/token/", s.token).Methods(http.MethodPost)

	api.HandleFunc(
		"/_ui/v1/users/",
		auth.Decorate(s.listUsers),
	).Methods(http.MethodGet)
	api.HandleFunc(
		"/_ui/v1/users/",
		auth.Decorate(s.createUser),
	).Methods(http.MethodPost)
	api.HandleFunc(
		"/_ui/v1/users/{id:[0-9]+}/",
		auth.Decorate(s.deleteUser),
	).Methods(http.MethodDelete)

	api.HandleFunc(
		"/_ui/v1/groups/",
		auth.Decorate(s.listGroups),
	).Methods(http.MethodGet)
	api.HandleFunc(
		"/_ui/v1/groups/",
		auth.Decorate(s.createGroup),
	).Methods(http.MethodPost)
	api.HandleFunc(
		"/_ui/v1/groups/{id:[0-9]+}/",
		auth.Decorate(s.deleteGroup),
	).Methods(http.MethodDelete)
	api.HandleFunc(
		"/_ui/v1/groups/{id:[0-9]+}/model-permissions/",
		auth.Decorate(s.listPermissions),
	).Methods(http.MethodGet)
	api.HandleFunc(
		"/_ui/v1/groups/{id:[0-9]+}/model-permissions/",
		auth.Decorate(s.addPermission),
	).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			writeAPIError(w, errNotFound())
		},
	)
	return router
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				username, password, ok := r.BasicAuth()
				if !ok {
					return nil, errNotAuthenticated()
				}
				expected, found := s.store.userPassword(username)
				if !found || expected != password {
					return nil, errAuthenticationFailed()
				}
				token := strings.ReplaceAll(uuid.New().String(), "-", "")
				s.store.issueToken(username, token)
				return map[string]string{"token": token}, nil
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				users := s.store.listUsers(r.URL.Query().Get("username"))
				items := make([]interface{}, len(users))
				for i, u := range users {
					items[i] = u
				}
				return s.paginate(r, items)
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	u := user{}
	serveRequest(
		inboundRequest{
			w:                   w,
			r:                   r,
			reqBodySchemaLoader: userSchemaLoader,
			reqBodyObj:          &u,
			endpointLogic: func() (interface{}, error) {
				return s.store.addUser(u)
			},
			successCode: http.StatusCreated,
		},
	)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				id, err := strconv.Atoi(mux.Vars(r)["id"])
				if err != nil {
					return nil, errNotFound()
				}
				return nil, s.store.deleteUser(id)
			},
			successCode: http.StatusNoContent,
		},
	)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				groups := s.store.listGroups(r.URL.Query().Get("name"))
				items := make([]interface{}, len(groups))
				for i, g := range groups {
					items[i] = g
				}
				return s.paginate(r, items)
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	g := group{}
	serveRequest(
		inboundRequest{
			w:                   w,
			r:                   r,
			reqBodySchemaLoader: groupSchemaLoader,
			reqBodyObj:          &g,
			endpointLogic: func() (interface{}, error) {
				return s.store.addGroup(g.Name)
			},
			successCode: http.StatusCreated,
		},
	)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				id, err := strconv.Atoi(mux.Vars(r)["id"])
				if err != nil {
					return nil, errNotFound()
				}
				return nil, s.store.deleteGroup(id)
			},
			successCode: http.StatusNoContent,
		},
	)
}

func (s *Server) listPermissions(w http.ResponseWriter, r *http.Request) {
	serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				id, err := strconv.Atoi(mux.Vars(r)["id"])
				if err != nil {
					return nil, errNotFound()
				}
				perms, err := s.store.groupPermissions(id)
				if err != nil {
					return nil, err
				}
				items := make([]interface{}, len(perms))
				for i, perm := range perms {
					items[i] = permission{Permission: perm}
				}
				return s.paginate(r, items)
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) addPermission(w http.ResponseWriter, r *http.Request) {
	p := permission{}
	serveRequest(
		inboundRequest{
			w:                   w,
			r:                   r,
			reqBodySchemaLoader: permissionSchemaLoader,
			reqBodyObj:          &p,
			endpointLogic: func() (interface{}, error) {
				id, err := strconv.Atoi(mux.Vars(r)["id"])
				if err != nil {
					return nil, errNotFound()
				}
				return p, s.store.addPermission(id, p.Permission)
			},
			successCode: http.StatusCreated,
		},
	)
}

type listMeta struct {
	Count int `json:"count"`
}

type listLinks struct {
	First    string `json:"first"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
	Last     string `json:"last"`
}

type listResponse struct {
	Meta  listMeta      `json:"meta"`
	Links listLinks     `json:"links"`
	Data  []interface{} `json:"data"`
}

// paginate applies limit/offset and renders links as absolute paths, the way
// the API does.
func (s *Server) paginate(
	r *http.Request,
	items []interface{},
) (listResponse, error) {
	query := r.URL.Query()
	limit := s.pageSize
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 1 {
			return listResponse{}, errInvalid(
				fmt.Sprintf("Invalid value %q for \"limit\".", limitStr),
				"",
			)
		}
	}
	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		var err error
		if offset, err = strconv.Atoi(offsetStr); err != nil || offset < 0 {
			return listResponse{}, errInvalid(
				fmt.Sprintf("Invalid value %q for \"offset\".", offsetStr),
				"",
			)
		}
	}
	link := func(offset int) string {
		q := r.URL.Query()
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
		return fmt.Sprintf("%s?%s", r.URL.Path, q.Encode())
	}

	resp := listResponse{
		Meta: listMeta{Count: len(items)},
		Data: []interface{}{},
	}
	lastOffset := 0
	if len(items) > 0 {
		lastOffset = ((len(items) - 1) / limit) * limit
	}
	resp.Links.First = link(0)
	resp.Links.Last = link(lastOffset)
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		resp.Links.Previous = link(prev)
	}
	if offset+limit < len(items) {
		resp.Links.Next = link(offset + limit)
	}
	if offset < len(items) {
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		resp.Data = items[offset:end]
	}
	return resp, nil
}
