package galaxykit

// User is a Galaxy user account.
type User struct {
	ID          int        `json:"id,omitempty"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Groups      []GroupRef `json:"groups"`
	IsSuperuser bool       `json:"is_superuser"`
	DateJoined  string     `json:"date_joined,omitempty"`
}

// UserList is one page of users.
type UserList struct {
	Meta  ListMeta  `json:"meta"`
	Links ListLinks `json:"links"`
	Data  []User    `json:"data"`
}

// NewUser describes a user for GetOrCreateUser. Group is optional and names
// an existing group the user is added to.
type NewUser struct {
	Username  string
	Password  string
	Group     string
	FirstName string
	LastName  string
	Email     string
	Superuser bool
}

type userCreateRequest struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Groups      []GroupRef `json:"groups"`
	IsSuperuser bool       `json:"is_superuser"`
}

// ListMeta carries the total item count of a paginated listing.
type ListMeta struct {
	Count int `json:"count"`
}

// ListLinks carries pagination links. Next is empty on the last page.
type ListLinks struct {
	First    string `json:"first,omitempty"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
	Last     string `json:"last,omitempty"`
}
