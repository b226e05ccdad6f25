package galaxykit

// Group is a Galaxy group.
type Group struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	PulpHref string `json:"pulp_href,omitempty"`
}

// GroupRef is the form in which groups are attached to users.
type GroupRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	PulpHref string `json:"pulp_href,omitempty"`
}

// GroupList is one page of groups.
type GroupList struct {
	Meta  ListMeta  `json:"meta"`
	Links ListLinks `json:"links"`
	Data  []Group   `json:"data"`
}

// Ref returns the form of g used in user payloads.
func (g Group) Ref() GroupRef {
	return GroupRef(g)
}
