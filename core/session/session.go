package session

// Status is the lifecycle state of the client session.
type Status string

const (
	// StatusLoading is the transient state before the first read of the
	// persisted store has completed.
	StatusLoading Status = "loading"

	// StatusAuthed means a token is present and the session is treated
	// as authenticated, possibly pending background revalidation.
	StatusAuthed Status = "authed"

	// StatusGuest means no token is present.
	StatusGuest Status = "guest"
)

// User describes the authenticated principal. All fields are optional;
// an empty field means "unknown", never "cleared". Server responses are
// merged field-by-field so a partial who-am-i payload cannot erase
// locally known values.
type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Merge returns a copy of u with non-empty fields of incoming applied.
// Fields the server omits keep their locally known values.
func (u *User) Merge(incoming *User) *User {
	if incoming == nil {
		return u
	}
	if u == nil {
		out := *incoming
		return &out
	}

	out := *u
	if incoming.ID != "" {
		out.ID = incoming.ID
	}
	if incoming.Email != "" {
		out.Email = incoming.Email
	}
	if incoming.FirstName != "" {
		out.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" {
		out.LastName = incoming.LastName
	}
	if incoming.AvatarURL != "" {
		out.AvatarURL = incoming.AvatarURL
	}
	return &out
}

// Tenant identifies the multi-tenant scope the session is bound to.
// Set at login and never refreshed by revalidation.
type Tenant struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Slug   string `json:"slug,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// State is a snapshot of the in-memory session. All fields describing the
// principal (Token, Role, Permissions, User, Tenant) are written as a
// consistent group; there are no partial-field transitions.
type State struct {
	Status Status

	// Token is the opaque bearer credential. Empty means no session,
	// which implies Status == StatusGuest.
	Token string

	Role        string
	Permissions []string

	// PermissionsLoading is true while a revalidation call is in flight.
	// Independent of Status; intended for UI spinners.
	PermissionsLoading bool

	User   *User
	Tenant *Tenant
}

// IsAuthenticated reports whether the session currently holds a token.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthed && s.Token != ""
}

// clone returns a deep copy safe to hand to subscribers.
func (s State) clone() State {
	out := s
	if s.Permissions != nil {
		out.Permissions = make([]string, len(s.Permissions))
		copy(out.Permissions, s.Permissions)
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Tenant != nil {
		tn := *s.Tenant
		out.Tenant = &tn
	}
	return out
}
