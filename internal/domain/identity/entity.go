// internal/domain/identity/entity.go
package identity

// UserInfo is the profile the auth service answers /api/user/me with
type UserInfo struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// State is the observable identity of the session. Resolved is only true once
// the user profile has been fetched, so a consumer that needs a real user id
// (the cart reconciler in particular) can gate on it instead of on the mere
// presence of a token.
type State struct {
	Authenticated bool
	Resolved      bool
	UserID        int64
	Username      string
	Email         string
	Roles         []string

	// Epoch increments on every completed login or session resume. Consumers
	// that must act at most once per login compare epochs.
	Epoch uint64
}

// Anonymous reports whether the session has no authenticated identity
func (s State) Anonymous() bool {
	return !s.Authenticated
}

// HasRole reports whether the resolved user carries role
func (s State) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LoginRequest is the credential payload for the auth service
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SignupRequest is the registration payload for the auth service
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type jwtResponse struct {
	Token string `json:"token"`
}
