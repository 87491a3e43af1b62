package security

import "github.com/authstack/userauth/internal/domain"

// Principal is the identity view handed to an external authorization
// framework. It wraps the user record instead of extending it, and only
// exposes what framework-level credential checks need.
type Principal struct {
	user domain.User
}

func NewPrincipal(user domain.User) *Principal {
	return &Principal{user: user}
}

func (p *Principal) ID() uint { return p.user.ID }

func (p *Principal) Email() string { return p.user.Email }

// HashedPassword returns the stored credential hash. The plaintext never
// exists server-side.
func (p *Principal) HashedPassword() string { return p.user.PasswordHash }
