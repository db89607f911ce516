package domain

// Session tracks the real actor and the identity currently presented.
type Session struct {
	ID              string   `json:"id"`
	CurrentUser     Identity `json:"current_user"`
	ActingUser      Identity `json:"acting_user"`
	IsImpersonating bool     `json:"is_impersonating"`
}

// ActingAsID returns the impersonated identity id, or nil when acting directly.
func (s Session) ActingAsID() *string {
	if !s.IsImpersonating {
		return nil
	}
	return StringPtr(s.CurrentUser.ID)
}
