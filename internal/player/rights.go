package player

// Rights is a player's moderation tier.
type Rights int

const (
	RightsGuest Rights = iota
	RightsModerator
	RightsAdministrator
)

func (r Rights) String() string {
	switch r {
	case RightsModerator:
		return "moderator"
	case RightsAdministrator:
		return "administrator"
	default:
		return "guest"
	}
}

// RightsPolicy is the read-only elevation allow-list, injected at process
// start from configuration.
type RightsPolicy struct {
	moderators     map[string]bool
	administrators map[string]bool

	// bypass grants administrator to everyone; local/testing only.
	bypass bool
}

func NewRightsPolicy(moderators, administrators []string, bypass bool) *RightsPolicy {
	p := &RightsPolicy{
		moderators:     make(map[string]bool, len(moderators)),
		administrators: make(map[string]bool, len(administrators)),
		bypass:         bypass,
	}
	for _, name := range moderators {
		p.moderators[name] = true
	}
	for _, name := range administrators {
		p.administrators[name] = true
	}
	return p
}

// RightsFor returns the tier the allow-list grants a username.
func (p *RightsPolicy) RightsFor(username string) Rights {
	if p == nil {
		return RightsGuest
	}
	if p.bypass || p.administrators[username] {
		return RightsAdministrator
	}
	if p.moderators[username] {
		return RightsModerator
	}
	return RightsGuest
}
