package models

// TeamMember is one entry of the static roster
type TeamMember struct {
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty"`
	Team     string `json:"team,omitempty" yaml:"team,omitempty"`
}

// DisplayName returns the member's name, or the username when no name is set
func (m TeamMember) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Username
}
