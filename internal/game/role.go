package game

// Role identifies one of the three seats. The Mayor holds the hand and
// places cards; the two Advisors nominate hexes and may lie about them.
type Role int

const (
	RoleMayor Role = iota
	RoleIndustry
	RoleUrbanist
)

// NumPlayers is the number of seats in a session.
const NumPlayers = 3

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleMayor:
		return "mayor"
	case RoleIndustry:
		return "industry"
	case RoleUrbanist:
		return "urbanist"
	default:
		return "unknown"
	}
}

// Valid reports whether the role is one of the three seats.
func (r Role) Valid() bool {
	return r >= RoleMayor && r <= RoleUrbanist
}

// IsAdvisor reports whether the role is Industry or Urbanist.
func (r Role) IsAdvisor() bool {
	return r == RoleIndustry || r == RoleUrbanist
}

// ParseRole maps a wire name back to a Role. The boolean is false for
// unknown names.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "mayor":
		return RoleMayor, true
	case "industry":
		return RoleIndustry, true
	case "urbanist":
		return RoleUrbanist, true
	default:
		return 0, false
	}
}
