package domain

import "time"

// Role is the coarse authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Rank tracks a user's standing in the community. New accounts start as
// members; guests are provisional accounts created from shared trips.
type Rank string

const (
	RankGuest  Rank = "guest"
	RankMember Rank = "member"
)

func (r Rank) Valid() bool { return r == RankGuest || r == RankMember }

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2id encoded
	Role         Role
	Rank         Rank
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
