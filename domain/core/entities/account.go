package entities

import (
	"strings"
	"time"

	"socialgram-backend/domain/core/valueobjects"
	pkgerrors "socialgram-backend/pkg/errors"
)

// Account is the registered user identity: profile fields plus the two
// adjacency sets of the follow graph. The sets are the directed storage of
// one relationship: A in B.followers iff B in A.following.
type Account struct {
	id           valueobjects.AccountID
	username     string
	email        string
	passwordHash string
	bio          string
	profilePic   string
	followers    []string
	following    []string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewAccount creates a new account with business rule validation.
// The password hash is produced by the caller; the entity never sees the
// plaintext credential.
func NewAccount(username, email, passwordHash string) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return nil, pkgerrors.NewValidationError("username cannot be empty")
	}
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, pkgerrors.NewValidationError("password hash cannot be empty")
	}

	now := time.Now()
	return &Account{
		id:           valueobjects.NewAccountID(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		followers:    []string{},
		following:    []string{},
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructAccount rebuilds an account from repository data with preserved
// timestamps and graph edges
func ReconstructAccount(
	id valueobjects.AccountID,
	username, email, passwordHash, bio, profilePic string,
	followers, following []string,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("account ID cannot be empty")
	}
	if username == "" {
		return nil, pkgerrors.NewValidationError("username cannot be empty")
	}

	return &Account{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		bio:          bio,
		profilePic:   profilePic,
		followers:    dedupe(followers),
		following:    dedupe(following),
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// Accessors

func (a *Account) ID() valueobjects.AccountID { return a.id }
func (a *Account) Username() string           { return a.username }
func (a *Account) Email() string              { return a.email }
func (a *Account) PasswordHash() string       { return a.passwordHash }
func (a *Account) Bio() string                { return a.bio }
func (a *Account) ProfilePic() string         { return a.profilePic }
func (a *Account) CreatedAt() time.Time       { return a.createdAt }
func (a *Account) UpdatedAt() time.Time       { return a.updatedAt }

// Followers returns a copy of the follower ID set
func (a *Account) Followers() []string {
	out := make([]string, len(a.followers))
	copy(out, a.followers)
	return out
}

// Following returns a copy of the following ID set
func (a *Account) Following() []string {
	out := make([]string, len(a.following))
	copy(out, a.following)
	return out
}

// IsFollowing reports whether this account follows the given account
func (a *Account) IsFollowing(id string) bool {
	return contains(a.following, id)
}

// IsFollowedBy reports whether the given account follows this account
func (a *Account) IsFollowedBy(id string) bool {
	return contains(a.followers, id)
}

// CanFollow validates the follow edge before the store applies it.
// Self-edges and duplicate edges are rejected; the store's conditional
// write is the concurrent-safety backstop for the same rules.
func (a *Account) CanFollow(targetID string) error {
	if targetID == a.id.String() {
		return pkgerrors.NewInvalidOperationError("you cannot follow yourself")
	}
	if a.IsFollowing(targetID) {
		return pkgerrors.NewConflictError("already following this user")
	}
	return nil
}

// CanUnfollow validates edge removal
func (a *Account) CanUnfollow(targetID string) error {
	if targetID == a.id.String() {
		return pkgerrors.NewInvalidOperationError("you cannot unfollow yourself")
	}
	if !a.IsFollowing(targetID) {
		return pkgerrors.NewInvalidOperationError("you are not following this user")
	}
	return nil
}

// UpdateProfile applies partial profile edits; empty fields are left as-is
func (a *Account) UpdateProfile(bio, profilePic string) {
	if bio != "" {
		a.bio = bio
	}
	if profilePic != "" {
		a.profilePic = profilePic
	}
	a.updatedAt = time.Now()
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func dedupe(set []string) []string {
	seen := make(map[string]struct{}, len(set))
	out := make([]string, 0, len(set))
	for _, s := range set {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
