package services

import (
	"fmt"

	"github.com/orderdesk/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserService encapsulates user use-cases. Email is the natural key.
type UserService = Resource[types.User, types.UserFilter, types.UserChanges]

// UserRepository defines persistence operations for users.
type UserRepository = Repository[types.User, types.UserFilter, types.UserChanges]

func NewUserService(repo UserRepository, opts Options) *UserService {
	return &UserService{
		name:    "user",
		channel: "users",
		repo:    repo,
		byID:    func(id int) types.UserFilter { return types.UserFilter{ID: id} },
		naturalKey: func(u types.User) (types.UserFilter, bool) {
			return types.UserFilter{Email: u.Email}, u.Email != ""
		},
		changedKey: func(c types.UserChanges) (types.UserFilter, bool) {
			if c.Email == nil || *c.Email == "" {
				return types.UserFilter{}, false
			}
			return types.UserFilter{Email: *c.Email}, true
		},
		conflict: func(f types.UserFilter) string {
			return fmt.Sprintf("user with email %s already exists", f.Email)
		},
		prepare: hashPassword,
		events:  opts.Events,
		metrics: opts.Metrics,
	}
}

// hashPassword stores a bcrypt hash of the supplied password. Values that
// already parse as a bcrypt hash are kept as they are.
func hashPassword(u *types.User) error {
	if _, err := bcrypt.Cost([]byte(u.HashedPassword)); err == nil {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.HashedPassword = string(hashed)
	return nil
}
