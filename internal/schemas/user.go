package schemas

import (
	"strings"

	"github.com/orderdesk/apiserver/types"
)

// UserCreate is the payload of POST /users/add.
type UserCreate struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	HashedPassword string `json:"hashed_password" validate:"required,maxbytes=72"`
}

func (p *UserCreate) normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
}

// User converts the payload into a new entity.
func (p UserCreate) User() types.User {
	return types.User{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		HashedPassword: p.HashedPassword,
	}
}

// UserUpdate is the payload of PUT /users/edit/{id}. Omitted fields keep
// their stored value.
type UserUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,min=1"`
}

func (p *UserUpdate) normalize() {
	trimPtr(p.FirstName)
	trimPtr(p.LastName)
	trimPtr(p.Email)
}

func (p UserUpdate) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// Changes converts the payload into a partial update.
func (p UserUpdate) Changes() types.UserChanges {
	return types.UserChanges{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}
