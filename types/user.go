package types

import "time"

// User represents a customer account.
// It contains identity and contact details plus audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" gorm:"primaryKey"`

	// FirstName is the user's given name.
	FirstName string `json:"first_name" gorm:"index"`

	// LastName is the user's family name.
	LastName string `json:"last_name" gorm:"index"`

	// Email is the user's email address. It is unique across all users
	// and acts as the natural key when registering new accounts.
	Email string `json:"email" gorm:"uniqueIndex"`

	// HashedPassword stores the bcrypt representation of the user's password.
	// This field is never exposed in API responses.
	HashedPassword string `json:"-"`

	// Orders holds the orders placed by this user. It is only populated
	// when explicitly preloaded.
	Orders []Order `json:"-" gorm:"foreignKey:UserID"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at"`
}

// PrimaryKey returns the storage identifier of the user.
func (u User) PrimaryKey() int {
	return u.ID
}

// UserFilter selects users by equality on the set fields.
// Zero-valued fields are ignored.
type UserFilter struct {
	ID    int
	Email string
}

// Conditions returns the column/value pairs of the filter.
func (f UserFilter) Conditions() map[string]any {
	conds := make(map[string]any, 2)
	if f.ID != 0 {
		conds["id"] = f.ID
	}
	if f.Email != "" {
		conds["email"] = f.Email
	}
	return conds
}

// UserChanges is a partial update of a user. Nil fields are left untouched.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Columns returns the column/value pairs to write.
func (c UserChanges) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if c.FirstName != nil {
		cols["first_name"] = *c.FirstName
	}
	if c.LastName != nil {
		cols["last_name"] = *c.LastName
	}
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	return cols
}
