package domain

import "time"

type User struct {
	ID             int64      `json:"id" fake:"-"`
	Name           string     `json:"name" validate:"required,min=2,max=100"`
	Email          string     `json:"email" validate:"required,email,max=100"`
	HashedPassword string     `json:"-"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// SoftDelete marks the user unavailable to normal queries without
// removing the row.
func (u *User) SoftDelete(at time.Time) {
	u.IsDeleted = true
	u.DeletedAt = &at
}

// UserPatch lists the updatable fields explicitly. A nil field is left
// untouched by Update.
type UserPatch struct {
	Name  *string `validate:"omitempty,min=2,max=100"`
	Email *string `validate:"omitempty,email,max=100"`
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// Apply copies the non-nil fields onto the user and refreshes UpdatedAt.
func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	u.UpdatedAt = now
}
