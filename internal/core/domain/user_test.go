package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"usergraph/internal/core/domain"
)

func TestUser_SoftDelete(t *testing.T) {
	user := domain.User{ID: 1, Name: "Test User", Email: "test@example.com"}

	now := time.Now()
	user.SoftDelete(now)

	assert.True(t, user.IsDeleted)
	assert.NotNil(t, user.DeletedAt)
	assert.Equal(t, now, *user.DeletedAt)
}

func TestUserPatch_Apply_NameOnly(t *testing.T) {
	user := domain.User{ID: 1, Name: "Old Name", Email: "old@example.com"}
	name := "New Name"

	now := time.Now()
	patch := domain.UserPatch{Name: &name}
	patch.Apply(&user, now)

	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "old@example.com", user.Email)
	assert.Equal(t, now, user.UpdatedAt)
}

func TestUserPatch_IsEmpty(t *testing.T) {
	assert.True(t, domain.UserPatch{}.IsEmpty())

	email := "new@example.com"
	assert.False(t, domain.UserPatch{Email: &email}.IsEmpty())
}
