package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

// NewUser builds a populated instance for tests. Unless the caller sets one,
// HashedPassword gets a real bcrypt hash of "12345678" so password checks
// behave like production data.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	if len(customData) > 0 {
		hasHashedPassword := false

		for _, data := range customData {
			if _, exists := data["HashedPassword"]; exists {
				hasHashedPassword = true
				break
			}
		}

		if !hasHashedPassword {
			hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.DefaultCost)

			customData = append(customData, map[string]any{
				"HashedPassword": string(hashedPassword),
			})
		}
	}

	return instance.Build(customData...)
}
