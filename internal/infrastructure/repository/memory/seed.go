package memory

import "github.com/riskibarqy/prediction-league/internal/domain/user"

// SeedUsers returns the participants used when the service runs without a
// database.
func SeedUsers() []user.User {
	return []user.User{
		{ID: "user-anna", Name: "Anna", Email: "anna@example.com"},
		{ID: "user-ben", Name: "Ben", Email: "ben@example.com"},
		{ID: "user-carla", Name: "Carla", Email: "carla@example.com"},
	}
}
