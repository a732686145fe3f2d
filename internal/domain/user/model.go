package user

// User is a participant of the prediction game.
type User struct {
	ID    string
	Name  string
	Email string
}
