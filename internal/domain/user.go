package domain

// User is the signed-in caller as asserted by the identity provider.
// The tracker never stores users; it only reads them from verified tokens.
type User struct {
	ID    string
	Email string
}
