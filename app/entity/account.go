package entity

// Account is a platform user profile as seen by the payment pipeline.
type Account struct {
	ID        string
	Email     string
	IsPremium bool
}
