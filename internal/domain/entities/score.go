package entities

// UserScore holds the point totals for a single user, keyed externally by
// the stringified Telegram user id. Weekly is never greater than Total.
type UserScore struct {
	Total  int `json:"total"`  // cumulative points since the user first answered
	Weekly int `json:"weekly"` // points earned in the current week
}
