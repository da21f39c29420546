package models

// User is a record returned by the remote user lookup
type User struct {
	ID       int64  `json:"id,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nombre   string `json:"nombre,omitempty"`
}

// Credentials is what the login form submits
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
