package auth

// Account is a stored credential record. The password hash never leaves
// the service; handlers serialize accounts without it.
type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// Credentials is the register/login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair bundles the two token classes issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

const (
	// RoleUser is the default role assigned on registration.
	RoleUser = "user"
	// RoleAdmin grants access to the admin surface.
	RoleAdmin = "admin"
)
