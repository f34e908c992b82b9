package users

import "github.com/opst/todofab/pkg/utils/rfctime"

type User struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	AvatarUrl string          `json:"avatarUrl"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

type Register struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Refresh is a request to refresh tokens. The token may be sent with cookie instead.
type Refresh struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Tokens is a response of login, register and refresh.
//
// User is set on login and register.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

type Profile struct {
	User User `json:"user"`
}

type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	AvatarUrl *string `json:"avatarUrl,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Deletion struct {
	Password string `json:"password"`
}

type Message struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
