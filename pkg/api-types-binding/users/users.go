package users

import (
	apiusers "github.com/opst/todofab/pkg/api/types/users"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/utils/rfctime"
)

// Compose makes a public view of the user. Password hash is never exposed.
func Compose(u domain.User) apiusers.User {
	return apiusers.User{
		Id:        u.Id,
		Name:      u.Name,
		Email:     u.Email,
		AvatarUrl: u.AvatarUrl,
		CreatedAt: rfctime.RFC3339(u.CreatedAt),
	}
}

func ComposeRef(u domain.User) *apiusers.User {
	ret := Compose(u)
	return &ret
}
