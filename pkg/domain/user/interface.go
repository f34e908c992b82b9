package user

import "github.com/opst/todofab/pkg/domain/user/db"

type Interface interface {
	Database() db.UserInterface
}

type impl struct {
	db db.UserInterface
}

func New(dbuser db.UserInterface) Interface {
	return &impl{db: dbuser}
}

func (u *impl) Database() db.UserInterface {
	return u.db
}
