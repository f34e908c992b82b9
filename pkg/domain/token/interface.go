package token

import "github.com/opst/todofab/pkg/domain/token/db"

type Interface interface {
	Database() db.TokenInterface
}

type impl struct {
	db db.TokenInterface
}

func New(dbtoken db.TokenInterface) Interface {
	return &impl{db: dbtoken}
}

func (t *impl) Database() db.TokenInterface {
	return t.db
}
