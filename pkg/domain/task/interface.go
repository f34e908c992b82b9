package task

import "github.com/opst/todofab/pkg/domain/task/db"

type Interface interface {
	Database() db.TaskInterface
}

type impl struct {
	db db.TaskInterface
}

func New(dbtask db.TaskInterface) Interface {
	return &impl{db: dbtask}
}

func (t *impl) Database() db.TaskInterface {
	return t.db
}
