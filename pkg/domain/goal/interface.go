package goal

import (
	"time"

	"github.com/opst/todofab/pkg/domain/goal/db"
)

type Interface interface {
	Database() db.GoalInterface
	Scheduler() *Scheduler
}

type impl struct {
	db        db.GoalInterface
	scheduler *Scheduler
}

func New(dbgoal db.GoalInterface) Interface {
	return &impl{db: dbgoal, scheduler: NewScheduler(dbgoal, time.Now)}
}

func (g *impl) Database() db.GoalInterface {
	return g.db
}

func (g *impl) Scheduler() *Scheduler {
	return g.scheduler
}
