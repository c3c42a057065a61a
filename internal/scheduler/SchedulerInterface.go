package scheduler

type SchedulerInterface interface {
	Init()
	Stop()
	Sweep() (int, error)
	Backup() error
}
