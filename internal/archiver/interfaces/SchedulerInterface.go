package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	RunNow() error
}
