package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API handlers to run background work.
// Example usage:
//
//	scheduler := NewScheduler()
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewMatchChannelsTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
