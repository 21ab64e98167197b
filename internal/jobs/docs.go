// Package jobs provides scheduled background tasks for the delivery core.
//
// Jobs are cron based (github.com/robfig/cron/v3, seconds enabled) and only
// build commands and hand them to the command handlers.
//
// # Available Jobs
//
// 1. RouteRepairJob - every ten minutes, recomputes today's tours whose route
// is unknown because the routing gateway failed when they last changed.
// 2. TourDuplicationJob - every night at 02:30, copies the tours of the last
// delivery day onto the next delivery day for every account. Delivery days
// come from the DELIVERY_DAYS weekday mask.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(duplicateHandler, repairHandler, deliveryDays, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Handler errors are logged and the job waits for its next tick. Duplication
// is idempotent per account, so a failed night is simply retried the next one.
// Failed job starts stop any already running jobs.
package jobs
