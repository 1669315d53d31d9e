package workers

import (
	"log"

	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
)

// StartEventWorkers launches a pool of goroutines that drain the analytics
// event channel and persist events. Tracking is fire-and-forget from the
// public handlers' perspective; the pool absorbs bursts so page renders and
// redirects never wait on a database write.
func StartEventWorkers(workerCount int, events <-chan models.TrackedEvent, analyticsRepo repository.AnalyticsRepository) {
	log.Printf("Starting %d analytics event worker(s)...", workerCount)
	for i := 0; i < workerCount; i++ {
		go eventWorker(events, analyticsRepo)
	}
}

// eventWorker processes events until the channel is closed. Persistence
// failures are logged and the worker moves on; one bad event must not stall
// the stream.
func eventWorker(events <-chan models.TrackedEvent, analyticsRepo repository.AnalyticsRepository) {
	for event := range events {
		record := &models.AnalyticsEvent{
			ProfileID: event.ProfileID,
			LinkID:    event.LinkID,
			Type:      event.Type,
			IPAddress: event.IPAddress,
			UserAgent: event.UserAgent,
			CreatedAt: event.Timestamp,
		}
		if err := analyticsRepo.CreateEvent(record); err != nil {
			log.Printf("ERROR: failed to save %s event for profile %d: %v", event.Type, event.ProfileID, err)
		}
	}
}
