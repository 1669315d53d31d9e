package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/zaplink/zaplink/internal/repository"
)

// LinkMonitor periodically checks whether the outbound URLs stored on links
// are still reachable, and logs a notification whenever a URL flips between
// accessible and inaccessible. Profile owners curate their link lists over
// long periods; this surfaces dead destinations.
type LinkMonitor struct {
	linkRepo    repository.LinkRepository
	interval    time.Duration
	knownStates map[uint]bool // link ID -> last observed accessibility
	mu          sync.Mutex
	httpClient  *http.Client
}

// NewLinkMonitor creates a monitor that checks all stored links every
// interval.
func NewLinkMonitor(linkRepo repository.LinkRepository, interval time.Duration) *LinkMonitor {
	return &LinkMonitor{
		linkRepo:    linkRepo,
		interval:    interval,
		knownStates: make(map[uint]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Start runs the monitoring loop. It blocks, so callers run it in its own
// goroutine.
func (m *LinkMonitor) Start() {
	log.Printf("[MONITOR] Starting link URL monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkLinks()
	for range ticker.C {
		m.checkLinks()
	}
}

// checkLinks verifies every stored link URL and logs state transitions.
func (m *LinkMonitor) checkLinks() {
	links, err := m.linkRepo.GetAll()
	if err != nil {
		log.Printf("[MONITOR] ERROR retrieving links for monitoring: %v", err)
		return
	}

	for _, link := range links {
		currentState := m.isURLAccessible(link.URL)

		m.mu.Lock()
		previousState, seen := m.knownStates[link.ID]
		m.knownStates[link.ID] = currentState
		m.mu.Unlock()

		if !seen {
			if !currentState {
				log.Printf("[MONITOR] Link %q (%s) is %s", link.Title, link.URL, formatState(currentState))
			}
			continue
		}
		if currentState != previousState {
			log.Printf("[NOTIFICATION] Link %q (%s) changed from %s to %s",
				link.Title, link.URL, formatState(previousState), formatState(currentState))
		}
	}
}

// isURLAccessible issues a HEAD request and treats 2xx/3xx as reachable.
func (m *LinkMonitor) isURLAccessible(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
