package drill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// Outcome labels for a single roster mutation.
const (
	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeFailed   = "failed"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request. The signup API carries its arguments in the
// path and query string, so no body is sent.
func (c *HTTPClient) Post(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// signupURL builds the signup URL for one student. Activity names may
// contain spaces, so the path segment is escaped.
func signupURL(baseURL string, s Student) string {
	return baseURL + "/activities/" + url.PathEscape(s.Activity) + "/signup?email=" + url.QueryEscape(s.Email)
}

// unregisterURL builds the unregister URL for one student.
func unregisterURL(baseURL string, s Student) string {
	return baseURL + "/activities/" + url.PathEscape(s.Activity) + "/unregister?email=" + url.QueryEscape(s.Email)
}

// progressThrottle limits progress lines to one per interval across workers.
type progressThrottle struct {
	last atomic.Int64
}

func (p *progressThrottle) ready(interval time.Duration) bool {
	now := time.Now().UnixNano()
	last := p.last.Load()
	return now-last >= int64(interval) && p.last.CompareAndSwap(last, now)
}

// submitSignups signs students up concurrently using a worker pool and
// returns the students whose signups were accepted.
func submitSignups(ctx context.Context, config *Config, students []Student, stats *Stats) ([]Student, error) {
	log.Printf("📤 Submitting %d signups with %d workers...", len(students), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Per-student outcomes plus counters for statistics
	outcomes := make([]string, len(students))
	var (
		successful int64
		conflicted int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var throttle progressThrottle
	reportInterval := 1 * time.Second

	// Create worker pool (send indices so workers can record outcomes)
	studentChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range studentChan {
				select {
				case <-ctx.Done():
					return
				default:
					outcome := submitSingleSignup(ctx, client, config.BaseURL, students[index], config.Verbose)
					outcomes[index] = outcome

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch outcome {
					case outcomeSuccess:
						atomic.AddInt64(&successful, 1)
					case outcomeConflict:
						atomic.AddInt64(&conflicted, 1)
					case outcomeFailed:
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if throttle.ready(reportInterval) {
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						conf := atomic.LoadInt64(&conflicted)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, conflict: %d, failed: %d)",
								total, len(students), succ, conf, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, conflict: %d, failed: %d)",
								total, len(students), succ, conf, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send student indices to workers
	go func() {
		defer close(studentChan)
		for i := range students {
			select {
			case <-ctx.Done():
				return
			case studentChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.SignupsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SignupsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SignupsConflicted = int(atomic.LoadInt64(&conflicted))
	stats.SignupsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Signup submission completed:
   Successful: %d
   Conflicted: %d
   Failed: %d
`, stats.SignupsSuccessful, stats.SignupsConflicted, stats.SignupsFailed)

	// Keep only the students the service actually accepted
	accepted := make([]Student, 0, len(students))
	for i, outcome := range outcomes {
		if outcome == outcomeSuccess {
			accepted = append(accepted, students[i])
		}
	}

	return accepted, nil
}

// submitSingleSignup submits one signup and classifies the outcome
func submitSingleSignup(ctx context.Context, client *HTTPClient, baseURL string, student Student, verbose bool) string {
	resp, err := client.Post(ctx, signupURL(baseURL, student))
	if err != nil {
		return outcomeFailed
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed
	}

	switch resp.StatusCode {
	case StatusOK:
		return outcomeSuccess
	case StatusBadRequest:
		// Roster conflicts surface as structured 400s
		var apiErr ErrorResponse
		if err := unmarshalJSON(body, &apiErr); err == nil && verbose {
			log.Printf("⚠️  Signup rejected for %s: %s", student.Email, apiErr.Detail)
		}
		return outcomeConflict
	default:
		if verbose {
			log.Printf("⚠️  Signup failed for %s: HTTP %d: %s", student.Email, resp.StatusCode, string(body))
		}
		return outcomeFailed
	}
}

// removeStudents unregisters the given students concurrently.
func removeStudents(ctx context.Context, config *Config, students []Student, stats *Stats) error {
	log.Printf("🧹 Removing %d signups with %d workers...", len(students), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var throttle progressThrottle
	reportInterval := 1 * time.Second

	// Create worker pool
	studentChan := make(chan Student, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for student := range studentChan {
				select {
				case <-ctx.Done():
					return
				default:
					atomic.AddInt64(&submitted, 1)
					if removeSingleStudent(ctx, client, config.BaseURL, student, config.Verbose) {
						atomic.AddInt64(&successful, 1)
					} else {
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if throttle.ready(reportInterval) {
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Removal progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(students), succ, fail)
						} else {
							fmt.Printf("\r🧹 Removed: %d/%d (success: %d, failed: %d)",
								total, len(students), succ, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send students to workers
	go func() {
		defer close(studentChan)
		for _, student := range students {
			select {
			case <-ctx.Done():
				return
			case studentChan <- student:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.RemovalsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RemovalsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RemovalsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Signup removal completed:
   Successful: %d
   Failed: %d
`, stats.RemovalsSuccessful, stats.RemovalsFailed)

	return nil
}

// removeSingleStudent unregisters one student and reports success.
func removeSingleStudent(ctx context.Context, client *HTTPClient, baseURL string, student Student, verbose bool) bool {
	resp, err := client.Delete(ctx, unregisterURL(baseURL, student))
	if err != nil {
		return false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return false
	}

	if resp.StatusCode != StatusOK {
		if verbose {
			log.Printf("⚠️  Removal failed for %s: HTTP %d: %s", student.Email, resp.StatusCode, string(body))
		}
		return false
	}
	return true
}
