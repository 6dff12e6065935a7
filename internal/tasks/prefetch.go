package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/babytube/internal/shared"
	"golang.org/x/time/rate"
)

// PrefetchOpts configures title prefetching.
type PrefetchOpts struct {
	NumWorkers int     // Concurrent lookups (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// PrefetchResult collects resolved titles and per-video failures.
type PrefetchResult struct {
	Total    int
	Resolved int
	Failed   int
	Titles   map[string]string
	Errors   map[string]error
}

type titleResult struct {
	videoID string
	title   string
	err     error
}

// PrefetchTitles resolves titles for videoIDs concurrently with rate limiting and progress tracking.
//
// Duplicate IDs are looked up once. Individual failures are recorded in the result; only a
// missing title service or a cancelled context fail the whole call.
func (e *Engine) PrefetchTitles(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	videoIDs []string,
	opts PrefetchOpts,
) (*PrefetchResult, error) {
	if e.titles == nil {
		return nil, fmt.Errorf("%w: title lookup not configured", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	ids := unique(videoIDs)
	result := &PrefetchResult{
		Total:  len(ids),
		Titles: make(map[string]string, len(ids)),
		Errors: make(map[string]error),
	}
	if len(ids) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan string)
	results := make(chan titleResult, len(ids))

	var wg sync.WaitGroup
	for range min(opts.NumWorkers, len(ids)) {
		wg.Add(1)
		go e.titleWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			result.Failed++
			result.Errors[res.videoID] = res.err
			e.logger.Warn("title lookup failed", "video_id", res.videoID, "error", res.err)
			e.sendProgress(prog, titleFailedUpdate(completed, len(ids), res.videoID, res.err))
			continue
		}
		result.Resolved++
		result.Titles[res.videoID] = res.title
		e.sendProgress(prog, titleFetchedUpdate(completed, len(ids), res.videoID, res.title))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// titleWorker resolves titles from the jobs channel until it is closed.
func (e *Engine) titleWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- titleResult,
) {
	defer wg.Done()

	for id := range jobs {
		title, err := e.titles.Title(ctx, id)
		results <- titleResult{videoID: id, title: title, err: err}
	}
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
