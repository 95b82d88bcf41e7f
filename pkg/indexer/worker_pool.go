package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/msgscan/msgscan/pkg/extractor"
	"github.com/msgscan/msgscan/pkg/util"
)

// FileJob represents a file queued for extraction.
type FileJob struct {
	FilePath string
	JobID    int
}

// JobResult carries one file's extraction outcome back from a worker.
type JobResult struct {
	Messages *FileMessages
	JobID    int
}

// WorkerPool manages a pool of goroutines for parallel file extraction.
//
// **Architecture:**
//   - Buffered channels for job distribution
//   - Separate result and error channels
//   - One extractor per worker: extraction keeps per-run state, so workers
//     never share an extractor instance
//
// **Usage:**
//
//	pool := NewWorkerPool(numWorkers, processor, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	for _, file := range files {
//	    pool.Submit(FileJob{FilePath: file})
//	}
//	pool.FinishSubmitting()
//
//	// Collect from pool.Results() / pool.Errors(), then pool.Wait()
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan JobResult
	errors     chan FileError
	wg         sync.WaitGroup
	processor  *Processor
	logger     *slog.Logger

	// Lifecycle management
	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	// Statistics
	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a new worker pool.
//
// numWorkers 0 auto-detects via util.GetOptimalPoolSize().
//
// **CRITICAL:** Worker count MUST NOT exceed the tokenizer's parser pool
// size, or workers block waiting for parsers. Using util.GetOptimalPoolSize()
// for both keeps them in sync.
func NewWorkerPool(numWorkers int, processor *Processor, logger *slog.Logger) *WorkerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2), // Buffered for smooth pipeline
		results:    make(chan JobResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		processor:  processor,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns all worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("WorkerPool already started")
		return
	}

	wp.logger.Info("Starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker drains the jobs channel until it closes or the pool is cancelled.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	ext, err := wp.processor.newExtractor()
	if err != nil {
		// Pattern config was validated in NewProcessor; this only fires if
		// the config was mutated since. Fail every job this worker would
		// have taken rather than hang the pipeline.
		wp.logger.Error("Worker failed to build extractor", "worker_id", id, "error", err)
		for job := range wp.jobs {
			wp.jobsFailed.Add(1)
			wp.errors <- FileError{FilePath: job.FilePath, Error: err}
		}
		return
	}

	wp.logger.Debug("Worker started", "worker_id", id)

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("Worker cancelled", "worker_id", id)
			return

		case job, ok := <-wp.jobs:
			if !ok {
				wp.logger.Debug("Worker exiting (jobs closed)", "worker_id", id)
				return
			}

			wp.processJob(id, ext, job)
		}
	}
}

// processJob runs one file through the worker's extractor.
func (wp *WorkerPool) processJob(workerID int, ext *extractor.Extractor, job FileJob) {
	wp.logger.Debug("Processing job", "worker_id", workerID, "file", job.FilePath, "job_id", job.JobID)

	fm, err := wp.processor.process(ext, job.FilePath)
	if err != nil {
		wp.logger.Debug("Job failed", "worker_id", workerID, "file", job.FilePath, "error", err)
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{
			FilePath: job.FilePath,
			Error:    err,
		}
		return
	}

	wp.jobsProcessed.Add(1)
	wp.results <- JobResult{
		Messages: fm,
		JobID:    job.JobID,
	}
}

// Submit enqueues a job. Safe for concurrent use; blocks when the queue is
// full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan JobResult {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers drain and exit.
// Idempotent; call after the last Submit and before Wait.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
		wp.logger.Debug("Jobs channel closed", "total_submitted", wp.jobsSubmitted.Load())
	}
}

// Wait blocks until all workers have finished. Call after FinishSubmitting.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop gracefully shuts down the pool: closes the jobs channel if still
// open, waits for in-flight jobs, then closes the result and error channels.
// Idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}

	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)

	wp.cancel()

	wp.logger.Info("Worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
		ResultsQueued: len(wp.results),
		ErrorsQueued:  len(wp.errors),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
	ResultsQueued int
	ErrorsQueued  int
}
