package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
)

// ReportSink accepts completed reports for archival.
type ReportSink interface {
	Enqueue(report *models.InterviewReport)
}

// ReportWorker persists completed reports in the background so the database
// never sits on the request path.
type ReportWorker interface {
	ReportSink
	Start(ctx context.Context)
	Stop()
}

type reportWorker struct {
	reportRepo  repositories.ReportRepository
	jobQueue    chan *models.InterviewReport
	concurrency int
	maxAttempts int
	retryDelay  time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once

	// mu orders Enqueue against Stop so nothing is sent after the drain.
	mu      sync.Mutex
	stopped bool
}

func NewReportWorker(
	reportRepo repositories.ReportRepository,
	concurrency int,
	maxAttempts int,
	retryDelay time.Duration,
) ReportWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &reportWorker{
		reportRepo:  reportRepo,
		jobQueue:    make(chan *models.InterviewReport, 100),
		concurrency: concurrency,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		stopChan:    make(chan struct{}),
	}
}

// Start implements ReportWorker.
func (w *reportWorker) Start(ctx context.Context) {
	log.Printf("🚀 Starting report worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements ReportWorker. Reports already queued are saved before it returns.
func (w *reportWorker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping report worker...")
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		close(w.stopChan)
		w.wg.Wait()

		for left := len(w.jobQueue); left > 0; left-- {
			report := <-w.jobQueue
			log.Printf("⚠️  Report %s was never archived\n", report.SessionID)
		}
		log.Println("✅ Report worker stopped")
	})
}

// Enqueue implements ReportSink. It never blocks: a full queue drops the report.
func (w *reportWorker) Enqueue(report *models.InterviewReport) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		log.Printf("⚠️  Worker stopped, cannot archive report %s\n", report.SessionID)
		return
	}

	select {
	case w.jobQueue <- report:
		log.Printf("📥 Report %s enqueued\n", report.SessionID)
	default:
		log.Printf("⚠️  Report queue full, dropping report %s\n", report.SessionID)
	}
}

func (w *reportWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.drain(workerID)
			return
		case report := <-w.jobQueue:
			w.save(ctx, workerID, report)
		}
	}
}

func (w *reportWorker) drain(workerID int) {
	for {
		select {
		case report := <-w.jobQueue:
			w.save(context.Background(), workerID, report)
		default:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		}
	}
}

func (w *reportWorker) save(ctx context.Context, workerID int, report *models.InterviewReport) {
	delay := w.retryDelay

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.reportRepo.Save(report)
		if err == nil {
			log.Printf("✅ Worker #%d archived report %s\n", workerID, report.SessionID)
			return
		}

		log.Printf("❌ Worker #%d failed to archive report %s (attempt %d/%d): %v\n",
			workerID, report.SessionID, attempt, w.maxAttempts, err)

		if attempt == w.maxAttempts {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
	}
}
