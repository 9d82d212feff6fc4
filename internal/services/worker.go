package services

import (
	"context"
	"log"
	"sync"
)

// Worker runs queued submissions through the analyzer. Each submission is
// processed by exactly one goroutine, so no two stages of the same run ever
// overlap; concurrency only exists across distinct submissions.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(sub *Submission) bool
}

type worker struct {
	analyzer    AnalyzerService
	tracker     *StatusTracker
	jobQueue    chan *Submission
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(analyzer AnalyzerService, tracker *StatusTracker, concurrency int) Worker {
	return &worker{
		analyzer:    analyzer,
		tracker:     tracker,
		jobQueue:    make(chan *Submission, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting %d analysis workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping workers...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Workers stopped")
}

// Enqueue implements Worker. It reports false when the worker is shutting
// down or the queue is full.
func (w *worker) Enqueue(sub *Submission) bool {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue submission %s\n", sub.ID)
		return false
	default:
	}

	select {
	case w.jobQueue <- sub:
		log.Printf("📥 Submission %s enqueued\n", sub.ID)
		return true
	default:
		log.Printf("⚠️  Queue full, rejecting submission %s\n", sub.ID)
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case sub := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing submission %s\n", workerID, sub.ID)
			if _, err := w.analyzer.Analyze(ctx, sub); err != nil {
				log.Printf("❌ Worker #%d failed submission %s: %v\n", workerID, sub.ID, err)
				w.tracker.Finish(sub.ID, true)
			} else {
				w.tracker.Finish(sub.ID, false)
			}
		}
	}
}
