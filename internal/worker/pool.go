package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"studymate-backend/internal/models"
	"studymate-backend/internal/repository"
	"studymate-backend/internal/services"
)

// Pool drains the background job queues. Document processing and summary
// generation are placeholder pipelines: they mark the work done and write
// deterministic content, leaving room for a real text/AI stage later.
type Pool struct {
	redis       *redis.Client
	jobRepo     *repository.JobRepo
	docRepo     *repository.DocumentRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	jobRepo *repository.JobRepo,
	docRepo *repository.DocumentRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		jobRepo:     jobRepo,
		docRepo:     docRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		"queue:document-processing",
		"queue:summary-generation",
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		var processErr error
		switch job.Type {
		case "document-processing":
			processErr = p.processDocument(ctx, &job)
		case "summary-generation":
			processErr = p.processSummary(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) processDocument(ctx context.Context, job *models.Job) error {
	doc, err := p.docRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	// Placeholder stage: the original text stands in for extraction output.
	text := ""
	if doc.OriginalText != nil {
		text = *doc.OriginalText
	}
	if text == "" {
		text = fmt.Sprintf("Processed content of %s (%s)", doc.Title, doc.DocumentType)
	}

	if err := p.docRepo.SetProcessedText(ctx, doc.ID, text); err != nil {
		return fmt.Errorf("failed to save processed text: %w", err)
	}

	log.Printf("Processed document %s (%d chars)", doc.ID, len(text))
	return nil
}

func (p *Pool) processSummary(ctx context.Context, job *models.Job) error {
	summary, err := p.docRepo.GetSummaryByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}

	doc, err := p.docRepo.GetByID(ctx, summary.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	content := fmt.Sprintf("AI-generated %s summary of %s", summary.SummaryType, doc.Title)
	wordCount := len(strings.Fields(content))

	if err := p.docRepo.UpdateSummaryContent(ctx, summary.ID, content, wordCount); err != nil {
		return fmt.Errorf("failed to save summary content: %w", err)
	}

	log.Printf("Generated %s summary %s for document %s", summary.SummaryType, summary.ID, doc.ID)
	return nil
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "completed")

	services.PublishUpdate(ctx, p.redis, job.UserID, models.WSMessage{
		Type: "job_completed",
		Payload: models.JobCompletedEvent{
			JobID:      job.ID,
			ResultID:   job.ReferenceID,
			ResultType: resultType(job.Type),
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	if job.RetryCount < job.MaxRetries {
		log.Printf("Job %s failed (attempt %d): %s, retrying", job.ID, job.RetryCount, errMsg)
		p.jobRepo.UpdateStatus(ctx, job.ID, "pending")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		// Re-queue after exponential backoff
		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), "queue:"+job.Type, string(jobBytes))
		})
		return
	}

	log.Printf("Job %s failed permanently: %s", job.ID, errMsg)
	p.jobRepo.UpdateStatus(ctx, job.ID, "failed")
	p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

	services.PublishUpdate(ctx, p.redis, job.UserID, models.WSMessage{
		Type: "job_failed",
		Payload: models.JobFailedEvent{
			JobID:        job.ID,
			ErrorMessage: errMsg,
		},
	})
}

func resultType(jobType string) string {
	switch jobType {
	case "summary-generation":
		return "summary"
	default:
		return "document"
	}
}
