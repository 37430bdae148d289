package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"studymate-backend/internal/models"
	"studymate-backend/internal/repository"
)

// JobService creates job rows and pushes them onto the matching Redis queue.
// Workers BLPOP the queues; clients watch progress over the websocket channel.
type JobService struct {
	jobRepo *repository.JobRepo
	redis   *redis.Client
}

func NewJobService(jobRepo *repository.JobRepo, redisClient *redis.Client) *JobService {
	return &JobService{jobRepo: jobRepo, redis: redisClient}
}

func (s *JobService) Enqueue(ctx context.Context, userID uuid.UUID, jobType string, referenceID uuid.UUID) (*models.Job, error) {
	job := &models.Job{
		UserID:      userID,
		Type:        jobType,
		ReferenceID: referenceID,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := s.redis.LPush(ctx, "queue:"+jobType, string(payload)).Err(); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}
	return job, nil
}

func (s *JobService) Get(ctx context.Context, userID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Job not found"}
		}
		return nil, err
	}
	if job.UserID != userID {
		return nil, &NotOwnedError{Message: "Job not found"}
	}
	return job, nil
}

// PublishUpdate pushes a websocket message to every live connection the user
// holds, via the per-user Redis pub/sub channel.
func PublishUpdate(ctx context.Context, redisClient *redis.Client, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	redisClient.Publish(ctx, "user_updates:"+userID.String(), string(data))
}
