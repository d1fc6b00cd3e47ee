package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/secondbrain-ai/deal-intel/errors"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/calendar"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/intel"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/stt"
	"github.com/secondbrain-ai/deal-intel/pkg/taskcontext"
)

// SubmitInput is the validated request to ingest a recorded meeting
type SubmitInput struct {
	Title      string
	FromSample bool
	Profile    entities.ExtractionProfile
	AudioURL   *string
}

// Service orchestrates meeting ingestion and the async processing pipeline
type Service interface {
	// Submit validates, persists the initial record and spawns exactly one
	// background processing task. The returned record is in status
	// transcribe-generating.
	Submit(ctx context.Context, brokerID uuid.UUID, input SubmitInput) (*entities.Meeting, error)

	// Wait blocks until all in-flight background tasks finish
	Wait()
}

type service struct {
	meetingRepo repositories.MeetingRepository
	userRepo    repositories.UserRepository
	transcriber stt.Transcriber
	sample      stt.Transcriber
	resolver    intel.SpeakerResolver
	extractor   intel.Extractor
	scheduler   calendar.Scheduler
	quota       int
	taskTimeout time.Duration
	logger      *zap.Logger
	wg          sync.WaitGroup
}

// NewService constructs the pipeline orchestrator
func NewService(
	meetingRepo repositories.MeetingRepository,
	userRepo repositories.UserRepository,
	transcriber stt.Transcriber,
	sample stt.Transcriber,
	resolver intel.SpeakerResolver,
	extractor intel.Extractor,
	scheduler calendar.Scheduler,
	quota int,
	taskTimeout time.Duration,
	logger *zap.Logger,
) Service {
	if quota <= 0 {
		quota = 5
	}
	return &service{
		meetingRepo: meetingRepo,
		userRepo:    userRepo,
		transcriber: transcriber,
		sample:      sample,
		resolver:    resolver,
		extractor:   extractor,
		scheduler:   scheduler,
		quota:       quota,
		taskTimeout: taskTimeout,
		logger:      logger,
	}
}

// Submit validates the request and kicks off background processing
func (s *service) Submit(ctx context.Context, brokerID uuid.UUID, input SubmitInput) (*entities.Meeting, error) {
	if input.Title == "" {
		return nil, apperrors.ErrTitleRequired()
	}
	if !input.FromSample && (input.AudioURL == nil || *input.AudioURL == "") {
		return nil, apperrors.ErrRecordingRequired()
	}

	user, err := s.userRepo.FindByID(ctx, brokerID)
	if err != nil {
		if err == entities.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound()
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	// Quota check is race-tolerant: exceeding by one under concurrent
	// submits is acceptable.
	if !user.IsVerified() {
		count, err := s.meetingRepo.CountByBroker(ctx, brokerID)
		if err != nil {
			return nil, apperrors.ErrDBQueryFailed(err)
		}
		if count >= int64(s.quota) {
			return nil, apperrors.ErrMeetingQuotaExceeded(s.quota)
		}
	}

	meeting := entities.NewMeeting(brokerID, input.Title, input.AudioURL, input.FromSample, input.Profile)
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	s.wg.Add(1)
	go s.process(meeting)

	return meeting, nil
}

// Wait blocks until all in-flight background tasks finish
func (s *service) Wait() {
	s.wg.Wait()
}

// process runs the full pipeline for one record on a detached context.
// The record is single-writer from here on: no other goroutine touches it.
func (s *service) process(meeting *entities.Meeting) {
	defer s.wg.Done()

	ctx, cancel := taskcontext.Begin(context.Background(), meeting.ID, s.taskTimeout)
	defer cancel()

	err := taskcontext.Run(ctx, func(ctx context.Context) error {
		return s.run(ctx, meeting)
	})
	if err == nil {
		return
	}

	if s.logger != nil {
		meta := taskcontext.GetTaskMetadata(ctx)
		s.logger.Error("background processing failed for meeting",
			zap.String("meeting_id", meta.MeetingID.String()),
			zap.String("stage", meta.Stage),
			zap.Duration("elapsed", time.Since(meta.StartTime)),
			zap.Error(err),
		)
	}

	// The task context may already be dead; persist the failure on a
	// fresh one so the poller always sees a terminal status.
	persistCtx, persistCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer persistCancel()

	meeting.MarkFailed(err.Error())
	if updateErr := s.meetingRepo.Update(persistCtx, meeting); updateErr != nil && s.logger != nil {
		s.logger.Error("failed to persist failed status",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Error(updateErr),
		)
	}
}

func (s *service) run(ctx context.Context, meeting *entities.Meeting) error {
	// 1. Speech to text
	ctx = taskcontext.WithStage(ctx, "transcribe")
	transcriber := s.transcriber
	if meeting.IsSample {
		transcriber = s.sample
	}

	var audioURL string
	if meeting.AudioURL != nil {
		audioURL = *meeting.AudioURL
	}
	sttResult, err := transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return fmt.Errorf("transcription: %w", err)
	}

	meeting.MarkSpeakersGenerating()
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("persist speakers-generating: %w", err)
	}

	// 2. Speaker resolution, best effort: a usable rewrite replaces the
	// working transcript, anything else keeps the serialized entries.
	ctx = taskcontext.WithStage(ctx, "speakers")
	working := sttResult.SerializeEntries()
	if sttResult.HasDiarization() {
		resolved, err := s.resolver.Resolve(ctx, working)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("speaker resolution failed, keeping raw transcript",
					zap.String("meeting_id", meeting.ID.String()),
					zap.Error(err),
				)
			}
		} else if resolved != nil && *resolved != "" {
			working = *resolved
		}
	}

	meeting.MarkIntelligenceGenerating()
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("persist intelligence-generating: %w", err)
	}

	// 3. Intelligence extraction
	ctx = taskcontext.WithStage(ctx, "intelligence")
	payload, truncated, err := s.extractor.Extract(ctx, working, meeting.Profile)
	if err != nil {
		return fmt.Errorf("extraction: %w", err)
	}

	blob, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serialize intelligence: %w", err)
	}

	convType, score, clientName := mapProfile(payload, meeting.Profile)
	meeting.Speakers = extractSpeakers(payload)
	meeting.Complete(working, datatypes.JSON(blob), sttResult.Truncated || truncated, convType, score, clientName)
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return fmt.Errorf("persist completed: %w", err)
	}

	// 4. Follow-up scheduling never affects the pipeline result
	ctx = taskcontext.WithStage(ctx, "follow-up")
	s.scheduler.ScheduleFollowUp(ctx, meeting.BrokerID, meeting.ID, payload)

	return nil
}

// mapProfile promotes profile-dependent payload fields onto the record
func mapProfile(payload map[string]interface{}, profile entities.ExtractionProfile) (*string, *int, *string) {
	var convType, clientName string
	var score int

	switch profile {
	case entities.ProfileStrategy:
		convType = intel.StringField(payload, "purpose")
		if n, ok := intel.IntField(payload, "deal_score"); ok {
			score = n
		}
		if name := intel.StringField(payload, "client_name"); name != "" && name != "Under Evaluation" {
			clientName = name
		}
	default:
		convType = intel.StringField(payload, "conversationType")
		if n, ok := intel.IntField(payload, "dealProbabilityScore"); ok {
			score = n
		}
		for _, sp := range extractSpeakers(payload) {
			if sp.Role == "Buyer" || sp.Role == "Seller" {
				if sp.Name != "" && sp.Name != "Not mentioned" {
					clientName = sp.Name
				}
				break
			}
		}
	}

	if convType == "" {
		convType = entities.ConversationOther
	}
	score = intel.ClampScore(score)

	var namePtr *string
	if clientName != "" {
		namePtr = &clientName
	}
	return &convType, &score, namePtr
}

// extractSpeakers reads the speakers array out of a deal-profile payload
func extractSpeakers(payload map[string]interface{}) entities.SpeakerList {
	raw, ok := payload["speakers"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil
	}

	speakers := make(entities.SpeakerList, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		sp := entities.Speaker{}
		sp.ID, _ = m["id"].(string)
		sp.Role, _ = m["role"].(string)
		sp.Name, _ = m["name"].(string)
		if sp.ID == "" && sp.Role == "" {
			continue
		}
		speakers = append(speakers, sp)
	}
	if len(speakers) == 0 {
		return nil
	}
	return speakers
}
