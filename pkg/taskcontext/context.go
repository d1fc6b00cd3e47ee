package taskcontext

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyMeetingID = KeyContext("meeting_id")
	keyStage     = KeyContext("pipeline_stage")
	keyStartTime = KeyContext("task_start_time")
)

// DefaultTimeout bounds a full pipeline run when no explicit timeout is configured.
const DefaultTimeout = 10 * time.Minute

// TaskMetadata holds metadata for a pipeline task execution
type TaskMetadata struct {
	MeetingID uuid.UUID
	Stage     string
	StartTime time.Time
}

// stageMarker is mutated in place by WithStage so a caller holding the
// original task context can still read the last stage reached after the
// task function returns.
type stageMarker struct {
	mu    sync.Mutex
	stage string
}

func (m *stageMarker) set(stage string) {
	m.mu.Lock()
	m.stage = stage
	m.mu.Unlock()
}

func (m *stageMarker) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// Begin initializes a task context with metadata and timeout
func Begin(parentCtx context.Context, meetingID uuid.UUID, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())
	ctx = context.WithValue(ctx, keyStage, &stageMarker{})

	return ctx, cancel
}

// WithStage tags the context with the current pipeline stage
func WithStage(ctx context.Context, stage string) context.Context {
	if marker, ok := ctx.Value(keyStage).(*stageMarker); ok {
		marker.set(stage)
		return ctx
	}
	return context.WithValue(ctx, keyStage, &stageMarker{stage: stage})
}

// Run executes the task function with panic recovery.
// A panic inside the task surfaces as an error instead of killing the process.
func Run(ctx context.Context, taskFunc func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before task execution: %w", ctx.Err())
	}

	return taskFunc(ctx)
}

// GetMeetingID extracts the meeting ID from context
func GetMeetingID(ctx context.Context) (uuid.UUID, bool) {
	meetingID, ok := ctx.Value(keyMeetingID).(uuid.UUID)
	return meetingID, ok
}

// GetStage extracts the current pipeline stage from context
func GetStage(ctx context.Context) (string, bool) {
	marker, ok := ctx.Value(keyStage).(*stageMarker)
	if !ok {
		return "", false
	}
	stage := marker.get()
	return stage, stage != ""
}

// GetStartTime extracts the task start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetTaskMetadata extracts all task metadata from context
func GetTaskMetadata(ctx context.Context) *TaskMetadata {
	meetingID, _ := GetMeetingID(ctx)
	stage, _ := GetStage(ctx)
	startTime, _ := GetStartTime(ctx)

	return &TaskMetadata{
		MeetingID: meetingID,
		Stage:     stage,
		StartTime: startTime,
	}
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, timeouts, rate limits
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
