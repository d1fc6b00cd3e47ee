package pipeline

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/secondbrain-ai/deal-intel/errors"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/intel"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/stt"
)

// mockUserRepo serves a single broker
type mockUserRepo struct {
	user *entities.User
}

func (r *mockUserRepo) Create(ctx context.Context, user *entities.User) error { return nil }
func (r *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, entities.ErrUserNotFound
	}
	return r.user, nil
}
func (r *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (r *mockUserRepo) Update(ctx context.Context, user *entities.User) error          { return nil }
func (r *mockUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error        { return nil }
func (r *mockUserRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *mockUserRepo) MarkPhoneVerified(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error                 { return nil }

// mockMeetingRepo records every persisted status transition
type mockMeetingRepo struct {
	mu        sync.Mutex
	count     int64
	countErr  error
	updateErr error
	meeting   *entities.Meeting
	statuses  []entities.MeetingStatus
}

func (r *mockMeetingRepo) Create(ctx context.Context, meeting *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meeting = meeting
	r.statuses = append(r.statuses, meeting.Status)
	return nil
}

func (r *mockMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}
	return r.meeting, nil
}

func (r *mockMeetingRepo) FindByIDForBroker(ctx context.Context, id, brokerID uuid.UUID) (*entities.Meeting, error) {
	return r.FindByID(ctx, id)
}

func (r *mockMeetingRepo) ListByBroker(ctx context.Context, brokerID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	return nil, 0, nil
}

func (r *mockMeetingRepo) CountByBroker(ctx context.Context, brokerID uuid.UUID) (int64, error) {
	return r.count, r.countErr
}

func (r *mockMeetingRepo) Update(ctx context.Context, meeting *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.meeting = meeting
	r.statuses = append(r.statuses, meeting.Status)
	return nil
}

func (r *mockMeetingRepo) StatsByBroker(ctx context.Context, brokerID uuid.UUID) (*repositories.CRMStats, error) {
	return &repositories.CRMStats{}, nil
}

func (r *mockMeetingRepo) history() []entities.MeetingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.MeetingStatus, len(r.statuses))
	copy(out, r.statuses)
	return out
}

func (r *mockMeetingRepo) final() *entities.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meeting
}

type stubTranscriber struct {
	result *stt.Result
	err    error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioURL string) (*stt.Result, error) {
	return s.result, s.err
}

type stubResolver struct {
	resolved *string
	err      error
	gotInput string
}

func (s *stubResolver) Resolve(ctx context.Context, serializedEntries string) (*string, error) {
	s.gotInput = serializedEntries
	return s.resolved, s.err
}

type stubExtractor struct {
	payload       map[string]interface{}
	truncated     bool
	err           error
	gotTranscript string
}

func (s *stubExtractor) Extract(ctx context.Context, transcript string, profile entities.ExtractionProfile) (map[string]interface{}, bool, error) {
	s.gotTranscript = transcript
	if s.err != nil {
		return nil, false, s.err
	}
	if s.payload != nil {
		return s.payload, s.truncated, nil
	}
	return intel.MockPayload(profile), s.truncated, nil
}

type stubScheduler struct {
	mu     sync.Mutex
	called bool
}

func (s *stubScheduler) ScheduleFollowUp(ctx context.Context, brokerID, meetingID uuid.UUID, payload map[string]interface{}) *entities.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = true
	return nil
}

func verifiedBroker() *entities.User {
	u := entities.NewUser("Asha", "Desai", "asha@example.com", "hash")
	u.EmailVerified = true
	return u
}

func newTestService(users *mockUserRepo, meetings *mockMeetingRepo, transcriber stt.Transcriber, resolver intel.SpeakerResolver, extractor intel.Extractor) Service {
	return NewService(
		meetings,
		users,
		transcriber,
		stt.NewSampleTranscriber(),
		resolver,
		extractor,
		&stubScheduler{},
		5,
		time.Minute,
		zap.NewNop(),
	)
}

func submitAndWait(t *testing.T, svc Service, brokerID uuid.UUID, input SubmitInput) *entities.Meeting {
	t.Helper()
	record, err := svc.Submit(context.Background(), brokerID, input)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusTranscribeGenerating, record.Status)
	svc.Wait()
	return record
}

func TestSubmitRequiresTitle(t *testing.T) {
	svc := newTestService(&mockUserRepo{user: verifiedBroker()}, &mockMeetingRepo{}, &stubTranscriber{}, &stubResolver{}, &stubExtractor{})

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{FromSample: true})
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Equal(t, "Title is required", appErr.Message)
}

func TestSubmitRequiresRecordingUnlessSample(t *testing.T) {
	user := verifiedBroker()
	svc := newTestService(&mockUserRepo{user: user}, &mockMeetingRepo{}, &stubTranscriber{}, &stubResolver{}, &stubExtractor{})

	_, err := svc.Submit(context.Background(), user.ID, SubmitInput{Title: "Call with client"})
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, "Recording file is required when not using a sample", appErr.Message)
}

func TestSubmitQuotaForUnverifiedBroker(t *testing.T) {
	user := entities.NewUser("Ravi", "Mehta", "ravi@example.com", "hash")
	meetings := &mockMeetingRepo{count: 5}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, &stubExtractor{})

	_, err := svc.Submit(context.Background(), user.ID, SubmitInput{Title: "Sixth call", FromSample: true})
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
	assert.Contains(t, appErr.Message, "Meeting limit reached for unverified accounts")
}

func TestSubmitQuotaIgnoredForVerifiedBroker(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{count: 50}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, &stubExtractor{})

	record := submitAndWait(t, svc, user.ID, SubmitInput{Title: "Call 51", FromSample: true})
	assert.Equal(t, entities.MeetingStatusCompleted, record.Status)
}

func TestSampleModeCompletesEndToEnd(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{err: fmt.Errorf("must not run")}, &stubResolver{}, &stubExtractor{})

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Demo", FromSample: true, Profile: entities.ProfileDeal})

	final := meetings.final()
	require.NotNil(t, final)
	assert.Equal(t, entities.MeetingStatusCompleted, final.Status)
	require.NotNil(t, final.ConversationType)
	assert.Equal(t, "Buyer", *final.ConversationType)
	require.NotNil(t, final.DealProbabilityScore)
	assert.Equal(t, 65, *final.DealProbabilityScore)
	assert.Nil(t, final.ClientName)
	require.NotNil(t, final.Transcript)
	assert.NotEmpty(t, final.Intelligence)
	assert.Len(t, final.Speakers, 2)

	// Every intermediate status was persisted, in order
	assert.Equal(t, []entities.MeetingStatus{
		entities.MeetingStatusTranscribeGenerating,
		entities.MeetingStatusSpeakersGenerating,
		entities.MeetingStatusIntelligenceGenerating,
		entities.MeetingStatusCompleted,
	}, meetings.history())
}

func TestTranscriptionFailureMarksFailed(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	audioURL := "http://storage/audio.mp3"
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{err: fmt.Errorf("vendor down")}, &stubResolver{}, &stubExtractor{})

	record, err := svc.Submit(context.Background(), user.ID, SubmitInput{Title: "Call", AudioURL: &audioURL})
	require.NoError(t, err)
	svc.Wait()

	final := meetings.final()
	require.NotNil(t, final)
	assert.Equal(t, record.ID, final.ID)
	assert.Equal(t, entities.MeetingStatusFailed, final.Status)
	require.NotNil(t, final.LastError)
	assert.Contains(t, *final.LastError, "vendor down")

	// No intelligence fields written after failure
	assert.Nil(t, final.ConversationType)
	assert.Nil(t, final.DealProbabilityScore)
	assert.Empty(t, final.Intelligence)
}

func TestResolverErrorKeepsWorkingTranscript(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	extractor := &stubExtractor{}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{err: fmt.Errorf("llm down")}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Demo", FromSample: true})

	final := meetings.final()
	require.NotNil(t, final)
	assert.Equal(t, entities.MeetingStatusCompleted, final.Status)

	// Extraction saw the raw serialized entries
	assert.True(t, strings.HasPrefix(extractor.gotTranscript, "["), "expected serialized entries, got %q", extractor.gotTranscript)
}

func TestResolverRewriteReplacesTranscript(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	rewritten := "Rahul (Client): Looking for a 3BHK."
	extractor := &stubExtractor{}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{resolved: &rewritten}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Demo", FromSample: true})

	assert.Equal(t, rewritten, extractor.gotTranscript)
	final := meetings.final()
	require.NotNil(t, final.Transcript)
	assert.Equal(t, rewritten, *final.Transcript)
}

func TestScoreIsClamped(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	extractor := &stubExtractor{payload: map[string]interface{}{
		"conversationType":     "Seller",
		"dealProbabilityScore": float64(140),
	}}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Demo", FromSample: true})

	final := meetings.final()
	require.NotNil(t, final.DealProbabilityScore)
	assert.Equal(t, 100, *final.DealProbabilityScore)
	require.NotNil(t, final.ConversationType)
	assert.Equal(t, "Seller", *final.ConversationType)
}

func TestMissingConversationTypeDefaultsToGeneral(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	extractor := &stubExtractor{payload: map[string]interface{}{}}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Demo", FromSample: true})

	final := meetings.final()
	require.NotNil(t, final.ConversationType)
	assert.Equal(t, "General", *final.ConversationType)
	require.NotNil(t, final.DealProbabilityScore)
	assert.Equal(t, 0, *final.DealProbabilityScore)
}

func TestTruncatedTranscriptSetsLongTranscript(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	audioURL := "http://storage/audio.mp3"
	transcriber := &stubTranscriber{result: &stt.Result{Text: "capped transcript", Truncated: true}}
	svc := newTestService(&mockUserRepo{user: user}, meetings, transcriber, &stubResolver{}, &stubExtractor{})

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Long call", AudioURL: &audioURL})

	final := meetings.final()
	assert.Equal(t, entities.MeetingStatusCompleted, final.Status)
	assert.True(t, final.LongTranscript)
}

func TestStrategyProfileMapping(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	extractor := &stubExtractor{payload: map[string]interface{}{
		"purpose":     "Residential purchase",
		"deal_score":  float64(82),
		"client_name": "Rahul Sharma",
	}}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Strategy call", FromSample: true, Profile: entities.ProfileStrategy})

	final := meetings.final()
	require.NotNil(t, final.ConversationType)
	assert.Equal(t, "Residential purchase", *final.ConversationType)
	require.NotNil(t, final.DealProbabilityScore)
	assert.Equal(t, 82, *final.DealProbabilityScore)
	require.NotNil(t, final.ClientName)
	assert.Equal(t, "Rahul Sharma", *final.ClientName)
}

func TestStrategySentinelClientNameStaysNil(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	extractor := &stubExtractor{payload: map[string]interface{}{
		"purpose":     "Residential purchase",
		"deal_score":  float64(40),
		"client_name": "Under Evaluation",
	}}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Strategy call", FromSample: true, Profile: entities.ProfileStrategy})

	assert.Nil(t, meetings.final().ClientName)
}

func TestDealProfileClientNameFromSpeakers(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{}
	extractor := &stubExtractor{payload: map[string]interface{}{
		"conversationType":     "Buyer",
		"dealProbabilityScore": float64(70),
		"speakers": []interface{}{
			map[string]interface{}{"id": "Speaker 0", "role": "Broker", "name": "Asha"},
			map[string]interface{}{"id": "Speaker 1", "role": "Buyer", "name": "Rahul Sharma"},
		},
	}}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, extractor)

	submitAndWait(t, svc, user.ID, SubmitInput{Title: "Buyer call", FromSample: true})

	final := meetings.final()
	require.NotNil(t, final.ClientName)
	assert.Equal(t, "Rahul Sharma", *final.ClientName)
	assert.Len(t, final.Speakers, 2)
}

func TestPersistFailureAfterStageFailsPipeline(t *testing.T) {
	user := verifiedBroker()
	meetings := &mockMeetingRepo{updateErr: fmt.Errorf("db down")}
	svc := newTestService(&mockUserRepo{user: user}, meetings, &stubTranscriber{}, &stubResolver{}, &stubExtractor{})

	record, err := svc.Submit(context.Background(), user.ID, SubmitInput{Title: "Demo", FromSample: true})
	require.NoError(t, err)
	svc.Wait()

	// Terminal failure could not be persisted either, but the in-memory
	// record must still be terminal.
	assert.Equal(t, entities.MeetingStatusFailed, record.Status)
}
