package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/secondbrain-ai/deal-intel/errors"
	meetingDTO "github.com/secondbrain-ai/deal-intel/internal/adapter/dto/meeting"
	"github.com/secondbrain-ai/deal-intel/internal/adapter/presenter"
	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/http/middleware"
	"github.com/secondbrain-ai/deal-intel/internal/infrastructure/storage"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/meeting"
	"github.com/secondbrain-ai/deal-intel/internal/usecase/pipeline"
)

const defaultPageSize = 20

// Meeting handles deal-intelligence record HTTP requests
type Meeting struct {
	pipeline pipeline.Service
	meetings meeting.Service
	storage  *storage.MinIOClient
	logger   *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(pipelineService pipeline.Service, meetingService meeting.Service, storageClient *storage.MinIOClient, logger *zap.Logger) *Meeting {
	return &Meeting{
		pipeline: pipelineService,
		meetings: meetingService,
		storage:  storageClient,
		logger:   logger,
	}
}

// Create submits a recorded conversation for processing
// @Summary      Submit conversation
// @Description  Uploads a recording (or selects the sample) and starts async processing
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title      formData  string  true   "Meeting title"
// @Param        fromSample formData  bool    false  "Use the built-in sample conversation"
// @Param        usePrompt  formData  string  false  "Extraction profile: deal or strategy"
// @Param        recording  formData  file    false  "Audio recording"
// @Success      201  {object}  meetingDTO.MeetingResponse  "Record in status transcribe-generating"
// @Failure      400  {object}  common.ErrorResponse  "Title or recording missing"
// @Failure      401  {object}  common.ErrorResponse
// @Failure      403  {object}  common.ErrorResponse  "Meeting limit reached for unverified accounts"
// @Router       /meetings [post]
func (h *Meeting) Create(c echo.Context) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req meetingDTO.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	profile := entities.ExtractionProfile(req.UsePrompt)
	if profile == "" {
		profile = entities.ProfileDeal
	}

	input := pipeline.SubmitInput{
		Title:      req.Title,
		FromSample: req.FromSample,
		Profile:    profile,
	}

	if !req.FromSample {
		file, err := c.FormFile("recording")
		if err == nil && file != nil {
			src, err := file.Open()
			if err != nil {
				return HandleError(h.logger, c, errors.ErrStorageFailed("open upload", err))
			}
			defer src.Close()

			contentType := file.Header.Get("Content-Type")
			_, audioURL, err := h.storage.UploadRecording(c.Request().Context(), brokerID, file.Filename, src, file.Size, contentType)
			if err != nil {
				return HandleError(h.logger, c, errors.ErrStorageFailed("upload recording", err))
			}
			input.AudioURL = &audioURL
		}
	}

	record, err := h.pipeline.Submit(c.Request().Context(), brokerID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToMeetingResponse(record))
}

// List returns the caller's records
// @Summary      List meetings
// @Description  Lists the caller's records with search, status and type filters
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Matches title, client name or transcript"
// @Param        status    query     string  false  "Pipeline status"
// @Param        type      query     string  false  "Conversation type"
// @Param        sortBy    query     string  false  "created_at or deal_probability_score"
// @Param        order     query     string  false  "asc or desc"
// @Success      200  {object}  meetingDTO.ListMeetingsResponse
// @Failure      401  {object}  common.ErrorResponse
// @Router       /meetings [get]
func (h *Meeting) List(c echo.Context) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req meetingDTO.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}

	filters := repositories.MeetingFilters{
		Search:           req.Search,
		Status:           entities.MeetingStatus(req.Status),
		ConversationType: req.Type,
		SortBy:           req.SortBy,
		SortDesc:         req.Order != "asc",
		Limit:            req.PageSize,
		Offset:           (req.Page - 1) * req.PageSize,
	}

	records, total, err := h.meetings.List(c.Request().Context(), brokerID, filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingListResponse(records, total, req.Page, req.PageSize))
}

// Get returns a single record owned by the caller
// @Summary      Get meeting
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meetingDTO.MeetingResponse
// @Failure      400  {object}  common.ErrorResponse  "Invalid meeting ID format"
// @Failure      404  {object}  common.ErrorResponse  "Meeting not found"
// @Router       /meetings/get/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	record, err := h.meetings.Get(c.Request().Context(), brokerID, c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToMeetingResponse(record))
}

// Stats returns CRM aggregates over the caller's completed records
// @Summary      CRM stats
// @Description  Aggregates completed records: totals, buyers, sellers, high-probability deals
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  repositories.CRMStats
// @Failure      401  {object}  common.ErrorResponse
// @Router       /meetings/stats [get]
func (h *Meeting) Stats(c echo.Context) error {
	brokerID, ok := middleware.GetBrokerID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	stats, err := h.meetings.Stats(c.Request().Context(), brokerID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, stats)
}
