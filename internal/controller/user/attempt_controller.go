package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/middleware"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(attemptService service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: attemptService}
}

// StartAttempt godoc
// @Summary Start an attempt for an exam
// @Description Debits the exam price (unless free), freezes the served question set, and opens an IN_PROGRESS attempt.
// @Tags Attempts
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 201 {object} dto.AttemptStartResponse
// @Failure 402 {object} dto.ErrorResponse "Insufficient credits"
// @Failure 404 {object} dto.ErrorResponse "Exam not found or inactive"
// @Failure 409 {object} dto.ErrorResponse "An attempt is already in progress"
// @Router /exams/{exam_id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}
	user := middleware.CurrentUser(ctx)

	resp, err := c.attemptService.StartAttempt(user.ID, uint(examID))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SubmitAttempt godoc
// @Summary Submit answers for the caller's open attempt
// @Description Scores the frozen question snapshot and completes the attempt. A second submit fails; an attempt is scored exactly once.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param submission body dto.SubmitAttemptRequest true "Answer sheet and total time spent"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 400 {object} dto.ErrorResponse "Answer outside the served set or malformed option"
// @Failure 404 {object} dto.ErrorResponse "No active attempt"
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /exams/{exam_id}/attempts/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	user := middleware.CurrentUser(ctx)

	resp, err := c.attemptService.SubmitAttempt(user.ID, uint(examID), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMyAttempts godoc
// @Summary List the caller's attempts
// @Tags Attempts
// @Produce json
// @Success 200 {array} dto.AttemptSummaryResponse
// @Router /attempts [get]
func (c *AttemptController) GetMyAttempts(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	attempts, err := c.attemptService.GetUserAttempts(user.ID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttemptDetails godoc
// @Summary Get full details of one of the caller's attempts
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found or not owned by caller"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttemptDetails(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}
	user := middleware.CurrentUser(ctx)

	resp, err := c.attemptService.GetAttemptDetails(user.ID, uint(attemptID))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
