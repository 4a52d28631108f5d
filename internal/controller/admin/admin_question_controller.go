package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/service"
)

type AdminQuestionController struct {
	questionService service.AdminQuestionService
}

func NewAdminQuestionController(questionService service.AdminQuestionService) *AdminQuestionController {
	return &AdminQuestionController{questionService: questionService}
}

// CreateQuestion godoc
// @Summary (Admin) Add a question to the bank
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.QuestionCreateDTO true "Question"
// @Success 201 {object} model.Question
// @Router /admin/questions [post]
func (c *AdminQuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	question, err := c.questionService.CreateQuestion(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// ListQuestions godoc
// @Summary (Admin) List bank questions, optionally by subject
// @Tags Admin - Questions
// @Produce json
// @Param subject query string false "Subject filter"
// @Success 200 {array} model.Question
// @Router /admin/questions [get]
func (c *AdminQuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.questionService.ListQuestions(ctx.Query("subject"))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary (Admin) Get one question
// @Tags Admin - Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} model.Question
// @Router /admin/questions/{question_id} [get]
func (c *AdminQuestionController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	question, err := c.questionService.GetQuestion(uint(id))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Question"
// @Success 200 {object} model.Question
// @Router /admin/questions/{question_id} [put]
func (c *AdminQuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	question, err := c.questionService.UpdateQuestion(uint(id), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Questions
// @Param question_id path int true "Question ID"
// @Success 204
// @Router /admin/questions/{question_id} [delete]
func (c *AdminQuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	if err := c.questionService.DeleteQuestion(uint(id)); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
