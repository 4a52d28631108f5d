package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminExamController struct {
	adminExamService service.AdminExamService
}

func NewAdminExamController(adminExamService service.AdminExamService) *AdminExamController {
	return &AdminExamController{adminExamService: adminExamService}
}

// CreateCategory godoc
// @Summary (Admin) Create an exam category
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param category body dto.CategoryCreateDTO true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 409 {object} dto.ErrorResponse "Name already taken"
// @Router /admin/categories [post]
func (c *AdminExamController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.adminExamService.CreateCategory(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListCategories godoc
// @Summary (Admin) List all categories including inactive
// @Tags Admin - Catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /admin/categories [get]
func (c *AdminExamController) ListCategories(ctx *gin.Context) {
	resp, err := c.adminExamService.ListCategories()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateCategory godoc
// @Summary (Admin) Update a category
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param category body dto.CategoryCreateDTO true "Category"
// @Success 200 {object} dto.CategoryResponse
// @Router /admin/categories/{category_id} [put]
func (c *AdminExamController) UpdateCategory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("category_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category ID format"})
		return
	}
	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.adminExamService.UpdateCategory(uint(id), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary (Admin) Delete a category
// @Tags Admin - Catalog
// @Param category_id path int true "Category ID"
// @Success 204
// @Router /admin/categories/{category_id} [delete]
func (c *AdminExamController) DeleteCategory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("category_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category ID format"})
		return
	}
	if err := c.adminExamService.DeleteCategory(uint(id)); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateExam godoc
// @Summary (Admin) Create an exam with its marking scheme
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param exam body dto.ExamCreateDTO true "Exam and scheme rows"
// @Success 201 {object} dto.ExamSummaryResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown question or duplicate scheme row"
// @Router /admin/exams [post]
func (c *AdminExamController) CreateExam(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateExam: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.adminExamService.CreateExam(req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateExam godoc
// @Summary (Admin) Update exam metadata
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param exam body dto.ExamCreateDTO true "Exam metadata"
// @Success 200 {object} dto.ExamSummaryResponse
// @Router /admin/exams/{exam_id} [put]
func (c *AdminExamController) UpdateExam(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.adminExamService.UpdateExam(uint(id), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteExam godoc
// @Summary (Admin) Delete an exam
// @Tags Admin - Catalog
// @Param exam_id path int true "Exam ID"
// @Success 204
// @Router /admin/exams/{exam_id} [delete]
func (c *AdminExamController) DeleteExam(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}
	if err := c.adminExamService.DeleteExam(uint(id)); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestionToExam godoc
// @Summary (Admin) Add a scheme row to an exam
// @Description In-flight attempts keep their frozen snapshot; the new question only reaches attempts started afterwards.
// @Tags Admin - Catalog
// @Accept json
// @Param exam_id path int true "Exam ID"
// @Param row body dto.SchemeRowDTO true "Scheme row"
// @Success 204
// @Router /admin/exams/{exam_id}/questions [post]
func (c *AdminExamController) AddQuestionToExam(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}
	var req dto.SchemeRowDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if err := c.adminExamService.AddQuestionToExam(uint(id), req); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// RemoveQuestionFromExam godoc
// @Summary (Admin) Remove a scheme row from an exam
// @Tags Admin - Catalog
// @Param exam_id path int true "Exam ID"
// @Param question_id path int true "Question ID"
// @Success 204
// @Router /admin/exams/{exam_id}/questions/{question_id} [delete]
func (c *AdminExamController) RemoveQuestionFromExam(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}
	questionID, err := strconv.ParseUint(ctx.Param("question_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}
	if err := c.adminExamService.RemoveQuestionFromExam(uint(examID), uint(questionID)); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
