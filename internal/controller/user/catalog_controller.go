package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepforge/prepforge/internal/controller"
	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/service"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// GetCategories godoc
// @Summary List active exam categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (c *CatalogController) GetCategories(ctx *gin.Context) {
	categories, err := c.catalogService.GetCategories()
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// GetExamsByCategory godoc
// @Summary List active exams in a category
// @Tags Catalog
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {array} dto.ExamSummaryResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{category_id}/exams [get]
func (c *CatalogController) GetExamsByCategory(ctx *gin.Context) {
	categoryID, err := strconv.ParseUint(ctx.Param("category_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category ID format"})
		return
	}
	exams, err := c.catalogService.GetExamsByCategory(uint(categoryID))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// GetExam godoc
// @Summary Get a single exam's public details
// @Tags Catalog
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamSummaryResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found or inactive"
// @Router /exams/{exam_id} [get]
func (c *CatalogController) GetExam(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid exam ID format"})
		return
	}
	exam, err := c.catalogService.GetExam(uint(examID))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, exam)
}
