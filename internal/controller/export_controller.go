package controller

import (
	"fmt"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService *service.ExportService
}

func NewExportController(exportService *service.ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

// Export godoc
// @Summary 导出学习路线
// @Tags 导出
// @Produce  application/pdf
// @Produce  text/csv
// @Security ApiKeyAuth
// @Param   skill_path_id query int true "路径ID"
// @Param   format query string false "csv 或 pdf（默认）"
// @Success 200 {file} file
// @Router /export [get]
func (c *ExportController) Export(ctx *gin.Context) {
	pathID, ok := queryID(ctx, "skill_path_id")
	if !ok {
		return
	}
	format := ctx.DefaultQuery("format", util.ExportPDF)

	file, err := c.ExportService.Export(ctx.Request.Context(), pathID, currentUser(ctx).ID, format)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
