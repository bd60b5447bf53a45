package controller

import (
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	HistoryService *service.HistoryService
}

func NewHistoryController(historyService *service.HistoryService) *HistoryController {
	return &HistoryController{HistoryService: historyService}
}

// List godoc
// @Summary 生成历史
// @Tags 历史
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.HistoryEntry}
// @Router /api/history [get]
func (c *HistoryController) List(ctx *gin.Context) {
	entries, err := c.HistoryService.List(currentUser(ctx).ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Export godoc
// @Summary 导出历史为 CSV
// @Tags 历史
// @Produce  text/csv
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Router /api/history/export [get]
func (c *HistoryController) Export(ctx *gin.Context) {
	data, err := c.HistoryService.ExportCSV(currentUser(ctx).ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", "attachment; filename=history.csv")
	ctx.Data(http.StatusOK, util.MimeCSV, data)
}

// Clear godoc
// @Summary 清空历史
// @Tags 历史
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/history [delete]
func (c *HistoryController) Clear(ctx *gin.Context) {
	deleted, err := c.HistoryService.Clear(currentUser(ctx).ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "History cleared", "deleted": deleted})
}
