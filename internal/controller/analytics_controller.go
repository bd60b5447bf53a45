package controller

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Stats godoc
// @Summary 学习路径统计
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   skill_path_id query int true "路径ID"
// @Success 200 {object} util.Response{data=service.Analytics}
// @Router /analytics [get]
func (c *AnalyticsController) Stats(ctx *gin.Context) {
	pathID, ok := queryID(ctx, "skill_path_id")
	if !ok {
		return
	}
	stats, err := c.AnalyticsService.Stats(pathID, currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Suggestions godoc
// @Summary 学习建议
// @Description 模型失败时 suggestions 为空列表并附带 error
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   skill_path_id query int true "路径ID"
// @Success 200 {object} util.Response{data=object}
// @Router /analytics/suggestions [get]
func (c *AnalyticsController) Suggestions(ctx *gin.Context) {
	pathID, ok := queryID(ctx, "skill_path_id")
	if !ok {
		return
	}
	out, err := c.AnalyticsService.Suggestions(ctx.Request.Context(), pathID, currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

// Dashboard godoc
// @Summary 仪表盘
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	d, err := c.AnalyticsService.Dashboard(currentUser(ctx).ID, model.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, d)
}
