package controller

import (
	"fmt"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// Generate godoc
// @Summary 生成学习路线
// @Description 按主题、水平、每周时间和周数生成路线，登录用户会记录到历史
// @Tags 路线
// @Accept  json
// @Produce  json
// @Param   body body service.RoadmapRequest true "生成参数"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 500 {object} util.Response "AI 生成失败"
// @Router /roadmap/generate [post]
func (c *RoadmapController) Generate(ctx *gin.Context) {
	var req service.RoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	roadmap, err := c.RoadmapService.Generate(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		respondAIError(ctx, err)
		return
	}
	util.Success(ctx, roadmap)
}

// Update godoc
// @Summary 调整剩余周的学习计划
// @Tags 路线
// @Accept  json
// @Produce  json
// @Param   body body service.UpdateRoadmapRequest true "当前进度"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "缺少必填字段"
// @Router /api/update-roadmap [post]
func (c *RoadmapController) Update(ctx *gin.Context) {
	var raw map[string]interface{}
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var missing []string
	for _, field := range []string{"currentWeek", "completedTasks", "newHoursPerWeek", "topic", "currentLevel"} {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		util.BadRequest(ctx, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
		return
	}

	var req service.UpdateRoadmapRequest
	if err := decodeMap(raw, &req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.RoadmapService.Update(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		respondAIError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}
