package controller

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
	HistoryService  *service.HistoryService
}

func NewResourceController(resourceService *service.ResourceService, historyService *service.HistoryService) *ResourceController {
	return &ResourceController{ResourceService: resourceService, HistoryService: historyService}
}

// swagger:model ResourceRequest
type ResourceRequest struct {
	Topic           string `json:"topic"`
	DifficultyLevel string `json:"difficultyLevel"`
}

// List godoc
// @Summary 资源推荐
// @Tags 资源
// @Produce  json
// @Param   topic query string false "主题"
// @Success 200 {object} util.Response{data=object}
// @Router /resources [get]
func (c *ResourceController) List(ctx *gin.Context) {
	util.Success(ctx, c.ResourceService.List(ctx.Request.Context(), ctx.Query("topic")))
}

// Categorized godoc
// @Summary 分类资源推荐
// @Description 返回 videos、video_tutorials、articles、courses、online_courses、books、tools 七类列表
// @Tags 资源
// @Accept  json
// @Produce  json
// @Param   body body ResourceRequest true "主题与难度"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response{data=object}
// @Router /api/get-resources [post]
func (c *ResourceController) Categorized(ctx *gin.Context) {
	var req ResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		out := service.EmptyCategorized()
		out["error"] = "Missing required field: topic"
		util.ErrorWithData(ctx, http.StatusBadRequest, "Missing required field: topic", out)
		return
	}

	out := c.ResourceService.Categorized(ctx.Request.Context(), req.Topic, req.DifficultyLevel)
	if _, failed := out["error"]; !failed {
		c.HistoryService.Record(currentUserID(ctx), model.HistoryResources, req, out)
	}
	util.Success(ctx, out)
}
