package controller

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// swagger:model ProgressEntryRequest
type ProgressEntryRequest struct {
	UserID               uint        `json:"user_id"`
	SkillPathID          uint        `json:"skill_path_id" binding:"required"`
	HoursSpent           int         `json:"hours_spent" binding:"min=0"`
	TopicsCovered        []string    `json:"topics_covered"`
	Notes                string      `json:"notes"`
	CompletionPercentage int         `json:"completion_percentage" binding:"min=0,max=100"`
	Date                 *model.Date `json:"date"`
}

// Add godoc
// @Summary 记录学习进度
// @Description hours_spent 会累加到路径的 total_hours_spent
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ProgressEntryRequest true "进度"
// @Success 201 {object} util.Response{data=model.ProgressEntry}
// @Router /api/progress-entry [post]
func (c *ProgressController) Add(ctx *gin.Context) {
	var req ProgressEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	userID, ok := ownBodyUser(ctx, req.UserID)
	if !ok {
		return
	}

	entry, err := c.ProgressService.Add(userID, req.SkillPathID, service.ProgressInput{
		HoursSpent:           req.HoursSpent,
		TopicsCovered:        req.TopicsCovered,
		Notes:                req.Notes,
		CompletionPercentage: req.CompletionPercentage,
		Date:                 req.Date,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, entry)
}

// List godoc
// @Summary 路径进度记录
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Param   skill_path_id path int true "路径ID"
// @Success 200 {object} util.Response{data=[]model.ProgressEntry}
// @Router /api/progress/{user_id}/{skill_path_id} [get]
func (c *ProgressController) List(ctx *gin.Context) {
	userID, ok := ownUserParam(ctx)
	if !ok {
		return
	}
	pathID, ok := paramID(ctx, "skill_path_id")
	if !ok {
		return
	}

	entries, err := c.ProgressService.List(userID, pathID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
