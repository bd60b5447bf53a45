package controller

import (
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TimeTrackingController struct {
	TimeTrackingService *service.TimeTrackingService
}

func NewTimeTrackingController(timeTrackingService *service.TimeTrackingService) *TimeTrackingController {
	return &TimeTrackingController{TimeTrackingService: timeTrackingService}
}

// swagger:model StartSessionRequest
type StartSessionRequest struct {
	UserID       uint   `json:"user_id"`
	SkillPathID  uint   `json:"skill_path_id" binding:"required"`
	ActivityType string `json:"activity_type" binding:"max=32"`
	Notes        string `json:"notes"`
}

// Start godoc
// @Summary 开始计时
// @Description activity_type 缺省为 study
// @Tags 计时
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartSessionRequest true "路径与活动类型"
// @Success 201 {object} util.Response{data=model.TimeTracking}
// @Router /api/time-tracking/start [post]
func (c *TimeTrackingController) Start(ctx *gin.Context) {
	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	userID, ok := ownBodyUser(ctx, req.UserID)
	if !ok {
		return
	}

	session, err := c.TimeTrackingService.Start(userID, req.SkillPathID, req.ActivityType, req.Notes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// End godoc
// @Summary 结束计时
// @Tags 计时
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "计时ID"
// @Success 200 {object} util.Response{data=model.TimeTracking}
// @Failure 404 {object} util.Response "不存在或已结束"
// @Router /api/time-tracking/{id}/end [put]
func (c *TimeTrackingController) End(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	session, err := c.TimeTrackingService.End(id, currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// List godoc
// @Summary 计时记录
// @Tags 计时
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Param   skill_path_id query int false "路径ID"
// @Success 200 {object} util.Response{data=[]model.TimeTracking}
// @Router /api/time-tracking/{user_id} [get]
func (c *TimeTrackingController) List(ctx *gin.Context) {
	userID, ok := ownUserParam(ctx)
	if !ok {
		return
	}
	var pathID uint
	if ctx.Query("skill_path_id") != "" {
		if pathID, ok = queryID(ctx, "skill_path_id"); !ok {
			return
		}
	}

	sessions, err := c.TimeTrackingService.List(userID, pathID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}
