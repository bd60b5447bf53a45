package controller

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlannerController struct {
	PlannerService *service.PlannerService
}

func NewPlannerController(plannerService *service.PlannerService) *PlannerController {
	return &PlannerController{PlannerService: plannerService}
}

// swagger:model CreateTaskRequest
type CreateTaskRequest struct {
	SkillPathID uint        `json:"skill_path_id" binding:"required"`
	Week        int         `json:"week" binding:"required"`
	Description string      `json:"description" binding:"required"`
	DueDate     *model.Date `json:"due_date"`
}

// swagger:model PatchTaskRequest
type PatchTaskRequest struct {
	Description   *string     `json:"description"`
	Status        *string     `json:"status"`
	DueDate       *model.Date `json:"due_date"`
	RescheduledTo *model.Date `json:"rescheduled_to"`
}

// swagger:model ShiftPendingRequest
type ShiftPendingRequest struct {
	SkillPathID uint `json:"skill_path_id" binding:"required"`
	Week        int  `json:"week" binding:"required,min=1"`
}

// swagger:model RegenerateWeekRequest
type RegenerateWeekRequest struct {
	SkillPathID uint   `json:"skill_path_id" binding:"required"`
	Week        int    `json:"week" binding:"required"`
	Mode        string `json:"mode" binding:"required"`
}

// List godoc
// @Summary 学习路径的计划任务
// @Tags 计划
// @Produce  json
// @Security ApiKeyAuth
// @Param   skill_path_id query int true "路径ID"
// @Success 200 {object} util.Response{data=[]model.PlannerTask}
// @Router /planner [get]
func (c *PlannerController) List(ctx *gin.Context) {
	pathID, ok := queryID(ctx, "skill_path_id")
	if !ok {
		return
	}
	tasks, err := c.PlannerService.List(pathID, currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// Week godoc
// @Summary 按 ISO 周序号查询任务
// @Description 返回 week 字段等于 date 所在 ISO 周序号的任务
// @Tags 计划
// @Produce  json
// @Security ApiKeyAuth
// @Param   date query string true "YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.PlannerTask}
// @Router /planner/week [get]
func (c *PlannerController) Week(ctx *gin.Context) {
	if ctx.Query("date") == "" {
		util.BadRequest(ctx, "date is required")
		return
	}
	date, ok := queryDate(ctx, "date")
	if !ok {
		return
	}
	tasks, err := c.PlannerService.Week(currentUser(ctx).ID, date)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// Calendar godoc
// @Summary 日历视图
// @Description 按日期分组的任务、本周任务和逾期任务
// @Tags 计划
// @Produce  json
// @Security ApiKeyAuth
// @Param   skill_path_id query int false "路径ID，缺省为全部路径"
// @Param   date query string false "参考日期，缺省为今天"
// @Success 200 {object} util.Response{data=service.CalendarView}
// @Router /planner/calendar [get]
func (c *PlannerController) Calendar(ctx *gin.Context) {
	var pathID uint
	if ctx.Query("skill_path_id") != "" {
		id, ok := queryID(ctx, "skill_path_id")
		if !ok {
			return
		}
		pathID = id
	}
	date, ok := queryDate(ctx, "date")
	if !ok {
		return
	}

	view, err := c.PlannerService.Calendar(currentUser(ctx).ID, pathID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Create godoc
// @Summary 新建计划任务
// @Tags 计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateTaskRequest true "任务"
// @Success 200 {object} util.Response{data=model.PlannerTask}
// @Router /planner [post]
func (c *PlannerController) Create(ctx *gin.Context) {
	var req CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.PlannerService.Create(currentUser(ctx).ID, service.TaskInput{
		SkillPathID: req.SkillPathID,
		Week:        req.Week,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// Patch godoc
// @Summary 修改计划任务
// @Description 可修改描述、状态(pending/complete/deferred)、截止日期和改期日期
// @Tags 计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   body body PatchTaskRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.PlannerTask}
// @Router /planner/{id} [patch]
func (c *PlannerController) Patch(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req PatchTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	patch := service.TaskPatch{
		Description:   req.Description,
		DueDate:       req.DueDate,
		RescheduledTo: req.RescheduledTo,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := c.PlannerService.Patch(id, currentUser(ctx).ID, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// Delete godoc
// @Summary 删除计划任务
// @Tags 计划
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Success 200 {object} util.Response
// @Router /planner/{id} [delete]
func (c *PlannerController) Delete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.PlannerService.Delete(id, currentUser(ctx).ID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Task deleted"})
}

// ShiftPending godoc
// @Summary 顺延未完成任务
// @Description 把该周未完成的任务依次排到路径最晚截止日期之后
// @Tags 计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ShiftPendingRequest true "路径与周"
// @Success 200 {object} util.Response{data=service.ShiftResult}
// @Router /planner/shift_pending [post]
func (c *PlannerController) ShiftPending(ctx *gin.Context) {
	var req ShiftPendingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.PlannerService.ShiftPending(currentUser(ctx).ID, req.SkillPathID, req.Week)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GenerateFromSkillPath godoc
// @Summary 生成详细周计划
// @Description 模型失败时返回已保存的周目标并附带 error
// @Tags 计划
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=object}
// @Router /planner/generate-from-skill-path/{id} [post]
func (c *PlannerController) GenerateFromSkillPath(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	plan, err := c.PlannerService.GenerateWeeklyPlan(ctx.Request.Context(), id, currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// RegenerateWeek godoc
// @Summary 重新生成某一周
// @Description mode 为 deeper 时加深，其它值为简化
// @Tags 计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body RegenerateWeekRequest true "路径、周和模式"
// @Success 200 {object} util.Response{data=service.RegenerateResult}
// @Failure 404 {object} util.Response
// @Failure 500 {object} util.Response "AI 生成失败"
// @Router /planner/regenerate_week [post]
func (c *PlannerController) RegenerateWeek(ctx *gin.Context) {
	var req RegenerateWeekRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.PlannerService.RegenerateWeek(ctx.Request.Context(), currentUser(ctx).ID, req.SkillPathID, req.Week, req.Mode)
	if err != nil {
		respondAIError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
