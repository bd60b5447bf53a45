package controller

import (
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillPathController struct {
	SkillPathService *service.SkillPathService
}

func NewSkillPathController(skillPathService *service.SkillPathService) *SkillPathController {
	return &SkillPathController{SkillPathService: skillPathService}
}

// swagger:model CreateSkillPathRequest
type CreateSkillPathRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data" binding:"required"`
}

// swagger:model UpdateSkillPathRequest
type UpdateSkillPathRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Data        map[string]interface{} `json:"data"`
}

// List godoc
// @Summary 我的学习路径
// @Description 每条路径附带完成百分比
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.SkillPathView}
// @Router /skill-paths [get]
func (c *SkillPathController) List(ctx *gin.Context) {
	paths, err := c.SkillPathService.List(currentUser(ctx).ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// Create godoc
// @Summary 保存学习路径
// @Description 保存路线并为每周自动生成 7 个每日任务
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSkillPathRequest true "路径"
// @Success 200 {object} util.Response{data=service.SkillPathView}
// @Router /skill-paths [post]
func (c *SkillPathController) Create(ctx *gin.Context) {
	var req CreateSkillPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.SkillPathService.Create(ctx.Request.Context(), currentUser(ctx).ID, req.Title, req.Description, req.Data)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// Get godoc
// @Summary 学习路径详情
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=service.SkillPathView}
// @Failure 404 {object} util.Response
// @Router /skill-paths/{id} [get]
func (c *SkillPathController) Get(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	path, err := c.SkillPathService.Get(id, currentUser(ctx).ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// Update godoc
// @Summary 更新学习路径
// @Tags 学习路径
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Param   body body UpdateSkillPathRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=service.SkillPathView}
// @Router /skill-paths/{id} [put]
func (c *SkillPathController) Update(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateSkillPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.SkillPathService.Update(id, currentUser(ctx).ID, service.SkillPathUpdate{
		Title:       req.Title,
		Description: req.Description,
		Data:        req.Data,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// Delete godoc
// @Summary 删除学习路径
// @Tags 学习路径
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response
// @Router /skill-paths/{id} [delete]
func (c *SkillPathController) Delete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SkillPathService.Delete(id, currentUser(ctx).ID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Skill path deleted"})
}
