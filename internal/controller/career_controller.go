package controller

import (
	"errors"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CareerController struct {
	CareerService *service.CareerService
}

func NewCareerController(careerService *service.CareerService) *CareerController {
	return &CareerController{CareerService: careerService}
}

// Categories godoc
// @Summary 岗位分类
// @Tags 职业洞察
// @Produce  json
// @Success 200 {object} util.Response{data=[]jobboard.Category}
// @Router /api/job-categories [get]
func (c *CareerController) Categories(ctx *gin.Context) {
	cats, err := c.CareerService.Categories(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"categories": cats})
}

// Postings godoc
// @Summary 岗位搜索
// @Tags 职业洞察
// @Produce  json
// @Param   skill query string true "技能或关键词"
// @Param   location query string false "地点"
// @Param   results query int false "条数，默认 10，最多 50"
// @Success 200 {object} util.Response{data=object}
// @Router /api/job-postings [get]
func (c *CareerController) Postings(ctx *gin.Context) {
	skill := ctx.Query("skill")
	if skill == "" {
		util.BadRequest(ctx, "skill is required")
		return
	}
	results, _ := strconv.Atoi(ctx.Query("results"))

	postings, err := c.CareerService.Postings(ctx.Request.Context(), skill, ctx.Query("location"), results)
	if err != nil {
		if errors.Is(err, util.ErrJobsUnavailable) {
			util.Success(ctx, gin.H{"postings": []interface{}{}, "error": err.Error()})
			return
		}
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"postings": postings})
}

// SkillRelevance godoc
// @Summary 技能市场热度
// @Tags 职业洞察
// @Produce  json
// @Param   skills query string true "逗号分隔的技能"
// @Param   location query string false "地点"
// @Success 200 {object} util.Response{data=object}
// @Router /api/skill-relevance [get]
func (c *CareerController) SkillRelevance(ctx *gin.Context) {
	skills := util.SplitCSV(ctx.Query("skills"))
	if len(skills) == 0 {
		util.BadRequest(ctx, "skills is required")
		return
	}
	relevance, err := c.CareerService.SkillRelevance(ctx.Request.Context(), skills, ctx.Query("location"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"relevance": relevance})
}

// SalaryBenchmark godoc
// @Summary 薪资基准
// @Tags 职业洞察
// @Produce  json
// @Param   role query string true "岗位"
// @Param   location query string false "地点"
// @Success 200 {object} util.Response{data=service.SalaryBenchmark}
// @Router /api/salary-benchmark [get]
func (c *CareerController) SalaryBenchmark(ctx *gin.Context) {
	role := ctx.Query("role")
	if role == "" {
		util.BadRequest(ctx, "role is required")
		return
	}
	b, err := c.CareerService.SalaryBenchmark(ctx.Request.Context(), role, ctx.Query("location"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, b)
}

// UserSkills godoc
// @Summary 用户技能
// @Description 完成度 100 的学习路径视为已掌握
// @Tags 职业洞察
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.UserSkills}
// @Router /api/user-skills/{user_id} [get]
func (c *CareerController) UserSkills(ctx *gin.Context) {
	userID, ok := ownUserParam(ctx)
	if !ok {
		return
	}
	skills, err := c.CareerService.UserSkills(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}
