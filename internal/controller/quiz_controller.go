package controller

import (
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// swagger:model QuizAttemptRequest
type QuizAttemptRequest struct {
	UserID  uint              `json:"user_id"`
	QuizID  uint              `json:"quiz_id" binding:"required"`
	Answers map[string]string `json:"answers"`
}

// Personalized godoc
// @Summary 个性化测验
// @Description 根据学习路径标题推导技能标签选题，不返回正确答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.PersonalizedQuiz}
// @Router /quiz/personalized/{user_id} [get]
func (c *QuizController) Personalized(ctx *gin.Context) {
	userID, ok := ownUserParam(ctx)
	if !ok {
		return
	}
	quiz, err := c.QuizService.Personalized(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Attempt godoc
// @Summary 提交测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body QuizAttemptRequest true "答案，键为题目ID"
// @Success 200 {object} util.Response{data=service.QuizScore}
// @Router /quiz/attempt [post]
func (c *QuizController) Attempt(ctx *gin.Context) {
	var req QuizAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, ok := ownBodyUser(ctx, req.UserID)
	if !ok {
		return
	}

	score, err := c.QuizService.Attempt(userID, req.QuizID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, score)
}

// History godoc
// @Summary 测验记录
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.UserQuizAttempt}
// @Router /quiz/history/{user_id} [get]
func (c *QuizController) History(ctx *gin.Context) {
	userID, ok := ownUserParam(ctx)
	if !ok {
		return
	}
	attempts, err := c.QuizService.History(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
