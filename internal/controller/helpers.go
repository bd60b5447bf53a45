package controller

import (
	"encoding/json"
	"errors"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 把领域错误映射为 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSkillPathNotFound),
		errors.Is(err, util.ErrTaskNotFound),
		errors.Is(err, util.ErrWeekNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrSessionNotFound):
		util.NotFoundMessage(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidStatus):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAIUnavailable), errors.Is(err, util.ErrJobsUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// respondAIError 生成失败时把模型错误原样返回给前端
func respondAIError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSkillPathNotFound), errors.Is(err, util.ErrWeekNotFound):
		respondError(ctx, err)
	default:
		logger.Log.Error("AI generation failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		util.Error(ctx, http.StatusInternalServerError, err.Error())
	}
}

// currentUser 认证中间件保证非 nil
func currentUser(ctx *gin.Context) *model.User {
	return util.GetUserFromContext(ctx)
}

// currentUserID 可选认证的路由上未登录时返回 0
func currentUserID(ctx *gin.Context) uint {
	if user := util.GetUserFromContext(ctx); user != nil {
		return user.ID
	}
	return 0
}

func queryID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseUint(ctx.Query(name))
	if err != nil || id == 0 {
		util.BadRequest(ctx, name+" is required")
		return 0, false
	}
	return id, true
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseUint(ctx.Param(name))
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

// ownUserParam 路径中的 user_id 必须是当前用户
func ownUserParam(ctx *gin.Context) (uint, bool) {
	id, ok := paramID(ctx, "user_id")
	if !ok {
		return 0, false
	}
	if id != currentUser(ctx).ID {
		util.Forbidden(ctx)
		return 0, false
	}
	return id, true
}

// ownBodyUser 请求体中的 user_id 可省略，填写时必须是当前用户
func ownBodyUser(ctx *gin.Context, id uint) (uint, bool) {
	userID := currentUser(ctx).ID
	if id != 0 && id != userID {
		util.Forbidden(ctx)
		return 0, false
	}
	return userID, true
}

// queryDate 缺省为今天
func queryDate(ctx *gin.Context, name string) (model.Date, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return model.Today(), true
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		util.BadRequest(ctx, name+" must be YYYY-MM-DD")
		return model.Date{}, false
	}
	return d, true
}

// decodeMap 把已解析的 JSON 对象再解码为结构体
func decodeMap(raw map[string]interface{}, v interface{}) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
