package controller

import (
	"errors"
	"mapmyroute_backend/internal/service"
	"mapmyroute_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// swagger:model TokenRequest
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register godoc
// @Summary 邮箱注册
// @Description 使用邮箱和密码注册，成功后直接返回访问令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response "邮箱已被注册"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// Login godoc
// @Summary 邮箱登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// Firebase godoc
// @Summary Firebase 登录
// @Description 校验 Firebase ID token，首次登录时自动创建用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body TokenRequest true "Firebase ID token"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /auth/firebase [post]
func (c *AuthController) Firebase(ctx *gin.Context) {
	var req TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.FirebaseLogin(ctx.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, util.ErrInvalidToken) {
			util.Error(ctx, http.StatusUnauthorized, "Invalid Firebase token")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	uid := ""
	if user.UID != nil {
		uid = *user.UID
	}
	util.Success(ctx, gin.H{
		"uid":     uid,
		"email":   user.EmailAddress(),
		"name":    user.Name,
		"picture": user.Picture,
	})
}

// Profile godoc
// @Summary 当前用户
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	util.Success(ctx, currentUser(ctx))
}

// DeleteAccount godoc
// @Summary 注销账号
// @Description 删除账号及全部学习路径、计划任务、答题记录和历史
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /user/delete [delete]
func (c *AuthController) DeleteAccount(ctx *gin.Context) {
	if err := c.UserService.DeleteAccount(currentUser(ctx).ID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Account and all data deleted"})
}
