package controller

import (
	"strconv"

	"learnpack_backend/internal/service"
	"learnpack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// List godoc
// @Summary 学习进度列表
// @Description 按最近访问倒序返回，packID 可选过滤
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Param   packId query int false "学习包 ID"
// @Success 200 {object} util.Response{data=[]model.UserProgress}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/user-progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var packID *uint
	if v := ctx.Query("packId"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "无效的 packId")
			return
		}
		id := uint(n)
		packID = &id
	}

	items, err := c.ProgressService.List(claims.UserID, packID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// Upsert godoc
// @Summary 写入学习进度
// @Description 同一用户同一学习包只保留一条记录，后写覆盖
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.UpsertProgressRequest true "进度内容"
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/user-progress [put]
func (c *ProgressController) Upsert(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpsertProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.Upsert(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// CurrentLearning godoc
// @Summary 当前在学的学习包
// @Description 最近访问的 in_progress 记录，没有则 data 为 null
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Router /api/current-learning [get]
func (c *ProgressController) CurrentLearning(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	current, err := c.ProgressService.CurrentLearning(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, current)
}
