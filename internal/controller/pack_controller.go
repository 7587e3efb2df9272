package controller

import (
	"errors"
	"strconv"

	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/service"
	"learnpack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PackController struct {
	PackService *service.PackService
}

func NewPackController(packService *service.PackService) *PackController {
	return &PackController{PackService: packService}
}

func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

// List godoc
// @Summary 学习包列表
// @Description 按分类、难度、关键字筛选公开学习包
// @Tags 学习包
// @Produce  json
// @Param   category query string false "分类"
// @Param   difficulty query string false "难度" Enums(beginner, intermediate, advanced)
// @Param   search query string false "标题/描述关键字"
// @Param   limit query int false "每页数量，默认 20"
// @Param   offset query int false "偏移量"
// @Success 200 {object} util.Response{data=[]model.LearningPack}
// @Router /api/learning-packs [get]
func (c *PackController) List(ctx *gin.Context) {
	filter := repository.PackFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
		Search:     ctx.Query("search"),
	}
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := ctx.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	packs, err := c.PackService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, packs)
}

// Get godoc
// @Summary 学习包详情
// @Tags 学习包
// @Produce  json
// @Param   id path int true "学习包 ID"
// @Success 200 {object} util.Response{data=model.LearningPack}
// @Failure 404 {object} util.Response "学习包不存在"
// @Router /api/learning-packs/{id} [get]
func (c *PackController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	pack, err := c.PackService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrPackNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, pack)
}

// Create godoc
// @Summary 创建学习包
// @Tags 学习包
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreatePackRequest true "学习包内容"
// @Success 201 {object} util.Response{data=model.LearningPack}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/learning-packs [post]
func (c *PackController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreatePackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pack, err := c.PackService.Create(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, pack)
}

// Update godoc
// @Summary 更新学习包
// @Description 仅作者可更新
// @Tags 学习包
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学习包 ID"
// @Param   body body service.UpdatePackRequest true "要更新的字段"
// @Success 200 {object} util.Response{data=model.LearningPack}
// @Failure 403 {object} util.Response "非作者"
// @Failure 404 {object} util.Response "学习包不存在"
// @Router /api/learning-packs/{id} [put]
func (c *PackController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.UpdatePackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pack, err := c.PackService.Update(id, claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPackNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, pack)
}

// Delete godoc
// @Summary 删除学习包
// @Description 仅作者可删除，重复删除视为成功
// @Tags 学习包
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学习包 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 403 {object} util.Response "非作者"
// @Router /api/learning-packs/{id} [delete]
func (c *PackController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := parseID(ctx)
	if !ok {
		return
	}

	deleted, err := c.PackService.Delete(id, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": deleted})
}

// GenerateQuiz godoc
// @Summary 基于学习包内容生成测验
// @Tags 学习包
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学习包 ID"
// @Success 200 {object} util.Response{data=[]service.QuizQuestion}
// @Failure 404 {object} util.Response "学习包不存在"
// @Router /api/learning-packs/{id}/quiz [post]
func (c *PackController) GenerateQuiz(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	questions, err := c.PackService.GenerateQuiz(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrPackNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"questions": questions})
}
