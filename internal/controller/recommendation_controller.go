package controller

import (
	"learnpack_backend/internal/service"
	"learnpack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
}

func NewRecommendationController(recService *service.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recService}
}

// GetRecommendations godoc
// @Summary 学习包推荐
// @Description 模型推荐和启发式推荐并列返回，模型不可用时前者为空
// @Tags 推荐
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.RecommendationsPayload}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/recommendations [get]
func (c *RecommendationController) GetRecommendations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	payload, err := c.RecommendationService.BuildRecommendations(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, payload)
}
