package controller

import (
	"errors"
	"strconv"

	"learnpack_backend/internal/service"
	"learnpack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ChatMessageRequest 用户发送的聊天内容
type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
	PackID  *uint  `json:"packId"`
}

// ListMessages godoc
// @Summary 聊天历史
// @Description 按时间正序返回最近的消息
// @Tags 聊天
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最多条数，默认 50"
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/chat-messages [get]
func (c *ChatController) ListMessages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 50
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := c.ChatService.ListMessages(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// SendMessage godoc
// @Summary 发送聊天消息
// @Description 保存用户消息并返回助手回复，模型不可用时返回兜底回复
// @Tags 聊天
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChatMessageRequest true "消息内容"
// @Success 200 {object} util.Response{data=service.ChatExchange}
// @Failure 400 {object} util.Response "消息为空"
// @Router /api/chat-messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exchange, err := c.ChatService.HandleUserMessage(ctx.Request.Context(), claims.UserID, req.Message, req.PackID)
	if err != nil {
		if errors.Is(err, util.ErrEmptyMessage) {
			util.BadRequest(ctx, "消息内容不能为空")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, exchange)
}
