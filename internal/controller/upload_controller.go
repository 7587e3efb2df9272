package controller

import (
	"errors"
	"strconv"
	"strings"

	"learnpack_backend/internal/service"
	"learnpack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	UploadService  *service.UploadService
	StorageService *service.StorageService
}

func NewUploadController(uploadService *service.UploadService, storageService *service.StorageService) *UploadController {
	return &UploadController{UploadService: uploadService, StorageService: storageService}
}

// NewUploadURL godoc
// @Summary 获取直传地址
// @Description 返回 15 分钟有效的预签名上传 URL
// @Tags 文件
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UploadTarget}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/objects/upload [post]
func (c *UploadController) NewUploadURL(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	target, err := c.UploadService.NewUploadTarget(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, target)
}

// Register godoc
// @Summary 登记已上传的文件
// @Description 直传完成后把文件元数据写入数据库
// @Tags 文件
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.RegisterUploadRequest true "文件元数据"
// @Success 201 {object} util.Response{data=model.FileUpload}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/file-uploads [put]
func (c *UploadController) Register(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RegisterUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	upload, err := c.UploadService.Register(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, upload)
}

// List godoc
// @Summary 我的文件列表
// @Tags 文件
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.FileUpload}
// @Failure 401 {object} util.Response "未登录"
// @Router /api/file-uploads [get]
func (c *UploadController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	uploads, err := c.UploadService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, uploads)
}

// Process godoc
// @Summary 分析已上传的文件
// @Description 读取文件内容由模型生成摘要和建议操作
// @Tags 文件
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "文件 ID"
// @Success 200 {object} util.Response{data=service.UploadInsights}
// @Failure 403 {object} util.Response "非文件所有者"
// @Failure 404 {object} util.Response "文件不存在"
// @Router /api/file-uploads/{id}/process [post]
func (c *UploadController) Process(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的 ID")
		return
	}

	insights, err := c.UploadService.Process(ctx.Request.Context(), claims.UserID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUploadNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, insights)
}

// DownloadObject godoc
// @Summary 下载文件
// @Description 校验归属后返回文件字节流
// @Tags 文件
// @Produce  octet-stream
// @Security BearerAuth
// @Param   objectPath path string true "对象路径"
// @Success 200 {file} binary
// @Failure 403 {object} util.Response "非文件所有者"
// @Failure 404 {object} util.Response "文件不存在"
// @Router /objects/{objectPath} [get]
func (c *UploadController) DownloadObject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	// 通配参数带前导斜杠，去掉后就是存储里的对象路径
	objectPath := strings.TrimPrefix(ctx.Param("objectPath"), "/")
	ctx.Header("Content-Type", "application/octet-stream")

	err := c.UploadService.Download(ctx.Request.Context(), claims.UserID, objectPath, ctx.Writer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrObjectNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
}

// DirectUpload 本地存储模式下承接"预签名"PUT 直传，
// 路由挂在 /uploads 下所以要补回对象路径前缀
func (c *UploadController) DirectUpload(ctx *gin.Context) {
	objectPath := "uploads/" + strings.TrimPrefix(ctx.Param("objectPath"), "/")

	contentType := ctx.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.StorageService.Upload(ctx.Request.Context(), objectPath, ctx.Request.Body, ctx.Request.ContentLength, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"objectPath": objectPath})
}
