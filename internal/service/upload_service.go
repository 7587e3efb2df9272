package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/util"
	"learnpack_backend/pkg/logger"
	"learnpack_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const uploadURLExpiry = 15 * time.Minute

// 模型不可用时上传摘要的兜底文案
var (
	fallbackUploadSummary = "파일이 성공적으로 업로드되었습니다."
	fallbackUploadActions = []string{"학습팩 생성", "내용 요약", "퀴즈 생성"}
)

type UploadService struct {
	UploadRepo   *repository.FileUploadRepository
	ActivityRepo *repository.ActivityRepository
	Storage      *StorageService
	AI           AIClient
}

func NewUploadService(
	uploadRepo *repository.FileUploadRepository,
	activityRepo *repository.ActivityRepository,
	storage *StorageService,
	ai AIClient,
) *UploadService {
	return &UploadService{
		UploadRepo:   uploadRepo,
		ActivityRepo: activityRepo,
		Storage:      storage,
		AI:           ai,
	}
}

// UploadTarget 客户端直传用的预签名地址和对象路径
type UploadTarget struct {
	UploadURL  string `json:"uploadURL"`
	ObjectPath string `json:"objectPath"`
}

func (s *UploadService) NewUploadTarget(ctx context.Context) (*UploadTarget, error) {
	objectPath := s.Storage.NewObjectName()
	uploadURL, err := s.Storage.PresignUpload(ctx, objectPath, uploadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadTarget{UploadURL: uploadURL, ObjectPath: objectPath}, nil
}

// RegisterUploadRequest 直传完成后的登记请求
type RegisterUploadRequest struct {
	UploadURL    string         `json:"uploadURL" binding:"required"`
	Filename     string         `json:"filename"`
	OriginalName string         `json:"originalName"`
	FileType     string         `json:"fileType"`
	FileSize     int64          `json:"fileSize"`
	Metadata     datatypes.JSON `json:"metadata"`
}

// objectPathFromUploadURL 把预签名 URL 还原成存储内的对象路径
func objectPathFromUploadURL(uploadURL string) string {
	u, err := url.Parse(uploadURL)
	if err != nil {
		return strings.TrimPrefix(uploadURL, "/")
	}
	path := strings.TrimPrefix(u.Path, "/")
	if idx := strings.Index(path, "uploads/"); idx >= 0 {
		return path[idx:]
	}
	return path
}

// Register 登记直传好的对象元数据并追加 file_uploaded 日志
func (s *UploadService) Register(ctx context.Context, userID string, req RegisterUploadRequest) (*model.FileUpload, error) {
	objectPath := objectPathFromUploadURL(req.UploadURL)

	filename := req.Filename
	if filename == "" {
		filename = "uploaded_file"
	}
	originalName := req.OriginalName
	if originalName == "" {
		originalName = filename
	}
	fileType := req.FileType
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = datatypes.JSON([]byte("{}"))
	}

	upload := &model.FileUpload{
		UserID:       userID,
		Filename:     filename,
		OriginalName: originalName,
		FileType:     fileType,
		FileSize:     req.FileSize,
		ObjectPath:   objectPath,
		Metadata:     metadata,
	}
	if err := s.UploadRepo.Create(upload); err != nil {
		return nil, err
	}

	meta, _ := json.Marshal(map[string]interface{}{"filename": filename, "fileType": fileType})
	if err := s.ActivityRepo.Create(&model.UserActivity{
		UserID:       userID,
		ActivityType: model.ActivityFileUploaded,
		Metadata:     datatypes.JSON(meta),
	}); err != nil {
		return nil, err
	}

	return upload, nil
}

func (s *UploadService) ListForUser(userID string) ([]model.FileUpload, error) {
	return s.UploadRepo.ListByUser(userID)
}

// Download 校验归属后把对象字节流直接写给响应
func (s *UploadService) Download(ctx context.Context, userID, objectPath string, w io.Writer) error {
	upload, err := s.UploadRepo.FindByObjectPath(objectPath)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrObjectNotFound
	}
	if err != nil {
		return err
	}
	if upload.UserID != userID {
		return util.ErrPermissionDenied
	}

	exists, err := s.Storage.Exists(ctx, objectPath)
	if err != nil {
		return err
	}
	if !exists {
		return util.ErrObjectNotFound
	}

	return s.Storage.Download(ctx, objectPath, w)
}

// Process 取对象前 2KB 做内容摘要，模型失败时退回固定文案
func (s *UploadService) Process(ctx context.Context, userID string, uploadID uint) (*UploadInsights, error) {
	upload, err := s.UploadRepo.FindByID(uploadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	if upload.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	var buf bytes.Buffer
	if err := s.Storage.Download(ctx, upload.ObjectPath, &limitedWriter{w: &buf, n: 2048}); err != nil && !errors.Is(err, errPreviewFull) {
		logger.Log.Warn("upload preview read failed", zap.String("objectPath", upload.ObjectPath), zap.Error(err))
	}

	insights, err := s.AI.SummarizeUpload(ctx, buf.String(), upload.FileType)
	if err != nil {
		logger.Log.Warn("AI upload summarization failed, using fallback", zap.Error(err))
		monitoring.AIRequestCounter.WithLabelValues("upload_summary", "fallback").Inc()
		return &UploadInsights{
			Summary:          fallbackUploadSummary,
			SuggestedActions: fallbackUploadActions,
		}, nil
	}
	monitoring.AIRequestCounter.WithLabelValues("upload_summary", "ok").Inc()
	return insights, nil
}

var errPreviewFull = errors.New("preview buffer full")

// limitedWriter 只接前 n 字节，之后用哨兵错误提前终止拷贝
type limitedWriter struct {
	w io.Writer
	n int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if lw.n <= 0 {
		return 0, errPreviewFull
	}
	if len(p) > lw.n {
		p = p[:lw.n]
	}
	written, err := lw.w.Write(p)
	lw.n -= written
	if err != nil {
		return written, err
	}
	if lw.n == 0 {
		return written, errPreviewFull
	}
	return written, nil
}
