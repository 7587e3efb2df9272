package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"learnpack_backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 对象存储的通用接口，应用只存对象路径不存字节
type StorageProvider interface {
	PresignUpload(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Download(ctx context.Context, objectName string, w io.Writer) error
	Exists(ctx context.Context, objectName string) (bool, error)
}

// LocalStorageProvider 本地磁盘实现，开发环境用；"预签名" URL 指向本地直传路由
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) PresignUpload(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "/" + objectName, nil
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, objectName)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return objectName, nil
}

func (p *LocalStorageProvider) Download(ctx context.Context, objectName string, w io.Writer) error {
	f, err := os.Open(filepath.Join(p.Config.LocalPath, objectName))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func (p *LocalStorageProvider) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := os.Stat(filepath.Join(p.Config.LocalPath, objectName))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// MinioStorageProvider MinIO 实现，浏览器拿预签名 URL 直传
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) PresignUpload(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := p.Client.PresignedPutObject(ctx, p.Config.MinioBucket, objectName, expiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (p *MinioStorageProvider) Download(ctx context.Context, objectName string, w io.Writer) error {
	obj, err := p.Client.GetObject(ctx, p.Config.MinioBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	_, err = io.Copy(w, obj)
	return err
}

func (p *MinioStorageProvider) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := p.Client.StatObject(ctx, p.Config.MinioBucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StorageService 存储服务，按配置选择 provider
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == "minio" {
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

// NewObjectName 随机对象名，统一挂在 uploads/ 前缀下
func (s *StorageService) NewObjectName() string {
	return "uploads/" + uuid.New().String()
}

func (s *StorageService) PresignUpload(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return s.Provider.PresignUpload(ctx, objectName, expiry)
}

func (s *StorageService) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, objectName, reader, size, contentType)
}

func (s *StorageService) Download(ctx context.Context, objectName string, w io.Writer) error {
	return s.Provider.Download(ctx, objectName, w)
}

func (s *StorageService) Exists(ctx context.Context, objectName string) (bool, error) {
	return s.Provider.Exists(ctx, objectName)
}
