package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrPackNotFound     = errors.New("pack not found")
	ErrUploadNotFound   = errors.New("upload not found")
	ErrObjectNotFound   = errors.New("object not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyMessage     = errors.New("message must not be empty")
	ErrInvalidIdentity  = errors.New("identity token rejected")
)
