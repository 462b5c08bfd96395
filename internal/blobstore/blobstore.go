// Package blobstore — хранилище содержимого файлов.
//
// Реестр работает с карточками файлов, содержимое загруженных файлов
// уходит в отдельное blob-хранилище: S3 в продакшене, память — в
// тестах и при локальном запуске. Реализация выбирается фабрикой по
// конфигурации.
package blobstore

import (
	"context"
	"fmt"
)

// BlobStore — интерфейс хранилища содержимого файлов.
type BlobStore interface {
	// Store сохраняет содержимое под заданным ключом и возвращает
	// URL сохранённого объекта.
	Store(ctx context.Context, key string, content []byte) (string, error)
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// Config — конфигурация blob-хранилища.
type Config struct {
	// Type — тип хранилища: "memory" или "s3".
	Type string
	// Bucket — имя S3-бакета (для типа "s3").
	Bucket string
	// Endpoint — адрес S3-совместимого хранилища. Пустое значение —
	// стандартные эндпоинты AWS.
	Endpoint string
	// Region — регион S3.
	Region string
	// AccessKeyID и SecretAccessKey — статические ключи доступа.
	// Пустые значения — стандартная цепочка credentials SDK.
	AccessKeyID     string
	SecretAccessKey string
}

// New создаёт blob-хранилище по конфигурации.
func New(ctx context.Context, cfg Config) (BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("для s3-хранилища требуется имя бакета")
		}
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("неизвестный тип blob-хранилища: %s", cfg.Type)
	}
}
