package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"vbs/src/db"
	"vbs/src/lib/aws"
	"vbs/src/models"
)

// BlobStore is the capability surface for binary assets. Backends answer for
// themselves whether a public URL can be produced; callers must not assume
// both operations succeed on every driver.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (*models.Asset, error)
	Get(ctx context.Context, asset *models.Asset) ([]byte, error)
	URL(ctx context.Context, asset *models.Asset) (*string, error)
}

type dbStore struct{}

func (s *dbStore) Put(ctx context.Context, name, contentType string, data []byte) (*models.Asset, error) {
	asset := models.Asset{
		Name:        name,
		ContentType: contentType,
		Driver:      "db",
		Key:         name,
		Size:        int64(len(data)),
		Data:        data,
	}
	conn := db.GetDb()
	if err := conn.WithContext(ctx).Create(&asset).Error; err != nil {
		log.Printf("[storage] Error saving asset %s: %s\n", name, err.Error())
		return nil, err
	}
	return &asset, nil
}

func (s *dbStore) Get(ctx context.Context, asset *models.Asset) ([]byte, error) {
	if asset.Data != nil {
		return asset.Data, nil
	}
	var full models.Asset
	conn := db.GetDb()
	if err := conn.WithContext(ctx).First(&full, asset.ID).Error; err != nil {
		return nil, err
	}
	return full.Data, nil
}

func (s *dbStore) URL(ctx context.Context, asset *models.Asset) (*string, error) {
	return nil, fmt.Errorf("db storage driver cannot produce URLs")
}

type s3Store struct{}

func (s *s3Store) Put(ctx context.Context, name, contentType string, data []byte) (*models.Asset, error) {
	key := fmt.Sprintf("assets/%s", name)
	if err := aws.S3PutObject(ctx, key, contentType, data); err != nil {
		return nil, err
	}
	asset := models.Asset{
		Name:        name,
		ContentType: contentType,
		Driver:      "s3",
		Key:         key,
		Size:        int64(len(data)),
	}
	conn := db.GetDb()
	if err := conn.WithContext(ctx).Create(&asset).Error; err != nil {
		log.Printf("[storage] Error saving asset record %s: %s\n", name, err.Error())
		return nil, err
	}
	return &asset, nil
}

func (s *s3Store) Get(ctx context.Context, asset *models.Asset) ([]byte, error) {
	return aws.S3GetObject(ctx, asset.Key)
}

func (s *s3Store) URL(ctx context.Context, asset *models.Asset) (*string, error) {
	return aws.S3PresignGetObject(ctx, asset.Key)
}

var blobStore BlobStore

// GetBlobStore selects the backend once from STORAGE_DRIVER ("s3" or "db",
// default "db") and keeps it for the life of the process.
func GetBlobStore() BlobStore {
	if blobStore != nil {
		return blobStore
	}
	driver := os.Getenv("STORAGE_DRIVER")
	switch driver {
	case "s3":
		blobStore = &s3Store{}
	default:
		blobStore = &dbStore{}
	}
	return blobStore
}

// NewBlobStore Replace blob store with custom implementation
func NewBlobStore(s BlobStore) BlobStore {
	blobStore = s
	return blobStore
}
