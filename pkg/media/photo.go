// Package media stores driver photos. Cloudinary is used when configured;
// otherwise photos land in a local uploads directory served statically.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/google/uuid"
)

// PhotoStore saves one driver photo and returns the reference to persist
// in the driver record.
type PhotoStore interface {
	SavePhoto(ctx context.Context, file io.Reader, originalName string) (string, error)
}

const (
	folder     = "iitk-transport/drivers"
	imageEager = "q_auto,f_auto,w_800,c_fill"
)

var eagerAsyncFalse = false

type cloudinaryStore struct {
	cloudName string
	uploader  *uploader.API
}

// NewCloudinaryStore builds a PhotoStore from Cloudinary credentials.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (PhotoStore, error) {
	cfg, err := cldconfig.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &cloudinaryStore{cloudName: cloudName, uploader: up}, nil
}

func (s *cloudinaryStore) SavePhoto(ctx context.Context, file io.Reader, _ string) (string, error) {
	publicID := "drv_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	result, err := s.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

type diskStore struct {
	dir string
}

// NewDiskStore stores photos under dir, creating it if needed.
func NewDiskStore(dir string) (PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &diskStore{dir: dir}, nil
}

func (s *diskStore) SavePhoto(_ context.Context, file io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("drv_%s%s", strings.ReplaceAll(uuid.New().String(), "-", "")[:16], ext)
	out, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return name, nil
}
