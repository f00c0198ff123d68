package storage

import (
	"fmt"

	"homely/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// FromConfig initializes a Cloudinary-backed StorageService from AppConfig.
func FromConfig() (StorageService, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("storage.FromConfig: failed to initialize Cloudinary: %w", err)
	}

	return NewStorageService(cld, cfg.CloudinaryCloudName), nil
}
