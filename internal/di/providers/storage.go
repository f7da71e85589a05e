package providers

import (
	"github.com/samber/do/v2"

	"github.com/flowgrid/flowgrid-server/internal/config"
	"github.com/flowgrid/flowgrid-server/internal/logger"
	"github.com/flowgrid/flowgrid-server/internal/media/images"
)

// ProvideImageStorage provides on-disk storage for teacher photos.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Image storage initialized", "path", cfg.Data.BasePath)

	return storage, nil
}

// ProvideImageProcessor provides the teacher photo processor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storage, log.Logger), nil
}
