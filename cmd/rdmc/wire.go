package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/totegamma/rdmc-registry/internal/config"
	"github.com/totegamma/rdmc-registry/internal/infra/cache"
	"github.com/totegamma/rdmc-registry/internal/infra/database"
	"github.com/totegamma/rdmc-registry/internal/infra/repository"
	"github.com/totegamma/rdmc-registry/internal/service"
	"github.com/totegamma/rdmc-registry/internal/usecase"
)

func buildUsecase(conf config.Config, db *gorm.DB, signals *service.SignalService, logger *zap.Logger) *usecase.RdmcUsecase {
	var detailCache usecase.DetailCache
	if mc := database.NewMemcached(conf.Server); mc != nil {
		detailCache = cache.NewMemcached(mc, conf.Server.CacheTTL)
	} else {
		detailCache = cache.NewMemory(conf.Server.CacheTTL)
	}

	return usecase.NewRdmcUsecase(
		repository.NewRdmcRepository(db),
		detailCache,
		signals,
		logger,
	)
}
