package main

import (
	"fmt"
	"os"

	"github.com/minsu-dev/eduops/internal/auth"
	"github.com/minsu-dev/eduops/internal/config"
	"github.com/minsu-dev/eduops/internal/db"
	"github.com/minsu-dev/eduops/internal/excel"
	httphandler "github.com/minsu-dev/eduops/internal/http"
	"github.com/minsu-dev/eduops/internal/http/middleware"
	"github.com/minsu-dev/eduops/internal/logger"
	"github.com/minsu-dev/eduops/internal/pdf"
	"github.com/minsu-dev/eduops/internal/repository"
	"github.com/minsu-dev/eduops/internal/service"
	"github.com/minsu-dev/eduops/internal/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	instructorRepo := repository.NewInstructorRepository(database)
	institutionRepo := repository.NewInstitutionRepository(database)
	zoneRepo := repository.NewZoneRepository(database)
	masterCodeRepo := repository.NewMasterCodeRepository(database)
	trainingRepo := repository.NewTrainingRepository(database)
	policyRepo := repository.NewPolicyRepository(database)
	travelRepo := repository.NewTravelRepository(database)

	snapshotClient := snapshot.NewClient(cfg.Snapshot)

	travelService := service.NewTravelService(
		instructorRepo,
		institutionRepo,
		trainingRepo,
		policyRepo,
		travelRepo,
		snapshotClient,
		log,
	)
	reportService := service.NewReportService(travelService, instructorRepo, excel.NewGenerator(), pdf.NewGenerator())
	catalogService := service.NewCatalogService(
		instructorRepo,
		institutionRepo,
		zoneRepo,
		masterCodeRepo,
		trainingRepo,
		policyRepo,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(travelService, reportService, catalogService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting travel service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
