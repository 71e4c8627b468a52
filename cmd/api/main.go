package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/asistenciafacil/asistencia-api/internal/bootstrap"
	"github.com/asistenciafacil/asistencia-api/internal/handler"
	"github.com/asistenciafacil/asistencia-api/internal/middleware"
	"github.com/asistenciafacil/asistencia-api/internal/service"
	"github.com/asistenciafacil/asistencia-api/pkg/cache"
	"github.com/asistenciafacil/asistencia-api/pkg/config"
	"github.com/asistenciafacil/asistencia-api/pkg/logger"
	corsmiddleware "github.com/asistenciafacil/asistencia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/asistenciafacil/asistencia-api/pkg/middleware/requestid"
	"github.com/asistenciafacil/asistencia-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	stores, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer stores.Close() //nolint:errcheck

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
			cacheClient = nil
		}
	}

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "dir", cfg.Exports.StorageDir, "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	classroomSvc := service.NewClassroomService(stores.Classrooms, stores.Students, stores.Attendance,
		cacheClient, cfg.Cache.ClassroomInfoTTL, logr)
	attendanceSvc := service.NewAttendanceService(stores.Attendance, stores.Students, validate, logr)
	noveltySvc := service.NewNoveltyService(stores.Novelties, validate, logr)
	reportSvc := service.NewReportService(stores.Classrooms, stores.Students, stores.Attendance, logr)
	exportSvc := service.NewExportService(reportSvc, stores.Classrooms, exportStorage, nil, nil, logr)

	classroomHandler := handler.NewClassroomHandler(classroomSvc, stores.Students)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, classroomSvc, metrics)
	noveltyHandler := handler.NewNoveltyHandler(noveltySvc)
	reportHandler := handler.NewReportHandler(exportSvc, metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if stores.DB != nil {
			if err := stores.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/classrooms", classroomHandler.List)
		api.GET("/classrooms/:id", classroomHandler.Get)
		api.GET("/classrooms/:id/students", classroomHandler.ListStudents)

		api.POST("/classrooms/:id/attendance", attendanceHandler.Submit)
		api.GET("/classrooms/:id/attendance", attendanceHandler.History)
		api.DELETE("/classrooms/:id/attendance/:date", attendanceHandler.DeleteDay)
		api.PATCH("/classrooms/:id/attendance/:date", attendanceHandler.ChangeDate)
		api.DELETE("/classrooms/:id/attendance/:date/students/:studentId", attendanceHandler.RemoveAbsence)

		api.GET("/classrooms/:id/novelties", noveltyHandler.List)
		api.POST("/classrooms/:id/novelties", noveltyHandler.Create)
		api.DELETE("/novelties/:noveltyId", noveltyHandler.Delete)

		api.POST("/reports/absences", reportHandler.RunAbsences)
		api.POST("/reports/summary", reportHandler.RunSummary)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
