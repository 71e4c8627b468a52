package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/asistenciafacil/asistencia-api/internal/bootstrap"
	"github.com/asistenciafacil/asistencia-api/internal/service"
	"github.com/asistenciafacil/asistencia-api/pkg/config"
	"github.com/asistenciafacil/asistencia-api/pkg/logger"
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
		fmt.Fprintf(os.Stderr, "Error conectando al almacén de datos: %v\n", err)
		os.Exit(1)
	}
	defer stores.Close() //nolint:errcheck

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparando el directorio de exportación: %v\n", err)
		os.Exit(1)
	}

	reportSvc := service.NewReportService(stores.Classrooms, stores.Students, stores.Attendance, logr)
	exportSvc := service.NewExportService(reportSvc, stores.Classrooms, exportStorage, nil, nil, logr)

	fmt.Println("Generando resumen general de asistencia...")

	result, err := exportSvc.SummaryReportFiles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generando el resumen: %v\n", err)
		os.Exit(1)
	}

	if len(result.Files) == 0 {
		fmt.Println("No se encontraron salones para resumir.")
		return
	}

	fmt.Println()
	for _, file := range result.Files {
		fmt.Printf("Generado: %s\n", exportSvc.FilePath(file))
	}
	fmt.Printf("Resumen completado: %d salones.\n", result.Rows)
}
