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

func usage() {
	fmt.Println("Uso del exportador de asistencia:")
	fmt.Println()
	fmt.Println("  export-attendance                  Exportar todos los salones")
	fmt.Println("  export-attendance <classroom-id>   Exportar un salón específico")
	fmt.Println("  export-attendance --help           Mostrar esta ayuda")
	fmt.Println()
	fmt.Println("Ejemplos:")
	fmt.Println("  export-attendance capacitacion-destino-1a")
	fmt.Println("  export-attendance")
}

func main() {
	args := os.Args[1:]
	if len(args) == 1 && args[0] == "--help" {
		usage()
		return
	}
	if len(args) > 1 {
		usage()
		os.Exit(1)
	}

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

	fmt.Println("Iniciando exportación de asistencia...")

	var result *service.ExportResult
	if len(args) == 1 {
		classroom, err := stores.Classrooms.FindByID(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "No se encontró el salón con ID: %s\n", args[0])
			os.Exit(1)
		}
		result, err = exportSvc.ExportClassroomAttendance(ctx, *classroom)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exportando %s: %v\n", classroom.Name, err)
			os.Exit(1)
		}
	} else {
		result, err = exportSvc.ExportAllClassrooms(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error en la exportación: %v\n", err)
			os.Exit(1)
		}
	}

	if len(result.Files) == 0 {
		fmt.Println("No hay registros de asistencia para exportar.")
		return
	}

	fmt.Println()
	for _, file := range result.Files {
		fmt.Printf("Exportado: %s\n", exportSvc.FilePath(file))
	}
	fmt.Printf("Exportación completada: %d archivos, %d registros.\n", len(result.Files), result.Rows)
}
