package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/asistenciafacil/asistencia-api/internal/bootstrap"
	"github.com/asistenciafacil/asistencia-api/internal/seed"
	"github.com/asistenciafacil/asistencia-api/pkg/config"
	"github.com/asistenciafacil/asistencia-api/pkg/logger"
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

	progress := func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}

	seeder := seed.NewSeeder(stores.Classrooms, stores.Students, stores.Attendance, logr, progress)

	fmt.Println("Iniciando población de datos...")
	result, err := seeder.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error poblando datos: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Población completada exitosamente.")
	fmt.Printf("  - %d salones configurados\n", result.Classrooms)
	fmt.Printf("  - %d estudiantes agregados\n", result.Students)
	fmt.Printf("  - %d registros de asistencia de ejemplo creados\n", result.AttendanceRecords)
}
