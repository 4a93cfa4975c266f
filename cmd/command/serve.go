package command

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	checkAvailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/check_availability"
	createReservationHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_reservation"
	getReservationHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_reservation"
	getVehicleCalendarHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_vehicle_calendar"
	getVehicleReservationsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_vehicle_reservations"
	updateReservationHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_reservation"
	updatePaymentHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_reservation_payment"
	updateStatusHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/availability"
	contractRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/contract"
	clientServiceClient "github.com/m04kA/SMC-RentalService/internal/integrations/clientservice"
	fleetServiceClient "github.com/m04kA/SMC-RentalService/internal/integrations/fleetservice"
	reservationsService "github.com/m04kA/SMC-RentalService/internal/service/reservations"
	checkAvailabilityUC "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
	createReservationUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
	getVehicleCalendarUC "github.com/m04kA/SMC-RentalService/internal/usecase/get_vehicle_calendar"
	updateReservationUC "github.com/m04kA/SMC-RentalService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/keylock"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP сервер",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// domainMetrics метрики бронирований и кэша, общие для use cases
type domainMetrics interface {
	createReservationUC.Metrics
	availability.Recorder
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()
	defer db.Close()

	log.Info("Starting SMC-RentalService...")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         domainMetrics = metrics.Nop{}
		wrappedDB        *dbmetrics.DB
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Metrics enabled at %s, database metrics collection started", cfg.Metrics.Path)
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB)
	contractRepository := contractRepo.NewRepository(wrappedDB)

	// Инициализируем интеграционных клиентов
	fleetClient := fleetServiceClient.NewClient(cfg.FleetService.URL, cfg.FleetService.TimeoutDuration(), log)
	clientsClient := clientServiceClient.NewClient(cfg.ClientService.URL, cfg.ClientService.TimeoutDuration(), log)
	log.Info("Integration clients initialized (FleetService=%s timeout=%ds, ClientService=%s timeout=%ds)",
		cfg.FleetService.URL, cfg.FleetService.Timeout, cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Блокировки автомобилей и кэш календарей живут в пределах процесса
	vehicleLocks := keylock.New()
	availabilityCache := availability.NewCache(recorder, cfg.Reservations.AvailabilityCacheTTL())
	availabilityLoader := availability.LoaderFrom(contractRepository)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		contractRepository,
		availabilityCache,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		contractRepository,
		fleetClient,
		clientsClient,
		vehicleLocks,
		availabilityCache,
		txMgr,
		recorder,
		log,
		cfg.Reservations.LockTimeout(),
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		contractRepository,
		vehicleLocks,
		availabilityCache,
		txMgr,
		log,
		cfg.Reservations.LockTimeout(),
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		fleetClient,
		availabilityCache,
		availabilityLoader,
		log,
	)
	getVehicleCalendarUseCase := getVehicleCalendarUC.NewUseCase(
		fleetClient,
		availabilityCache,
		availabilityLoader,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	updateStatus := updateStatusHandler.NewHandler(reservationSvc, log)
	updatePayment := updatePaymentHandler.NewHandler(reservationSvc, log)
	getVehicleReservations := getVehicleReservationsHandler.NewHandler(reservationSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getVehicleCalendar := getVehicleCalendarHandler.NewHandler(getVehicleCalendarUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Договоры аренды ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPut)
	api.HandleFunc("/reservations/{reservationId}/status", updateStatus.Handle).Methods(http.MethodPut)
	api.HandleFunc("/reservations/{reservationId}/payment", updatePayment.Handle).Methods(http.MethodPut)

	// --- Доступность автомобилей ---
	api.HandleFunc("/vehicles/{vehicleId}/availability", getVehicleCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{vehicleId}/check-availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{vehicleId}/reservations", getVehicleReservations.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		return err
	}

	log.Info("Server stopped gracefully")
	return nil
}
