package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/create_appointment"
	createBlockHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/create_block"
	deleteBlockHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/delete_block"
	getAgendaDayHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/get_agenda_day"
	getAvailableSlotsHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/get_client_appointments"
	getEmployeeAgendaHandler "github.com/m04kA/VEA-SchedulingService/internal/api/handlers/get_employee_agenda"
	"github.com/m04kA/VEA-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VEA-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/appointment"
	blockRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/block"
	catalogRepo "github.com/m04kA/VEA-SchedulingService/internal/infra/storage/catalog"
	appointmentsService "github.com/m04kA/VEA-SchedulingService/internal/service/appointments"
	blocksService "github.com/m04kA/VEA-SchedulingService/internal/service/blocks"
	createAppointmentUC "github.com/m04kA/VEA-SchedulingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/VEA-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/VEA-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VEA-SchedulingService/pkg/logger"
	"github.com/m04kA/VEA-SchedulingService/pkg/metrics"
	"github.com/m04kA/VEA-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/VEA-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting VEA-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		blockRepository       *blockRepo.Repository
		catalogRepository     *catalogRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		blockRepository = blockRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		blockRepository = blockRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		blockRepository,
		catalogRepository,
		log,
	)
	blocksSvc := blocksService.NewService(
		blockRepository,
		catalogRepository,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		blockRepository,
		catalogRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		blockRepository,
		catalogRepository,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAgendaDay := getAgendaDayHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getEmployeeAgenda := getEmployeeAgendaHandler.NewHandler(appointmentsSvc, log)
	createBlock := createBlockHandler.NewHandler(blocksSvc, log)
	deleteBlock := deleteBlockHandler.NewHandler(blocksSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все маршруты требуют идентификации от API Gateway
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Записи ---
	// Доступные слоты для записи
	protected.HandleFunc("/appointments/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Записи текущего клиента
	protected.HandleFunc("/appointments/my", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Расписания (для менеджеров) ---
	// Расписание сотрудника на день
	protected.HandleFunc("/appointments/agenda-day", getAgendaDay.Handle).Methods(http.MethodGet)

	// Расписание сотрудника за период
	protected.HandleFunc("/appointments/employee/agenda", getEmployeeAgenda.Handle).Methods(http.MethodGet)

	// --- Блокировки времени (для менеджеров) ---
	protected.HandleFunc("/employees/{employeeId}/blocks", createBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocks/{blockId}", deleteBlock.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
