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

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/create_booking"
	getAdmissionStateHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/get_admission_state"
	getAvailableSlotsHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/get_booking"
	getConsultantBookingsHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/get_consultant_bookings"
	getConsultantScheduleHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/get_consultant_schedule"
	getUserBookingsHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/get_user_bookings"
	updateConsultantScheduleHandler "github.com/m04kA/CNP-SchedulerService/internal/api/handlers/update_consultant_schedule"
	"github.com/m04kA/CNP-SchedulerService/internal/api/middleware"
	"github.com/m04kA/CNP-SchedulerService/internal/config"
	bookingRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/booking"
	recurringRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/recurring"
	slotRepo "github.com/m04kA/CNP-SchedulerService/internal/infra/storage/slot"
	notifyServiceClient "github.com/m04kA/CNP-SchedulerService/internal/integrations/notifyservice"
	userServiceClient "github.com/m04kA/CNP-SchedulerService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/CNP-SchedulerService/internal/service/bookings"
	scheduleService "github.com/m04kA/CNP-SchedulerService/internal/service/schedule"
	"github.com/m04kA/CNP-SchedulerService/internal/timezone"
	createBookingUC "github.com/m04kA/CNP-SchedulerService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/CNP-SchedulerService/internal/usecase/get_available_slots"
	"github.com/m04kA/CNP-SchedulerService/pkg/dbmetrics"
	"github.com/m04kA/CNP-SchedulerService/pkg/logger"
	"github.com/m04kA/CNP-SchedulerService/pkg/metrics"
	"github.com/m04kA/CNP-SchedulerService/pkg/simpletxmanager"
	"github.com/m04kA/CNP-SchedulerService/pkg/txmanager"
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

	log.Info("Starting CNP-SchedulerService...")
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

	// Применяем миграции (если включены)
	if cfg.Database.Migrate {
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set goose dialect: %v", err)
		}
		if err := goose.Up(db, cfg.Database.MigrationsDir); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied from %s", cfg.Database.MigrationsDir)
	}

	// Инициализируем конвертацию таймзон
	converter, err := timezone.NewConverter(cfg.Scheduling.CanonicalTimezone, nil)
	if err != nil {
		log.Fatal("Failed to initialize timezone converter: %v", err)
	}
	tzResolver := timezone.NewResolver(cfg.Scheduling.DefaultTimezone)
	log.Info("Timezone setup: canonical=%s, default=%s",
		cfg.Scheduling.CanonicalTimezone, cfg.Scheduling.DefaultTimezone)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	// Интерфейс для transaction manager (используется в сервисе бронирований)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var (
		dbExecutor dbmetrics.DBExecutor = db
		txMgr      TxManager            = simpletxmanager.NewTransactionManager(db)
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		dbExecutor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	}

	slotRepository := slotRepo.NewRepository(dbExecutor)
	bookingRepository := bookingRepo.NewRepository(dbExecutor)
	recurringRepository := recurringRepo.NewRepository(dbExecutor)

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		slotRepository,
		recurringRepository,
		converter,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		recurringRepository,
		notifyClient,
		converter,
		txMgr,
		time.Duration(cfg.Scheduling.AdmitWindowMinutes)*time.Minute,
		time.Duration(cfg.Scheduling.CountdownWindowMinutes)*time.Minute,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		recurringRepository,
		scheduleSvc,
		userClient,
		notifyClient,
		tzResolver,
		converter,
		cfg.Scheduling.MinLeadTimeMinutes,
		cfg.Scheduling.DefaultDurationMinutes,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		recurringRepository,
		recurringRepository,
		scheduleSvc,
		tzResolver,
		converter,
		cfg.Scheduling.MinLeadTimeMinutes,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getAdmissionState := getAdmissionStateHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getConsultantBookings := getConsultantBookingsHandler.NewHandler(bookingSvc, log)
	getConsultantSchedule := getConsultantScheduleHandler.NewHandler(scheduleSvc, log)
	updateConsultantSchedule := updateConsultantScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение бронирования консультантом
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// Завершение сессии консультантом
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Состояние допуска к сессии
	protected.HandleFunc("/bookings/{bookingId}/admission", getAdmissionState.Handle).Methods(http.MethodGet)

	// История бронирований пользователя
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Консультанты ---
	// Доступные слоты консультанта
	protected.HandleFunc("/consultants/{consultantId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Список бронирований консультанта
	protected.HandleFunc("/consultants/{consultantId}/bookings", getConsultantBookings.Handle).Methods(http.MethodGet)

	// Расписание консультанта
	protected.HandleFunc("/consultants/{consultantId}/schedule", getConsultantSchedule.Handle).Methods(http.MethodGet)

	// Обновление расписания консультанта
	protected.HandleFunc("/consultants/{consultantId}/schedule", updateConsultantSchedule.Handle).Methods(http.MethodPut)

	// CORS для браузерных клиентов
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodOptions,
		}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", middleware.HeaderUserID}),
	)(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
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
