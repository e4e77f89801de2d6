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
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TableBookingService/internal/api/handlers"
	bookingOverridesHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/booking_overrides"
	changeBookingStatusHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/change_booking_status"
	createBookingHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/get_booking"
	getBranchBookingsHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/get_branch_bookings"
	getBranchSettingsHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/get_branch_settings"
	getUserBookingsHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/get_user_bookings"
	materializeSlotsHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/materialize_slots"
	updateBranchSettingsHandler "github.com/m04kA/SMC-TableBookingService/internal/api/handlers/update_branch_settings"
	"github.com/m04kA/SMC-TableBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TableBookingService/internal/config"
	"github.com/m04kA/SMC-TableBookingService/internal/domain"
	availabilityCache "github.com/m04kA/SMC-TableBookingService/internal/infra/cache/availability"
	bookingRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/booking"
	overrideRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/override"
	settingsRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/settings"
	timeslotRepo "github.com/m04kA/SMC-TableBookingService/internal/infra/storage/timeslot"
	bookingsService "github.com/m04kA/SMC-TableBookingService/internal/service/bookings"
	overridesService "github.com/m04kA/SMC-TableBookingService/internal/service/overrides"
	settingsService "github.com/m04kA/SMC-TableBookingService/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-TableBookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-TableBookingService/internal/usecase/get_availability"
	materializeSlotsUC "github.com/m04kA/SMC-TableBookingService/internal/usecase/materialize_slots"
	materializerWorker "github.com/m04kA/SMC-TableBookingService/internal/worker/materializer"
	"github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBookingService/pkg/logger"
	"github.com/m04kA/SMC-TableBookingService/pkg/metrics"
	"github.com/m04kA/SMC-TableBookingService/pkg/txmanager"
)

const defaultConfigPath = "config.toml"

func main() {
	// .env опционален, уже заданные переменные окружения важнее
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Printf("Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-TableBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (nil-коллектор безопасен: все методы no-op)
	var metricsCollector *metrics.Metrics
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxRetries(cfg.Database.TxMaxRetries))

	// Кэш доступности (выключен, если redis.enabled = false)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable, availability cache disabled: %v", err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			log.Info("Availability cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.AvailabilityTTLDuration())
		}
		cancelPing()
	}
	cache := availabilityCache.NewCache(redisClient, cfg.Redis.AvailabilityTTLDuration(), metricsCollector)

	// Репозитории
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	timeslotRepository := timeslotRepo.NewRepository(wrappedDB)
	overrideRepository := overrideRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	location := cfg.Booking.Location()
	defaults, err := defaultStatuses(cfg.Booking)
	if err != nil {
		log.Fatal("Invalid booking default statuses: %v", err)
	}

	// Сервисы
	settingsSvc := settingsService.NewService(settingsRepository, log)
	overridesSvc := overridesService.NewService(overrideRepository, cache, log)
	bookingsSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		cache,
		metricsCollector,
		&bookingsService.RealTimeProvider{},
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		timeslotRepository,
		settingsRepository,
		overrideRepository,
		txMgr,
		cache,
		metricsCollector,
		defaults,
		location,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		settingsRepository,
		timeslotRepository,
		bookingRepository,
		overrideRepository,
		cache,
		location,
		cfg.Booking.LastBookingCutoffMinutes,
		log,
	)
	materializeSlotsUseCase := materializeSlotsUC.NewUseCase(
		settingsRepository,
		timeslotRepository,
		cache,
		metricsCollector,
		cfg.Materializer.RollingDays,
		location,
		log,
	)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingsSvc, log)
	getBranchBookings := getBranchBookingsHandler.NewHandler(bookingsSvc, log)
	confirmBooking := changeBookingStatusHandler.NewHandler(bookingsSvc, domain.StatusConfirmed, log)
	arriveBooking := changeBookingStatusHandler.NewHandler(bookingsSvc, domain.StatusArrived, log)
	completeBooking := changeBookingStatusHandler.NewHandler(bookingsSvc, domain.StatusCompleted, log)
	cancelBooking := changeBookingStatusHandler.NewHandler(bookingsSvc, domain.StatusCancelled, log)
	getBranchSettings := getBranchSettingsHandler.NewHandler(settingsSvc, log)
	updateBranchSettings := updateBranchSettingsHandler.NewHandler(settingsSvc, log)
	bookingOverrides := bookingOverridesHandler.NewHandler(overridesSvc, log)
	materializeSlots := materializeSlotsHandler.NewHandler(materializeSlotsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware())
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность слотов на дату
	api.HandleFunc("/branches/{branchId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Настройки бронирования филиала
	api.HandleFunc("/branches/{branchId}/settings", getBranchSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// GUEST ROUTES (гость или авторизованный пользователь)
	// ============================================================

	guest := api.PathPrefix("").Subrouter()
	guest.Use(middleware.OptionalAuth)

	// Создание бронирования
	guest.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/arrive", arriveBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// OPERATOR ROUTES (X-User-Role: operator)
	// ============================================================

	operator := api.PathPrefix("/branches/{branchId}").Subrouter()
	operator.Use(middleware.Auth, middleware.RequireOperator)

	operator.HandleFunc("/bookings", getBranchBookings.Handle).Methods(http.MethodGet)
	operator.HandleFunc("/settings", updateBranchSettings.Handle).Methods(http.MethodPut)
	operator.HandleFunc("/slots/materialize", materializeSlots.Handle).Methods(http.MethodPost)

	// --- Исключения из расписания ---
	operator.HandleFunc("/overrides", bookingOverrides.Create).Methods(http.MethodPost)
	operator.HandleFunc("/overrides", bookingOverrides.List).Methods(http.MethodGet)
	operator.HandleFunc("/overrides/{overrideId}", bookingOverrides.Get).Methods(http.MethodGet)
	operator.HandleFunc("/overrides/{overrideId}", bookingOverrides.Update).Methods(http.MethodPut)
	operator.HandleFunc("/overrides/{overrideId}", bookingOverrides.Delete).Methods(http.MethodDelete)

	// Фоновая материализация слотов
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var worker *materializerWorker.Worker
	if cfg.Materializer.Enabled {
		worker = materializerWorker.New(
			settingsRepository,
			materializeSlotsUseCase,
			cfg.Materializer.Interval(),
			0, // горизонт берется из настроек филиала, иначе materializer.rolling_days
			log,
		)
		go worker.Start(workerCtx)
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if worker != nil {
		stopWorker()
		worker.Stop()
		log.Info("Slot materializer stopped")
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}

// defaultStatuses начальные статусы бронирования из конфигурации
func defaultStatuses(cfg config.BookingConfig) (createBookingUC.DefaultStatuses, error) {
	guest, err := domain.ParseBookingStatus(cfg.GuestDefaultStatus)
	if err != nil {
		return createBookingUC.DefaultStatuses{}, err
	}
	user, err := domain.ParseBookingStatus(cfg.UserDefaultStatus)
	if err != nil {
		return createBookingUC.DefaultStatuses{}, err
	}
	operator, err := domain.ParseBookingStatus(cfg.OperatorDefaultStatus)
	if err != nil {
		return createBookingUC.DefaultStatuses{}, err
	}
	return createBookingUC.DefaultStatuses{
		Guest:    guest,
		User:     user,
		Operator: operator,
	}, nil
}
