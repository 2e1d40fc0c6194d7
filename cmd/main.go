package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	approveReservationHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/approve_reservation"
	checkInHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/check_in"
	confirmPaymentHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/confirm_payment"
	createBranchHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/create_branch"
	createClubHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/create_club"
	createEventHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/create_event"
	createGroupHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/create_group"
	csrfTokenHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/csrf_token"
	getEventHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/get_event"
	getEventParticipantsHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/get_event_participants"
	getMyReservationsHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/get_my_reservations"
	getNotificationsHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/get_notifications"
	inviteMemberHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/invite_member"
	joinClubHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/join_club"
	makeReservationHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/make_reservation"
	markNotificationReadHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/mark_notification_read"
	reviewBranchHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/review_branch"
	reviewJoinRequestHandler "github.com/m04kA/SMC-SportHub/internal/api/handlers/review_join_request"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	"github.com/m04kA/SMC-SportHub/internal/config"
	"github.com/m04kA/SMC-SportHub/internal/domain"
	"github.com/m04kA/SMC-SportHub/internal/infra/filestorage"
	branchRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/branch"
	clubRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/club"
	eventRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/event"
	"github.com/m04kA/SMC-SportHub/internal/infra/storage/migrations"
	notificationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/notification"
	profileRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/profile"
	reservationRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/reservation"
	sportRepo "github.com/m04kA/SMC-SportHub/internal/infra/storage/sport"
	"github.com/m04kA/SMC-SportHub/internal/integrations/broker"
	clubsService "github.com/m04kA/SMC-SportHub/internal/service/clubs"
	eventsService "github.com/m04kA/SMC-SportHub/internal/service/events"
	notificationsService "github.com/m04kA/SMC-SportHub/internal/service/notifications"
	reservationsService "github.com/m04kA/SMC-SportHub/internal/service/reservations"
	checkInUC "github.com/m04kA/SMC-SportHub/internal/usecase/check_in"
	makeReservationUC "github.com/m04kA/SMC-SportHub/internal/usecase/make_reservation"
	replaceBranchesUC "github.com/m04kA/SMC-SportHub/internal/usecase/replace_branches"
	reviewBranchUC "github.com/m04kA/SMC-SportHub/internal/usecase/review_branch"
	"github.com/m04kA/SMC-SportHub/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportHub/pkg/logger"
	"github.com/m04kA/SMC-SportHub/pkg/metrics"
	"github.com/m04kA/SMC-SportHub/pkg/txmanager"
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

	log.Info("Starting SMC-SportHub (env=%s)...", cfg.Server.Environment)
	handlers.SetExposeErrors(!cfg.Server.IsProduction())

	// Инициализируем метрики (если включены)
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

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to init migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Обёртка БД и менеджер транзакций (с метриками или без)
	var (
		wrappedDB *dbmetrics.DB
		txMgr     *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		txMgr = txmanager.NewTransactionManager(wrappedDB).WithObserver(metricsCollector)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}
	txMgr.WithMaxRetries(cfg.Database.TxMaxRetries)

	// Инициализируем репозитории
	eventRepository := eventRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	branchRepository := branchRepo.NewRepository(wrappedDB)
	profileRepository := profileRepo.NewRepository(wrappedDB)
	sportRepository := sportRepo.NewRepository(wrappedDB)
	clubRepository := clubRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)

	// Брокер уведомлений (необязателен)
	var publisher notificationsService.Publisher
	if cfg.Broker.Enabled {
		p, err := broker.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to broker: %v", err)
		}
		defer p.Close()
		publisher = p
		log.Info("Notification broker connected (exchange=%s)", cfg.Broker.Exchange)
	}

	// Хранилище файлов сертификатов
	files, err := filestorage.New(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal("Failed to init file storage: %v", err)
	}

	// Рекордеры бизнес-метрик; nil, если метрики выключены
	var (
		reservationMetrics makeReservationUC.MetricsRecorder
		reviewMetrics      reviewBranchUC.MetricsRecorder
	)
	if cfg.Metrics.Enabled {
		reservationMetrics = metricsCollector
		reviewMetrics = metricsCollector
	}

	// Инициализируем сервисы
	notificationSvc := notificationsService.NewService(notificationRepository, clubRepository, publisher, log).
		WithPublishTimeout(time.Duration(cfg.Broker.Timeout) * time.Second)
	reservationSvc := reservationsService.NewService(reservationRepository, eventRepository, profileRepository, notificationSvc, log)
	eventSvc := eventsService.NewService(eventRepository, profileRepository, sportRepository, log)
	clubSvc := clubsService.NewService(clubRepository, profileRepository, txMgr, notificationSvc, log)

	// Инициализируем use cases
	makeReservationUseCase := makeReservationUC.NewUseCase(
		eventRepository,
		reservationRepository,
		profileRepository,
		txMgr,
		notificationSvc,
		reservationMetrics,
		log,
	)
	checkInUseCase := checkInUC.NewUseCase(
		eventRepository,
		reservationRepository,
		profileRepository,
		txMgr,
		log,
	)
	reviewBranchUseCase := reviewBranchUC.NewUseCase(
		branchRepository,
		profileRepository,
		txMgr,
		notificationSvc,
		reviewMetrics,
		log,
	)
	replaceBranchesUseCase := replaceBranchesUC.NewUseCase(
		branchRepository,
		profileRepository,
		sportRepository,
		files,
		txMgr,
		cfg.Uploads.MaxFileSizeBytes,
		log,
	)

	// Middleware
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)
	csrf := middleware.NewCSRF(middleware.CSRFConfig{
		HashKey:    []byte(cfg.CSRF.HashKey),
		CookieName: cfg.CSRF.CookieName,
		HeaderName: cfg.CSRF.HeaderName,
		Secure:     cfg.CSRF.Secure,
		MaxAge:     cfg.CSRF.MaxAge,
	}, log)

	// Инициализируем handlers
	csrfToken := csrfTokenHandler.NewHandler(csrf, log)
	makeReservation := makeReservationHandler.NewHandler(makeReservationUseCase, log)
	checkIn := checkInHandler.NewHandler(checkInUseCase, log)
	getMyReservations := getMyReservationsHandler.NewHandler(reservationSvc, log)
	getEventParticipants := getEventParticipantsHandler.NewHandler(reservationSvc, log)
	approveReservation := approveReservationHandler.NewHandler(reservationSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(reservationSvc, log)
	createBranch := createBranchHandler.NewHandler(
		replaceBranchesUseCase,
		cfg.Uploads.MaxFormMemory,
		cfg.Uploads.MaxRequestBytes,
		cfg.Uploads.ParseTimeoutDuration(),
		log,
	)
	createEvent := createEventHandler.NewHandler(eventSvc, log)
	getEvent := getEventHandler.NewHandler(eventSvc, log)
	approveBranch := reviewBranchHandler.NewHandler(reviewBranchUseCase, domain.BranchApproved, log)
	rejectBranch := reviewBranchHandler.NewHandler(reviewBranchUseCase, domain.BranchRejected, log)
	createClub := createClubHandler.NewHandler(clubSvc, log)
	createGroup := createGroupHandler.NewHandler(clubSvc, log)
	inviteMember := inviteMemberHandler.NewHandler(clubSvc, log)
	joinClub := joinClubHandler.NewHandler(clubSvc, log)
	approveJoinRequest := reviewJoinRequestHandler.NewHandler(clubSvc, domain.JoinApproved, log)
	rejectJoinRequest := reviewJoinRequestHandler.NewHandler(clubSvc, domain.JoinRejected, log)
	getNotifications := getNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recoverer(log), middleware.RequestLogger(log))

	// Metrics middleware и endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	if cfg.CSRF.Enabled {
		api.Use(csrf.Protect)
		api.HandleFunc("/csrf-token", csrfToken.Handle).Methods(http.MethodGet)
		log.Info("CSRF protection enabled (header=%s)", cfg.CSRF.HeaderName)
	}

	// ============================================================
	// PROTECTED ROUTES (Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	coachOnly := middleware.RequireRole(domain.RoleCoach)
	clubCreators := middleware.RequireRole(domain.RoleCoach, domain.RoleOwner, domain.RoleAdmin)

	// --- Участник ---
	participant := protected.PathPrefix("/participant").Subrouter()
	participant.Use(middleware.RequireRole(domain.RoleParticipant))
	participant.HandleFunc("/make-reservation", makeReservation.Handle).Methods(http.MethodPost)
	participant.HandleFunc("/check-in", checkIn.Handle).Methods(http.MethodPost)
	participant.HandleFunc("/reservations", getMyReservations.Handle).Methods(http.MethodGet)

	// --- Тренер (и администратор для управления бронированиями) ---
	coach := protected.PathPrefix("/coach").Subrouter()
	coach.Use(middleware.RequireRole(domain.RoleCoach, domain.RoleAdmin))
	coach.HandleFunc("/event/participants/{eventId}", getEventParticipants.Handle).Methods(http.MethodPost)
	coach.HandleFunc("/approve-reservation/{requestId}", approveReservation.Handle).Methods(http.MethodPost)
	coach.HandleFunc("/confirm-payment/{requestId}", confirmPayment.Handle).Methods(http.MethodPost)
	coach.Handle("/create-branch", coachOnly(http.HandlerFunc(createBranch.Handle))).Methods(http.MethodPost)
	coach.Handle("/events", coachOnly(http.HandlerFunc(createEvent.Handle))).Methods(http.MethodPost)

	// --- События ---
	protected.HandleFunc("/events/{eventId}", getEvent.Handle).Methods(http.MethodGet)

	// --- Администратор ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/coaches/branches/{branchId}/approve", approveBranch.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/coaches/branches/{branchId}/reject", rejectBranch.Handle).Methods(http.MethodPut)

	// --- Клубы и группы (права на конкретный клуб проверяет сервис) ---
	protected.Handle("/clubs", clubCreators(http.HandlerFunc(createClub.Handle))).Methods(http.MethodPost)
	protected.Handle("/clubs/{clubId}/groups", clubCreators(http.HandlerFunc(createGroup.Handle))).Methods(http.MethodPost)
	protected.HandleFunc("/clubs/{clubId}/invites", inviteMember.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/clubs/{clubId}/join", joinClub.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{groupId}/join", joinClub.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/join-requests/{requestId}/approve", approveJoinRequest.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/join-requests/{requestId}/reject", rejectJoinRequest.Handle).Methods(http.MethodPut)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", getNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
