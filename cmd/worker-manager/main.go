// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"concours-workers/internal/common/aws"
	"concours-workers/internal/common/camunda"
	"concours-workers/internal/common/config"
	"concours-workers/internal/common/database"
	"concours-workers/internal/common/logger"
	"concours-workers/internal/common/observability"
	"concours-workers/internal/events"
	"concours-workers/internal/notify"
	"concours-workers/internal/search"
	"concours-workers/internal/store"
	"concours-workers/pkg/registry"

	// Admission Workers (4)
	bap "concours-workers/internal/workers/admission/bulk-accept-pending"
	ss "concours-workers/internal/workers/admission/set-status"
	sa "concours-workers/internal/workers/admission/submit-application"
	up "concours-workers/internal/workers/admission/update-profile"

	// Ranking Worker (1)
	rp "concours-workers/internal/workers/ranking/rank-position"

	// Notification Workers (2)
	dn "concours-workers/internal/workers/notification/dispatch-notification"
	mnr "concours-workers/internal/workers/notification/mark-notifications-read"

	// Data Access Workers (2)
	qp "concours-workers/internal/workers/data-access/query-portal"
	"concours-workers/internal/workers/data-access/query-portal/queries"
	sd "concours-workers/internal/workers/data-access/search-dossiers"

	// Reference Workers (2)
	ml "concours-workers/internal/workers/reference/manage-lists"
	mp "concours-workers/internal/workers/reference/manage-positions"

	// Configuration Worker (1)
	ssc "concours-workers/internal/workers/configuration/save-score-config"

	// Auth Worker (1)
	ac "concours-workers/internal/workers/auth/authenticate-candidate"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS Clients ---
	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}
	zapLog.Info("AWS clients initialized")

	// --- Activity Registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded", zap.Int("activities", len(reg.Activities)))

	// --- Shared Services ---
	applicants := store.NewApplicantStore(pg.DB)
	positions := store.NewPositionStore(pg.DB)
	lists := store.NewListStore(pg.DB)
	notifications := store.NewNotificationStore(pg.DB)
	scoreConfig := store.NewScoreConfigStore(pg.DB, redisClient.Client, log)

	publisher := events.NewPublisher(redisClient.Client, cfg.Events.Channel, log)
	mailer := notify.NewMailer(sesClient, cfg.Notifications.SenderEmail, cfg.Notifications.EmailEnabled, log)
	index := search.NewIndex(esClient, log)

	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg, ok := cfg.Workers[taskType]
		if !ok {
			wcfg = config.WorkerConfig{Enabled: true, MaxJobsActive: cfg.Camunda.MaxJobsActive}
		}
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		if reg.FindByTaskType(taskType) == nil {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", taskType))
		}
		w := camunda.NewWorker(zeebeClient.GetClient(), taskType, wcfg.MaxJobsActive, handler, zapLog)
		w.Start()
		workers = append(workers, w)
	}

	// --- 1. Admission Workers (4) ---
	register(sa.TaskType, sa.NewHandler(sa.LoadConfig(), sa.Dependencies{
		Applicants:  applicants,
		Positions:   positions,
		Lists:       lists,
		ScoreConfig: scoreConfig,
		Mailer:      mailer,
		Index:       index,
		Publisher:   publisher,
		Logger:      log,
	}))

	register(up.TaskType, up.NewHandler(up.LoadConfig(), up.Dependencies{
		Applicants:  applicants,
		Positions:   positions,
		ScoreConfig: scoreConfig,
		Index:       index,
		Publisher:   publisher,
		Logger:      log,
	}))

	register(ss.TaskType, ss.NewHandler(ss.LoadConfig(), ss.Dependencies{
		Applicants: applicants,
		Publisher:  publisher,
		Logger:     log,
	}))

	bapConfig := bap.LoadConfig()
	bapConfig.AlertTopicARN = cfg.Notifications.AlertTopicARN
	register(bap.TaskType, bap.NewHandler(bapConfig, bap.Dependencies{
		Applicants: applicants,
		Alerts:     snsClient,
		Publisher:  publisher,
		Logger:     log,
	}))

	// --- 2. Ranking Worker (1) ---
	register(rp.TaskType, rp.NewHandler(rp.LoadConfig(), rp.Dependencies{
		Applicants:  applicants,
		ScoreConfig: scoreConfig,
		Logger:      log,
	}))

	// --- 3. Notification Workers (2) ---
	register(dn.TaskType, dn.NewHandler(dn.LoadConfig(), dn.Dependencies{
		Applicants:    applicants,
		Notifications: notifications,
		Mailer:        mailer,
		Publisher:     publisher,
		Logger:        log,
	}))

	register(mnr.TaskType, mnr.NewHandler(mnr.LoadConfig(), mnr.Dependencies{
		Notifications: notifications,
		Publisher:     publisher,
		Logger:        log,
	}))

	// --- 4. Data Access Workers (2) ---
	register(qp.TaskType, qp.NewHandler(qp.LoadConfig(), &queries.Deps{
		Applicants:    applicants,
		Notifications: notifications,
		Positions:     positions,
		Lists:         lists,
		ScoreConfig:   scoreConfig,
		Events:        publisher,
		Logger:        log,
	}))

	register(sd.TaskType, sd.NewHandler(sd.LoadConfig(), index, log))

	// --- 5. Reference Workers (2) ---
	register(mp.TaskType, mp.NewHandler(mp.LoadConfig(), mp.Dependencies{
		Positions: positions,
		Publisher: publisher,
		Logger:    log,
	}))

	register(ml.TaskType, ml.NewHandler(ml.LoadConfig(), ml.Dependencies{
		Lists:     lists,
		Publisher: publisher,
		Logger:    log,
	}))

	// --- 6. Configuration Worker (1) ---
	register(ssc.TaskType, ssc.NewHandler(ssc.LoadConfig(), ssc.Dependencies{
		ScoreConfig: scoreConfig,
		Publisher:   publisher,
		Logger:      log,
	}))

	// --- 7. Auth Worker (1) ---
	register(ac.TaskType, ac.NewHandler(ac.LoadConfig(), ac.Dependencies{
		Applicants: applicants,
		Mailer:     mailer,
		Logger:     log,
	}))

	zapLog.Info("All workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
