package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-voiceagent/internal/config"
	"github.com/xavierca1/ligue-voiceagent/internal/entity"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/database"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/integration/elevenlabs"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/mail"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/queue"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/storage"
	"github.com/xavierca1/ligue-voiceagent/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	if cfg.ElevenLabsAPIKey == "" {
		slog.Warn("ELEVENLABS_API_KEY não configurada; o relay de tokens exigirá Authorization do cliente")
	}

	// 1. Persistência: Postgres quando há DATABASE_URL, senão CSV
	manager := database.NewManager(cfg.DatabaseURL)
	var leadRepo entity.LeadRepository
	if cfg.DatabaseURL != "" {
		leadRepo = database.NewLeadRepository(manager)
		slog.Info("leads persistidos no Postgres")
	} else {
		leadRepo = database.NewCSVLeadRepository(cfg.DataDir)
		slog.Info("DATABASE_URL ausente, leads persistidos em CSV", "dir", cfg.DataDir)
	}

	// 2. Fila de notificação (opcional)
	var rabbitMQ *queue.RabbitMQ
	var notifier usecase.LeadNotifier
	if cfg.RabbitMQURL != "" {
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			slog.Error("RabbitMQ indisponível, seguindo sem fila de notificação", "error", err)
		} else {
			rabbitMQ = rmq
			notifier = queue.NewProducer(rmq.Conn, rmq.Ch)

			var sender queue.LeadNotificationSender
			if cfg.MailHost != "" && cfg.NotifyEmail != "" {
				sender = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.NotifyEmail)
			}
			worker := queue.NewWorker(rmq.Ch, sender)
			go worker.Start(queue.QueueName)
		}
	}

	// 3. Integração ElevenLabs e gravadores locais
	elClient := elevenlabs.NewClient(cfg.ElevenLabsAPIKey, elevenlabs.DefaultBaseURL)
	recorder := storage.NewRecorder(cfg.DataDir)
	debugSink := storage.NewDebugLogSink(cfg.DataDir)

	// 4. UseCases e Handlers
	registerUC := usecase.NewRegisterLeadUseCase(leadRepo, notifier)

	tokenHandler := handlers.NewTokenHandler(elClient, cfg.AgentID)
	leadHandler := handlers.NewLeadHandler(registerUC, leadRepo)
	transcriptHandler := handlers.NewTranscriptHandler(recorder)
	debugHandler := handlers.NewDebugHandler(debugSink)

	var amqpConn *amqp091.Connection
	if rabbitMQ != nil {
		amqpConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(manager, cfg.DatabaseURL, amqpConn)

	// 5. Router
	slog.Info("configurando CORS", "origins", cfg.CORSOrigins)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Ligue VoiceAgent Backend API","status":"running"}`))
	})
	r.Get("/health", healthHandler.HandleLiveness)
	r.Get("/api/health", healthHandler.HandleReadiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/token/realtime-scribe", tokenHandler.HandleRealtimeScribeToken)
	r.Get("/api/conversation/signed-url", tokenHandler.HandleSignedURL)
	r.Get("/api/conversation/token", tokenHandler.HandleConversationToken)

	r.Post("/api/leads/register", leadHandler.HandleRegister)
	r.Get("/api/leads/list", leadHandler.HandleList)
	r.Patch("/api/leads/{leadID}/contato-feito", leadHandler.HandleUpdateContactFlag)

	r.Post("/api/transcripts/stt", transcriptHandler.HandleSTT)
	r.Post("/api/transcripts/tts", transcriptHandler.HandleTTS)

	r.Post("/api/debug/browser-logs", debugHandler.HandleBrowserLogs)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// 6. Sobe o servidor e espera sinal de parada
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("🔥 Server VoiceAgent rodando", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("servidor HTTP encerrou com erro", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if err := manager.Release(); err != nil {
		slog.Warn("erro ao fechar pool de conexões", "error", err)
	}
	if rabbitMQ != nil {
		rabbitMQ.Close()
	}
}
