package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/Annybest52/sammy-ai-assistant/internal/agent"
	"github.com/Annybest52/sammy-ai-assistant/internal/api/router"
	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
	appconfig "github.com/Annybest52/sammy-ai-assistant/internal/config"
	"github.com/Annybest52/sammy-ai-assistant/internal/ghl"
	"github.com/Annybest52/sammy-ai-assistant/internal/notify"
	"github.com/Annybest52/sammy-ai-assistant/internal/observability/metrics"
	"github.com/Annybest52/sammy-ai-assistant/internal/session"
	"github.com/Annybest52/sammy-ai-assistant/internal/webchat"
	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sammy-ai-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
		"session_backend", cfg.SessionBackend,
	)

	ctx := context.Background()

	llm, model, err := buildLLM(ctx, cfg)
	if err != nil {
		logger.Error("failed to build LLM client", "error", err)
		os.Exit(1)
	}

	store := buildSessionStore(cfg, logger)

	ghlOpts := []ghl.Option{ghl.WithTimeout(cfg.GHLClientTimeout)}
	if cfg.GHLBaseURL != "" {
		ghlOpts = append(ghlOpts, ghl.WithBaseURL(cfg.GHLBaseURL))
	}
	ghlClient := ghl.NewClient(cfg.GHLAPIKey, cfg.GHLLocationID, logger, ghlOpts...)

	pipelineOpts := []booking.PipelineOption{}
	if cfg.GHLCalendarName != "" {
		pipelineOpts = append(pipelineOpts, booking.WithPreferredCalendar(cfg.GHLCalendarName))
	}
	pipeline := booking.NewPipeline(ghlClient, ghlClient, logger, pipelineOpts...)

	notifier := notify.NewService(
		buildEmailSender(ctx, cfg, logger),
		buildSMSSender(cfg, logger),
		cfg.BusinessEmail,
		cfg.BusinessPhone,
		logger,
	)

	conversationMetrics := metrics.NewConversationMetrics(nil)

	extractor := agent.NewLLMSlotExtractor(llm, model, logger)
	orchestrator := agent.NewOrchestrator(llm, extractor, store, pipeline, notifier, conversationMetrics, agent.OrchestratorConfig{
		Prompt: agent.SystemPromptConfig{
			BusinessName:  cfg.BusinessName,
			BusinessEmail: cfg.BusinessEmail,
		},
		Model:         model,
		MaxTokens:     int32(cfg.MaxTokens),
		Temperature:   float32(cfg.Temperature),
		DefaultLocale: cfg.DefaultLocale,
	}, logger)

	webchatHandler := webchat.NewHandler(orchestrator, store, cfg.DefaultLocale, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webchat:            webchatHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildLLM selects the streaming chat client for the configured provider and
// returns it with the model identifier the orchestrator should request. When
// the primary provider is not Gemini and a Gemini key is also present, the
// client is wrapped so Gemini picks up turns the primary fails on.
func buildLLM(ctx context.Context, cfg *appconfig.Config) (agent.StreamingLLMClient, string, error) {
	var (
		primary agent.StreamingLLMClient
		model   string
		err     error
	)
	switch cfg.LLMProvider {
	case "gemini":
		primary, err = agent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		model = cfg.GeminiModel
	case "bedrock":
		awsCfg, awsErr := loadAWSConfig(ctx, cfg)
		if awsErr != nil {
			return nil, "", awsErr
		}
		primary = agent.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
			if cfg.AWSEndpointOverride != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
			}
		}))
		model = cfg.BedrockModelID
	default:
		primary, err = agent.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		model = cfg.OpenAIModel
	}
	if err != nil {
		return nil, "", err
	}

	if cfg.LLMProvider != "gemini" && cfg.GeminiAPIKey != "" {
		fallback, fbErr := agent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if fbErr == nil {
			return agent.NewFallbackLLMClient(primary, fallback, nil), model, nil
		}
	}
	return primary, model, nil
}

func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if cfg.SessionBackend != "redis" {
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL, otel.Tracer("sammy.internal.session"))
}

// buildEmailSender prefers SendGrid when a key is configured and falls back
// to SES. Returns nil when neither is configured; email is then disabled.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	useSendGrid := cfg.EmailProvider == "sendgrid" || (cfg.EmailProvider == "auto" && cfg.SendGridAPIKey != "")
	if useSendGrid {
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			return s
		}
	}

	if cfg.SESFromEmail != "" {
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES, email disabled", "error", err)
			return nil
		}
		client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
			if cfg.AWSEndpointOverride != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
			}
		})
		if s := notify.NewSESSender(client, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); s != nil {
			return s
		}
	}

	logger.Warn("no email provider configured, email notifications disabled")
	return nil
}

func buildSMSSender(cfg *appconfig.Config, logger *logging.Logger) notify.SMSSender {
	sender := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	}, logger)
	if sender == nil {
		logger.Warn("twilio credentials absent, SMS notifications disabled")
		return nil
	}
	return sender
}

func loadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}
