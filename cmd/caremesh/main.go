// Command caremesh runs the customer-support pipeline as an HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/caremesh/caremesh"
	"github.com/caremesh/caremesh/agents/knowledge"
	"github.com/caremesh/caremesh/config"
	"github.com/caremesh/caremesh/conversation"
	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/escalation"
	"github.com/caremesh/caremesh/httpserver"
	"github.com/caremesh/caremesh/logging"
	"github.com/caremesh/caremesh/pipeline"
	"github.com/caremesh/caremesh/ratelimit"
	"github.com/caremesh/caremesh/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "caremesh:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		Output:    os.Stdout,
		Component: "caremesh",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	metrics := telemetry.NewMetrics()
	sink := pipeline.NewQueueSink(cfg.Pipeline.EscalationQueue, logger)
	drain := startEscalationConsumer(sink, logger)

	var knowledgeAgent core.Agent[core.KnowledgeInput, core.KnowledgeOutput]
	if cfg.Knowledge.CorpusPath != "" {
		docs, err := knowledge.LoadDocuments(cfg.Knowledge.CorpusPath)
		if err != nil {
			return fmt.Errorf("load knowledge corpus: %w", err)
		}
		knowledgeAgent = knowledge.NewFromDocuments(docs)
	}

	mesh := caremesh.New(func(o *caremesh.Options) {
		o.Store = store
		o.Agents = pipeline.Agents{Knowledge: knowledgeAgent}
		o.Policy = escalation.Policy{
			SentimentThreshold:      cfg.Escalation.SentimentThreshold,
			TriggerEmotions:         cfg.Escalation.TriggerEmotions,
			ConsecutiveEmotionTurns: cfg.Escalation.ConsecutiveEmotionTurn,
			MaxUnresolvedTurns:      cfg.Escalation.MaxUnresolvedTurns,
		}
		o.AgentTimeout = cfg.Pipeline.AgentTimeout
		o.DefaultLanguage = core.Language(cfg.Pipeline.DefaultLanguage)
		o.KnowledgeTopK = cfg.Knowledge.TopK
		o.DeferredWorkers = cfg.Pipeline.DeferredWorkers
		o.Escalations = sink
		o.Logger = logger.WithComponent("pipeline")
		o.Metrics = metrics
	})

	limiter := ratelimit.New(cfg.RateLimit.Ceiling, cfg.RateLimit.Window)
	handler := httpserver.New(mesh, func(o *httpserver.Options) {
		o.Limiter = limiter
		o.Logger = logger.WithComponent("http")
		o.Metrics = metrics
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err.Error())
	}
	mesh.Shutdown()
	drain()
	return nil
}

// buildStore constructs the configured conversation store and an optional
// close function for backends holding external resources.
func buildStore(ctx context.Context, cfg *config.Config) (core.ContextStore, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return conversation.NewInMemoryStore(), nil, nil
	case "libsql":
		store, err := conversation.OpenLibSQL(cfg.Store.LibSQLPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open libsql store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		store, err := conversation.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.Store.DynamoTable)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// startEscalationConsumer drains the escalation queue into the log until the
// sink's channel is exhausted at shutdown. In a real deployment this is where
// a human-handoff integration would consume from.
func startEscalationConsumer(sink *pipeline.QueueSink, logger logging.Logger) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for payload := range sink.Payloads() {
			logger.Info("escalation queued for human follow-up",
				"interaction_id", payload.InteractionID,
				"conversation_id", payload.ConversationID,
				"customer_id", payload.CustomerID,
				"reason", payload.Reason,
			)
		}
	}()
	return func() {
		sink.Close()
		<-done
	}
}
