package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billdispute/disputecall/internal/adapter/llm"
	"github.com/billdispute/disputecall/internal/adapter/telephony"
	"github.com/billdispute/disputecall/internal/adapter/tts"
	"github.com/billdispute/disputecall/internal/audio"
	"github.com/billdispute/disputecall/internal/config"
	"github.com/billdispute/disputecall/internal/dialogue"
	"github.com/billdispute/disputecall/internal/extract"
	"github.com/billdispute/disputecall/internal/observability"
	"github.com/billdispute/disputecall/internal/policy"
	"github.com/billdispute/disputecall/internal/repository"
	"github.com/billdispute/disputecall/internal/service"
	"github.com/billdispute/disputecall/internal/store"
	transport "github.com/billdispute/disputecall/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting disputecall...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Public base URL: %s", cfg.PublicBaseURL)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Dialogue model: %s", cfg.DialogueModel)

	// Initialize call-record archive
	archive, err := repository.NewSQLiteArchive(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize archive: %v", err)
	}
	defer archive.Close()

	// Initialize adapters
	llmClient := llm.NewClient(cfg.AnthropicAPIKey, cfg.DialogueTimeout)
	synthesizer := tts.NewSynthesizer(cfg.ElevenLabsAPIKey, cfg.SynthesisTimeout)
	extractor := extract.NewExtractor(cfg.AnthropicAPIKey, cfg.DialogueModel, 30*time.Second)
	dialer, err := telephony.NewDialer(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize dialer: %v", err)
	}

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize metrics and core components
	metrics := observability.NewMetrics()
	generator := dialogue.New(llmClient, cfg.DialogueModel)
	gateway := audio.NewGateway(synthesizer, cfg.DefaultVoiceID, cfg.AudioCacheTTL, metrics)
	contexts := store.NewMemoryContextStore()
	sessions := store.NewMemorySessionRegistry()

	// Initialize service
	svc := service.New(cfg, contexts, sessions, generator, gateway, extractor, dialer, policyEngine, archive, metrics)

	// Create HTTP server
	server := transport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down disputecall...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Disputecall stopped")
}
