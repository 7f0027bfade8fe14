package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"

	"business-advisor/chat"
	"business-advisor/completion"
)

var log = logging.MustGetLogger("log")

// InitLogger Receives the log level to be set in go-logging as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	baseBackend := logging.NewLogBackend(os.Stdout, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s}     %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(logLevelCode, "")

	// Set the backends to be used.
	logging.SetBackend(backendLeveled)
	return nil
}

func main() {
	// A local .env can supply the completion key during development.
	godotenv.Load()

	config, err := InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	if err := InitLogger(config.LogLevel); err != nil {
		log.Fatalf("%s", err)
	}

	log.Debugf("Config: %+v", config)

	client := completion.NewHTTPClient(
		config.CompletionURL,
		config.CompletionAPIKey,
		time.Duration(config.CompletionTimeoutSeconds)*time.Second,
	)
	params := completion.Params{
		Model:       config.Model,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxCompletionTokens,
	}
	orchestrator := chat.NewOrchestrator(client, params, config.HistoryWindow)

	server := NewServer(chat.NewRegistry(), orchestrator)

	httpServer := &http.Server{
		Addr:    config.Address,
		Handler: server.Router(),
	}

	go func() {
		log.Infof("Listening on %s", config.Address)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infof("Received signal %s, shutting down advisor...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Failed to shut down cleanly: %v", err)
	}
}
