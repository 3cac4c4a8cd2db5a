package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/refiline/refi-service/internal/config"
	"github.com/refiline/refi-service/internal/handler"
	"github.com/refiline/refi-service/internal/integrations/rates"
	"github.com/refiline/refi-service/internal/middleware"
	"github.com/refiline/refi-service/internal/repository"
	"github.com/refiline/refi-service/internal/scheduler"
	"github.com/refiline/refi-service/internal/service"
	"github.com/refiline/refi-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc)
	ratesClient := rates.NewClient(cfg, logger)
	sender := email.NewSender(cfg, logger)

	// Start background rate checks for alert subscriptions
	sched := scheduler.NewScheduler(repo, ratesClient, sender, logger)
	if err := sched.Start(cfg.AlertCron); err != nil {
		logger.Fatalf("Failed to start alert scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Market rate endpoint
	r.HandleFunc("/market-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := ratesClient.CurrentRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get market rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"market_rate": rate})
	}).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/mortgages", h.CreateMortgage).Methods("POST")
	authRouter.HandleFunc("/mortgages", h.ListMortgages).Methods("GET")
	authRouter.HandleFunc("/mortgages/{id}", h.GetMortgage).Methods("GET")
	authRouter.HandleFunc("/mortgages/{id}", h.DeleteMortgage).Methods("DELETE")
	authRouter.HandleFunc("/mortgages/{id}/schedule", h.Schedule).Methods("GET")
	authRouter.HandleFunc("/mortgages/{id}/recoup", h.Recoup).Methods("POST")
	authRouter.HandleFunc("/mortgages/{id}/frontier", h.Frontier).Methods("GET")
	authRouter.HandleFunc("/alerts", h.CreateAlert).Methods("POST")
	authRouter.HandleFunc("/alerts", h.ListAlerts).Methods("GET")
	authRouter.HandleFunc("/alerts/{id}", h.DeleteAlert).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
