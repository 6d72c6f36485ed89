// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pay-ledger/internal/accountrepo"
	"github.com/go-petr/pay-ledger/internal/accountservice"
	"github.com/go-petr/pay-ledger/internal/ledgerdelivery"
	"github.com/go-petr/pay-ledger/internal/ledgerrepo"
	"github.com/go-petr/pay-ledger/internal/ledgerservice"
	"github.com/go-petr/pay-ledger/internal/middleware"
	"github.com/go-petr/pay-ledger/internal/paymentevents"
	"github.com/go-petr/pay-ledger/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn, config.LockTimeout)

	accountService := accountservice.New(accountRepo)
	ledgerService := ledgerservice.New(ledgerRepo, accountService)

	var publisher ledgerdelivery.Publisher = paymentevents.Noop{}
	if config.KafkaBroker != "" {
		publisher = paymentevents.NewKafkaPublisher(config.KafkaTopic, config.KafkaBroker)
	}

	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, publisher)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	authRoutes := engine.Group("/").Use(middleware.APIKeyAuth(config.APIKeyHash, accountService))

	authRoutes.POST("/payments", ledgerHandler.Pay)
	authRoutes.GET("/balance", ledgerHandler.GetBalance)
	authRoutes.GET("/transactions", ledgerHandler.ListTransactions)
	authRoutes.GET("/mutations", ledgerHandler.ListMutations)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", ledgerdelivery.ValidAmount)
		if err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
