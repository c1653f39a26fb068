// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/teya/ledger/internal/ledgerdelivery"
	"github.com/teya/ledger/internal/ledgerrepo"
	"github.com/teya/ledger/internal/ledgerservice"
	"github.com/teya/ledger/internal/middleware"
	"github.com/teya/ledger/pkg/configpkg"
)

// Server holds the account store, handlers router and configuration.
type Server struct {
	Store  *ledgerrepo.RepoMem
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	ledgerRepo := ledgerrepo.NewRepoMem()
	ledgerService := ledgerservice.New(ledgerRepo)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", ledgerHandler.CreateAccount)
	engine.GET("/accounts/:id/balance", ledgerHandler.GetBalance)
	engine.GET("/accounts/:id/transactions", ledgerHandler.ListTransactions)
	engine.POST("/accounts/:id/transactions", ledgerHandler.CreateTransaction)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("transactiontype", ledgerdelivery.ValidTransactionType)
		if err != nil {
			return nil, errors.New("cannot register transaction type validator")
		}
	}

	server := &Server{
		Store:  ledgerRepo,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
