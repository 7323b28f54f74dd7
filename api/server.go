package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/crosslinktech/crosslink-relay/api/handlers"
)

func Serve(
	ctx context.Context,
	addr string,
	transferHandler *handlers.TransferHandler,
	resendHandler *handlers.ResendHandler,
	quoteHandler *handlers.QuoteHandler,
	relayQuoteHandler *handlers.RelayQuoteHandler,
	depositHandler *handlers.DepositHandler,
	adminHandler *handlers.AdminHandler,
) {
	r := mux.NewRouter()
	r.HandleFunc("/v1/controllers/{controller}/transfers", transferHandler.HandleTransfer).Methods("POST")
	r.HandleFunc("/v1/controllers/{controller}/transfers/{transferId}/resend", resendHandler.HandleResend).Methods("POST")
	r.HandleFunc("/v1/adapters/{adapter}/quote", relayQuoteHandler.HandleQuote).Methods("GET")
	r.HandleFunc("/v1/admin/adapters/{adapter}/pause", adminHandler.HandleAdapterPause).Methods("POST")
	r.HandleFunc("/v1/admin/adapters/{adapter}/unpause", adminHandler.HandleAdapterUnpause).Methods("POST")
	r.HandleFunc("/v1/admin/controllers/{controller}/pause", adminHandler.HandleControllerPause).Methods("POST")
	r.HandleFunc("/v1/admin/controllers/{controller}/unpause", adminHandler.HandleControllerUnpause).Methods("POST")
	// the fee wrappers are optional deployments
	if quoteHandler != nil {
		r.HandleFunc("/v1/controllers/{controller}/quote", quoteHandler.HandleQuote).Methods("GET")
	}
	if depositHandler != nil {
		r.HandleFunc("/v1/deposits", depositHandler.HandleDeposit).Methods("POST")
	}

	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Second * 10,
	}
	go func() {
		log.Info().Msgf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Msgf("Error shutting down server")
	} else {
		log.Info().Msgf("Server shut down gracefully.")
	}
}
