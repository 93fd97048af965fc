// Package http exposes the ledger operations as a small JSON API, the
// surface an interactive front end would call.
package http

import (
	"net/http"

	"github.com/peter4652k/debttracker/internal/ledger"
)

type Server struct {
	http.Server
	ledger *ledger.Ledger
}

func NewServer(addr string, l *ledger.Ledger) *Server {
	s := &Server{ledger: l}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("POST /api/customers", s.handleAddCustomer)
	mux.HandleFunc("POST /api/customers/{name}/payments", s.handleApplyPayment)
	mux.HandleFunc("PUT /api/customers", s.handleReconcile)
	mux.HandleFunc("GET /api/customers/export", s.handleExport)

	s.Server.Addr = addr
	s.Server.Handler = withTrace(mux)
	return s
}
