// Package api — REST API поверх сервисов: таймшиты, просрочки, отсутствия,
// справочники и выставление документов.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"lexdesk/internal/logging"
	"lexdesk/internal/metrics"
	"lexdesk/internal/service"
)

// Services — зависимости обработчиков
type Services struct {
	Users      *service.UserService
	Auth       *service.AuthService
	Clients    *service.ClientService
	Timesheets *service.TimesheetService
	Leave      *service.LeaveService
	Holidays   *service.NonWorkingDayService
	Overdue    *service.OverdueService
	Billing    *service.BillingService
	Metrics    *metrics.Metrics
}

type Server struct {
	svc    Services
	router *mux.Router
	addr   string
	srv    *http.Server
	now    func() time.Time
	logger *logrus.Logger
}

// New собирает сервер и маршруты
func New(addr string, svc Services) *Server {
	s := &Server{
		svc:    svc,
		addr:   addr,
		now:    time.Now,
		logger: logging.New(),
	}
	s.router = s.routes()
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start блокируется до остановки сервера
func (s *Server) Start() error {
	s.logger.WithField("addr", s.addr).Info("HTTP server listening")

	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop мягко завершает сервер
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(
		requestIDMiddleware,
		s.logMiddleware,
		s.metricsMiddleware,
		s.recoverMiddleware,
		securityHeaders,
		maxBodyMiddleware(10<<20),
	)

	if s.svc.Metrics != nil {
		r.Handle("/metrics", s.svc.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAuth, requireAdmin)

	admin.HandleFunc("/overdue", s.overdueAll).Methods(http.MethodGet)
	admin.HandleFunc("/leave/pending", s.pendingLeave).Methods(http.MethodGet)
	admin.HandleFunc("/leave/{id:[0-9]+}/approve", s.approveLeave).Methods(http.MethodPost)
	admin.HandleFunc("/leave/{id:[0-9]+}/reject", s.rejectLeave).Methods(http.MethodPost)

	admin.HandleFunc("/clients", s.createClient).Methods(http.MethodPost)
	admin.HandleFunc("/clients/import", s.importClients).Methods(http.MethodPost)
	admin.HandleFunc("/clients/{id:[0-9]+}", s.updateClient).Methods(http.MethodPut)
	admin.HandleFunc("/clients/{id:[0-9]+}", s.deactivateClient).Methods(http.MethodDelete)
	admin.HandleFunc("/clients/{id:[0-9]+}/topics", s.createTopic).Methods(http.MethodPost)

	admin.HandleFunc("/holidays", s.listHolidays).Methods(http.MethodGet)
	admin.HandleFunc("/holidays", s.addHoliday).Methods(http.MethodPost)
	admin.HandleFunc("/holidays/{date}", s.deleteHoliday).Methods(http.MethodDelete)

	admin.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}/role", s.updateRole).Methods(http.MethodPut)

	admin.HandleFunc("/billing", s.listDocuments).Methods(http.MethodGet)
	admin.HandleFunc("/billing/number/{number}", s.getDocumentByNumber).Methods(http.MethodGet)
	admin.HandleFunc("/billing/{id:[0-9]+}/export", s.exportDocument).Methods(http.MethodGet)
	admin.HandleFunc("/billing/{kind}", s.issueDocument).Methods(http.MethodPost)

	user := api.NewRoute().Subrouter()
	user.Use(s.requireAuth)

	user.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	user.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)

	user.HandleFunc("/timesheets", s.listEntries).Methods(http.MethodGet)
	user.HandleFunc("/timesheets", s.logEntry).Methods(http.MethodPost)
	user.HandleFunc("/timesheets/day", s.daySummary).Methods(http.MethodGet)
	user.HandleFunc("/timesheets/month", s.monthSummary).Methods(http.MethodGet)
	user.HandleFunc("/timesheets/{id:[0-9]+}", s.updateEntry).Methods(http.MethodPut)
	user.HandleFunc("/timesheets/{id:[0-9]+}", s.deleteEntry).Methods(http.MethodDelete)

	user.HandleFunc("/overdue", s.overdueSelf).Methods(http.MethodGet)

	user.HandleFunc("/leave", s.listLeave).Methods(http.MethodGet)
	user.HandleFunc("/leave", s.requestLeave).Methods(http.MethodPost)
	user.HandleFunc("/leave/{id:[0-9]+}/cancel", s.cancelLeave).Methods(http.MethodPost)

	user.HandleFunc("/clients", s.listClients).Methods(http.MethodGet)
	user.HandleFunc("/clients/{id:[0-9]+}/topics", s.listTopics).Methods(http.MethodGet)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
