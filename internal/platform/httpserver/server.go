package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	bagservice "dewey/contexts/player-experience/bag-service"
	bagerrors "dewey/contexts/player-experience/bag-service/domain/errors"
	baghttp "dewey/contexts/player-experience/bag-service/transport/http"
	disccatalog "dewey/contexts/reference-data/disc-catalog"
	catalogerrors "dewey/contexts/reference-data/disc-catalog/domain/errors"
	cataloghttp "dewey/contexts/reference-data/disc-catalog/transport/http"

	_ "dewey/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	bag     bagservice.Module
	catalog disccatalog.Module
}

func New(
	bag bagservice.Module,
	catalog disccatalog.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		bag:     bag,
		catalog: catalog,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /register", s.handleRegisterPlayer)
	s.mux.HandleFunc("POST /bag/add", s.handleAddDisc)
	s.mux.HandleFunc("DELETE /bag/remove", s.handleRemoveDisc)
	s.mux.HandleFunc("GET /bag/view/{user_id}", s.handleViewBag)

	s.mux.HandleFunc("GET /discs", s.handleListDiscs)
	s.mux.HandleFunc("GET /discs/{disc_id}", s.handleGetDisc)
	s.mux.HandleFunc("GET /courses", s.handleListCourses)
}

func (s *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req baghttp.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBagError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.bag.Handler.RegisterPlayerHandler(r.Context(), req)
	if err != nil {
		writeBagDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleAddDisc(w http.ResponseWriter, r *http.Request) {
	var req baghttp.BagCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBagError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.bag.Handler.AddDiscHandler(r.Context(), req)
	if err != nil {
		writeBagDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleRemoveDisc(w http.ResponseWriter, r *http.Request) {
	var req baghttp.BagCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBagError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.bag.Handler.RemoveDiscHandler(r.Context(), req)
	if err != nil {
		writeBagDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleViewBag(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	resp, err := s.bag.Handler.ViewBagHandler(r.Context(), userID)
	if err != nil {
		writeBagDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDiscs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListDiscsHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDisc(w http.ResponseWriter, r *http.Request) {
	discID := r.PathValue("disc_id")
	resp, err := s.catalog.Handler.GetDiscHandler(r.Context(), discID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.ListCoursesHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBagDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bagerrors.ErrInvalidRegistration):
		writeBagError(w, http.StatusBadRequest, "invalid_registration", err.Error())
	case errors.Is(err, bagerrors.ErrInvalidBagCommand):
		writeBagError(w, http.StatusBadRequest, "invalid_bag_command", err.Error())
	case errors.Is(err, bagerrors.ErrDiscNotFound):
		writeBagError(w, http.StatusNotFound, "disc_not_found", err.Error())
	case errors.Is(err, bagerrors.ErrWriteUnavailable):
		writeBagError(w, http.StatusServiceUnavailable, "write_unavailable", "write unavailable")
	default:
		writeBagError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrInvalidDiscID):
		writeCatalogError(w, http.StatusBadRequest, "invalid_disc_id", err.Error())
	case errors.Is(err, catalogerrors.ErrDiscNotFound):
		writeCatalogError(w, http.StatusNotFound, "disc_not_found", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBagError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, baghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
