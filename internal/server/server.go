package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bookmart/internal/app"
	"bookmart/internal/util"
	"bookmart/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App
}

// Server exposes the catalog's HTTP endpoints.
type Server struct {
	app *app.App
	mux *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	s := &Server{
		app: cfg.App,
		mux: http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("catalog", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// books
	s.mux.HandleFunc("/books", s.handleBooks)
	s.mux.HandleFunc("/books/", s.handleBookByID)

	// sellers
	s.mux.HandleFunc("/seller", s.handleSellers)
	s.mux.HandleFunc("/seller/", s.handleSellerByID)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateBook(w, r)
	case http.MethodGet:
		s.handleListBooks(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/books/")
	if !ok {
		notFound(w, r, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		book, err := s.app.GetBook(r.Context(), id)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodPut:
		s.handleUpdateBook(w, r, id)
	case http.MethodDelete:
		if err := s.app.DeleteBook(r.Context(), id); err != nil {
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) handleSellers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleRegisterSeller(w, r)
	case http.MethodGet:
		s.handleListSellers(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) handleSellerByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/seller/")
	if !ok {
		notFound(w, r, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		detail, err := s.app.GetSellerDetail(r.Context(), id)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	case http.MethodPut:
		s.handleUpdateSeller(w, r, id)
	case http.MethodDelete:
		if err := s.app.DeleteSeller(r.Context(), id); err != nil {
			writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r)
	}
}

// bookCreateRequest accepts the page count under either name; the
// original API called the field count_pages, and it wins when both are
// present. seller_id in the payload binds the book to its owner forever.
type bookCreateRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	Pages      *int   `json:"pages"`
	CountPages *int   `json:"count_pages"`
	SellerID   int64  `json:"seller_id"`
}

type bookUpdateRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Pages  int    `json:"pages"`
}

type sellerCreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"e_mail"`
	Password  string `json:"password"`
}

type sellerUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"e_mail"`
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pages := req.Pages
	if req.CountPages != nil {
		pages = req.CountPages
	}
	book, err := s.app.CreateBook(r.Context(), app.BookInput{
		Title:    req.Title,
		Author:   req.Author,
		Year:     req.Year,
		Pages:    pages,
		SellerID: req.SellerID,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.app.ListBooks(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request, id int64) {
	var req bookUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := s.app.UpdateBook(r.Context(), id, app.BookUpdateInput{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
		Pages:  req.Pages,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleRegisterSeller(w http.ResponseWriter, r *http.Request) {
	var req sellerCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seller, err := s.app.RegisterSeller(r.Context(), app.SellerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, seller)
}

func (s *Server) handleListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := s.app.ListSellers(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if sellers == nil {
		sellers = []domain.Seller{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sellers": sellers})
}

func (s *Server) handleUpdateSeller(w http.ResponseWriter, r *http.Request, id int64) {
	var req sellerUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	seller, err := s.app.UpdateSeller(r.Context(), id, app.SellerUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

// pathID extracts a numeric id from the path after prefix. Nested or
// non-numeric paths are treated as unknown resources.
func pathID(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON reads a bounded JSON body into dst, answering 422 on a
// malformed payload. Returns false when a response was already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid JSON body", nil)
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
}

func notFound(w http.ResponseWriter, r *http.Request, msg string) {
	writeError(w, r, http.StatusNotFound, msg, nil)
}

// writeAppError maps the service error taxonomy onto HTTP statuses:
// validation failures are 422, the duplicate-email conflict is 400 and
// missing entities are 404. Anything else is an internal error.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *app.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, r, http.StatusUnprocessableEntity, "validation failed", vErr.Fields)
	case errors.Is(err, app.ErrEmailExists):
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, app.ErrSellerNotFound), errors.Is(err, app.ErrBookNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), nil)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCodeFor(status, msg),
		Fields:    fields,
		RequestID: util.RequestIDFromRequest(r),
	})
}

func errorCodeFor(status int, msg string) string {
	message := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case message == "validation failed", message == "invalid json body":
		return "VALIDATION_FAILED"
	case message == "seller with this email already exists":
		return "SELLER_EMAIL_EXISTS"
	case message == "seller not found":
		return "SELLER_NOT_FOUND"
	case message == "book not found":
		return "BOOK_NOT_FOUND"
	case message == "method not allowed":
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case message == "not found":
		return "SYSTEM_NOT_FOUND"
	}

	switch status {
	case http.StatusBadRequest:
		return "REQUEST_ERROR"
	case http.StatusNotFound:
		return "SYSTEM_NOT_FOUND"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}
