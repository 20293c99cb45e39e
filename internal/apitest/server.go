// Package apitest provides an in-memory Finance Tracker API for tests.
//
// The fake mirrors the routes, envelopes and error bodies of the real API
// closely enough to exercise the client, the session store and the CLI
// end to end, and records every request so tests can assert call order.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fintracker/fintrack/pkg/domain"
)

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
}

type account struct {
	user     domain.User
	password string
}

// Server is a fake Finance Tracker API.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	accounts map[string]*account // by email
	tokens   map[string]string   // token -> email
	methods  []domain.FinanceMethod
	contacts []domain.Contact
	requests []Request
	nextID   int
}

// New starts a fake API that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API base URL, including the /api prefix.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// AddUser registers an account directly and returns a valid session for it.
func (s *Server) AddUser(name, email, password, role string) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, role)
}

func (s *Server) addUserLocked(name, email, password, role string) domain.Session {
	a := &account{
		user:     domain.User{ID: s.newIDLocked(), Name: name, Email: email, Role: role},
		password: password,
	}
	s.accounts[email] = a
	return s.issueLocked(a)
}

func (s *Server) issueLocked(a *account) domain.Session {
	tok := "tok-" + uuid.NewString()
	s.tokens[tok] = a.user.Email
	return domain.Session{User: a.user, Token: tok}
}

// AddMethod stores a finance method, assigning an ID when empty.
func (s *Server) AddMethod(m domain.FinanceMethod) domain.FinanceMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = s.newIDLocked()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.methods = append(s.methods, m)
	return m
}

// AddContact stores an inquiry, assigning an ID when empty.
func (s *Server) AddContact(c domain.Contact) domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.newIDLocked()
	}
	if c.Status == "" {
		c.Status = domain.StatusPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.contacts = append(s.contacts, c)
	return c
}

// Methods returns a copy of the stored finance methods.
func (s *Server) Methods() []domain.FinanceMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FinanceMethod(nil), s.methods...)
}

// Contacts returns a copy of the stored inquiries.
func (s *Server) Contacts() []domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Contact(nil), s.contacts...)
}

// Requests returns every request received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) newIDLocked() string {
	s.nextID++
	return fmt.Sprintf("%024x", s.nextID)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/profile", s.protect(false, s.profile)).Methods(http.MethodGet)

	api.HandleFunc("/contact", s.submitContact).Methods(http.MethodPost)
	api.HandleFunc("/contact", s.protect(true, s.listContacts)).Methods(http.MethodGet)
	api.HandleFunc("/contact/{id}", s.protect(true, s.updateContact)).Methods(http.MethodPut)
	api.HandleFunc("/contact/{id}", s.protect(true, s.deleteContact)).Methods(http.MethodDelete)

	api.HandleFunc("/finance-methods", s.listMethods).Methods(http.MethodGet)
	api.HandleFunc("/finance-methods", s.protect(true, s.createMethod)).Methods(http.MethodPost)
	api.HandleFunc("/finance-methods/{id}", s.getMethod).Methods(http.MethodGet)
	api.HandleFunc("/finance-methods/{id}", s.protect(true, s.updateMethod)).Methods(http.MethodPut)
	api.HandleFunc("/finance-methods/{id}", s.protect(true, s.deleteMethod)).Methods(http.MethodDelete)
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) protect(adminOnly bool, h func(http.ResponseWriter, *http.Request, domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tok == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		s.mu.Lock()
		email, found := s.tokens[tok]
		var u domain.User
		if found {
			u = s.accounts[email].user
		}
		s.mu.Unlock()
		if !found {
			writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		if adminOnly && u.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		h(w, r, u)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide all fields")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.Email]; exists {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	writeJSON(w, http.StatusCreated, s.addUserLocked(in.Name, in.Email, in.Password, domain.RoleUser))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[in.Email]
	if !ok || a.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, s.issueLocked(a))
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request, u domain.User) {
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var in domain.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Name == "" || in.Email == "" || in.Subject == "" || in.Message == "" {
		writeError(w, http.StatusBadRequest, "Please fill in all required fields")
		return
	}
	if in.InquiryType == "" {
		in.InquiryType = domain.InquiryGeneral
	}
	c := s.AddContact(domain.Contact{
		Name:        in.Name,
		Email:       in.Email,
		InquiryType: in.InquiryType,
		Subject:     in.Subject,
		Message:     in.Message,
	})
	writeData(w, http.StatusCreated, c)
}

func (s *Server) listContacts(w http.ResponseWriter, _ *http.Request, _ domain.User) {
	writeData(w, http.StatusOK, s.Contacts())
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var in struct {
		Status domain.ContactStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].Status = in.Status
			writeData(w, http.StatusOK, s.contacts[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Contact not found")
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			writeData(w, http.StatusOK, map[string]string{})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Contact not found")
}

func (s *Server) listMethods(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := strings.ToLower(r.URL.Query().Get("search"))
	out := []domain.FinanceMethod{}
	for _, m := range s.Methods() {
		if category != "" && string(m.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Title), search) &&
			!strings.Contains(strings.ToLower(m.Description), search) {
			continue
		}
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(out), "data": out})
}

func (s *Server) getMethod(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, m := range s.Methods() {
		if m.ID == id {
			writeData(w, http.StatusOK, m)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Finance method not found")
}

// decodeMethod returns the payload, or a client-facing message when it is invalid.
func decodeMethod(r *http.Request) (domain.FinanceMethodInput, string) {
	var in domain.FinanceMethodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, "Invalid request body"
	}
	if in.Title == "" || in.Description == "" || in.Methodology == "" || !domain.ValidCategory(in.Category) {
		return in, "Please provide title, description, category and methodology"
	}
	return in, ""
}

func (s *Server) createMethod(w http.ResponseWriter, r *http.Request, _ domain.User) {
	in, msg := decodeMethod(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	m := s.AddMethod(domain.FinanceMethod{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Methodology: in.Methodology,
		Benefits:    in.Benefits,
		ImageURL:    in.ImageURL,
	})
	writeData(w, http.StatusCreated, m)
}

func (s *Server) updateMethod(w http.ResponseWriter, r *http.Request, _ domain.User) {
	in, msg := decodeMethod(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.methods {
		if s.methods[i].ID == id {
			m := &s.methods[i]
			m.Title, m.Description, m.Category = in.Title, in.Description, in.Category
			m.Methodology, m.Benefits, m.ImageURL = in.Methodology, in.Benefits, in.ImageURL
			writeData(w, http.StatusOK, *m)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Finance method not found")
}

func (s *Server) deleteMethod(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.methods {
		if s.methods[i].ID == id {
			s.methods = append(s.methods[:i], s.methods[i+1:]...)
			writeData(w, http.StatusOK, map[string]string{})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Finance method not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"success": true, "data": v})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}
