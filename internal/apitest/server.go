// ABOUTME: In-memory product backend for tests, served over httptest
// ABOUTME: Mirrors the REST contract: bearer auth, filters, plain-text auth errors

package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/markalston/product-manager/internal/client"
	"github.com/shopspring/decimal"
)

// Route keys used by Calls and FailNext
const (
	RouteLogin         = "POST /auth/login"
	RouteSignup        = "POST /auth/signup"
	RouteListProducts  = "GET /products"
	RouteGetProduct    = "GET /products/{id}"
	RouteCreateProduct = "POST /products"
	RouteUpdateProduct = "PUT /products/{id}"
	RouteDeleteProduct = "DELETE /products/{id}"
)

type failure struct {
	status int
	body   string
}

// Server is a fake product backend
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	secret    []byte
	products  map[int64]client.Product
	nextID    int64
	users     map[string]string
	revoked   bool
	calls     map[string]int
	failures  map[string][]failure
	lastQuery url.Values
	lastAuth  map[string]string
	delay     map[string]time.Duration
}

// New starts a fake backend that is closed when the test ends
func New(t testing.TB) *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		products: make(map[int64]client.Product),
		nextID:   1,
		users:    make(map[string]string),
		calls:    make(map[string]int),
		failures: make(map[string][]failure),
		lastAuth: make(map[string]string),
		delay:    make(map[string]time.Duration),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the base URL including the /api prefix
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/signup", s.handleSignup)
		r.Get("/products", s.handleList)
		r.Post("/products", s.handleCreate)
		r.Get("/products/{id}", s.handleGet)
		r.Put("/products/{id}", s.handleUpdate)
		r.Delete("/products/{id}", s.handleDelete)
	})
	return r
}

// AddUser registers credentials accepted by /auth/login
func (s *Server) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// IssueToken signs a token for email that the server accepts
func (s *Server) IssueToken(email string) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

// RevokeTokens makes every authenticated route answer 401
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// Seed stores products, assigning ids, and returns them as stored
func (s *Server) Seed(products ...client.Product) []client.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]client.Product, 0, len(products))
	for _, p := range products {
		id := s.nextID
		s.nextID++
		p.ID = client.ProductID(strconv.FormatInt(id, 10))
		s.products[id] = p
		out = append(out, p)
	}
	return out
}

// Products returns the stored products ordered by id
func (s *Server) Products() []client.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Calls returns how many times route was hit, e.g. Calls(RouteListProducts)
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// LastQuery returns the query of the most recent product list request
func (s *Server) LastQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// LastAuthorization returns the Authorization header last sent to route
func (s *Server) LastAuthorization(route string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth[route]
}

// FailNext makes the next request to route answer status with body.
// Calls queue up; each failure is used once.
func (s *Server) FailNext(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, body: body})
}

// Delay holds responses for route by d
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay[route] = d
}

// begin records the call and applies injected failures and auth.
// It returns false when the response has already been written.
func (s *Server) begin(w http.ResponseWriter, r *http.Request, route string, auth bool) bool {
	s.mu.Lock()
	s.calls[route]++
	s.lastAuth[route] = r.Header.Get("Authorization")
	d := s.delay[route]
	var injected *failure
	if queue := s.failures[route]; len(queue) > 0 {
		injected = &queue[0]
		s.failures[route] = queue[1:]
	}
	revoked := s.revoked
	s.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if injected != nil {
		writeText(w, injected.status, injected.body)
		return false
	}
	if auth && (revoked || !s.validToken(r.Header.Get("Authorization"))) {
		writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *Server) validToken(header string) bool {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return false
	}
	_, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	return err == nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteLogin, false) {
		return
	}
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeText(w, http.StatusBadRequest, "Login failed: malformed request")
		return
	}

	s.mu.Lock()
	password, ok := s.users[creds.Email]
	s.mu.Unlock()
	if !ok || password != creds.Password {
		writeText(w, http.StatusUnauthorized, "Login failed: Bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, client.AuthResponse{Token: s.IssueToken(creds.Email)})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteSignup, false) {
		return
	}
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeText(w, http.StatusBadRequest, "Registration failed: malformed request")
		return
	}

	s.mu.Lock()
	_, exists := s.users[creds.Email]
	if !exists {
		s.users[creds.Email] = creds.Password
	}
	s.mu.Unlock()
	if exists {
		writeText(w, http.StatusBadRequest, "Registration failed: email already registered")
		return
	}
	writeText(w, http.StatusOK, "User registered successfully.")
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteListProducts, true) {
		return
	}
	q := r.URL.Query()

	s.mu.Lock()
	s.lastQuery = q
	all := s.sortedLocked()
	s.mu.Unlock()

	matched := make([]client.Product, 0, len(all))
	for _, p := range all {
		if matchesQuery(p, q) {
			matched = append(matched, p)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteGetProduct, true) {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	p, found := s.products[id]
	s.mu.Unlock()
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteCreateProduct, true) {
		return
	}
	var in client.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, "invalid product body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	p := fromInput(client.ProductID(strconv.FormatInt(id, 10)), in)
	s.products[id] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteUpdateProduct, true) {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in client.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, "invalid product body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, found := s.products[id]
	var p client.Product
	if found {
		p = fromInput(client.ProductID(strconv.FormatInt(id, 10)), in)
		s.products[id] = p
	}
	s.mu.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, RouteDeleteProduct, true) {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()

	if !found {
		writeText(w, http.StatusNotFound, "Product not found.")
		return
	}
	writeText(w, http.StatusOK, "Product deleted successfully.")
}

func (s *Server) sortedLocked() []client.Product {
	ids := make([]int64, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]client.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.products[id])
	}
	return out
}

func fromInput(id client.ProductID, in client.ProductInput) client.Product {
	return client.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Rating:      in.Rating,
	}
}

// matchesQuery applies the backend's filter: exact category, inclusive bounds
func matchesQuery(p client.Product, q url.Values) bool {
	if c := q.Get("category"); c != "" && p.Category != c {
		return false
	}
	bounds := []struct {
		key   string
		value decimal.Decimal
		min   bool
	}{
		{"minPrice", p.Price, true},
		{"maxPrice", p.Price, false},
		{"minRating", p.Rating, true},
		{"maxRating", p.Rating, false},
	}
	for _, b := range bounds {
		raw := q.Get(b.key)
		if raw == "" {
			continue
		}
		limit, err := decimal.NewFromString(raw)
		if err != nil {
			return false
		}
		if b.min && b.value.LessThan(limit) {
			return false
		}
		if !b.min && b.value.GreaterThan(limit) {
			return false
		}
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("invalid product id %q", chi.URLParam(r, "id")), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeJSONError matches the {error, code} shape of JSON error bodies
func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}{
		Error: message,
		Code:  code,
	})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if body != "" {
		fmt.Fprint(w, body)
	}
}
