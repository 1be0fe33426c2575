package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stakevest/core"
	"stakevest/observability"
)

const (
	jsonRPCVersion        = "2.0"
	maxRequestBytes       = 1 << 20 // 1 MiB
	rateLimitWindow       = time.Minute
	maxMutationsPerWindow = 30
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32020
)

// AuthTokenEnv names the environment variable holding the bearer token that
// guards mutating methods.
const AuthTokenEnv = "STAKEVEST_RPC_TOKEN"

type rateLimiter struct {
	count       int
	windowStart time.Time
}

// Server exposes the node operations over JSON-RPC 2.0.
type Server struct {
	node *core.Node

	mu           sync.Mutex
	rateLimiters map[string]*rateLimiter
	authToken    string
}

// NewServer builds a server over the node, reading the auth token from the
// environment.
func NewServer(node *core.Node) *Server {
	return &Server{
		node:         node,
		rateLimiters: make(map[string]*rateLimiter),
		authToken:    strings.TrimSpace(os.Getenv(AuthTokenEnv)),
	}
}

// Router assembles the HTTP surface: the JSON-RPC endpoint plus health and
// metrics handlers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.handle)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// Start serves the router on addr with default timeouts. The daemon builds
// its own http.Server when it needs configured timeouts.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

type authError struct {
	Code    int
	Message string
	Data    interface{}
}

func (s *Server) requireAuth(r *http.Request) *authError {
	if s.authToken == "" {
		return &authError{Code: codeUnauthorized, Message: "RPC auth token not configured"}
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &authError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &authError{Code: codeUnauthorized, Message: "invalid bearer token"}
	}
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// allowMutation applies a per-source sliding window on mutating methods.
func (s *Server) allowMutation(source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	limiter, ok := s.rateLimiters[source]
	if !ok || now.Sub(limiter.windowStart) >= rateLimitWindow {
		s.rateLimiters[source] = &rateLimiter{count: 1, windowStart: now}
		return true
	}
	if limiter.count >= maxMutationsPerWindow {
		return false
	}
	limiter.count++
	return true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request body", nil)
		return
	}
	if len(body) > maxRequestBytes {
		writeError(w, http.StatusRequestEntityTooLarge, nil, codeInvalidRequest, "request body too large", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON-RPC request", err.Error())
		return
	}
	if req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "jsonrpc version must be 2.0", nil)
		return
	}

	handler, ok := s.methods()[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method), nil)
		return
	}
	if handler.mutating {
		if authErr := s.requireAuth(r); authErr != nil {
			observability.ModuleMetrics().ObserveError(req.Method, "unauthorized")
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		if !s.allowMutation(clientIP(r)) {
			observability.ModuleMetrics().ObserveError(req.Method, "rate_limited")
			writeError(w, http.StatusTooManyRequests, req.ID, codeRateLimited, "rate limit exceeded", nil)
			return
		}
	}

	started := time.Now()
	outcome := handler.fn(w, r, &req)
	observability.ModuleMetrics().ObserveRequest(req.Method, outcome, started)
}

type methodHandler struct {
	fn       func(http.ResponseWriter, *http.Request, *RPCRequest) string
	mutating bool
}

func (s *Server) methods() map[string]methodHandler {
	return map[string]methodHandler{
		"vesting_initialize":       {fn: s.handleInitialize, mutating: true},
		"vesting_register":         {fn: s.handleRegister, mutating: true},
		"vesting_seedStake":        {fn: s.handleSeedStake, mutating: true},
		"vesting_depositRewards":   {fn: s.handleDepositRewards, mutating: true},
		"vesting_withdrawReserve":  {fn: s.handleWithdrawReserve, mutating: true},
		"vesting_stake":            {fn: s.handleStake, mutating: true},
		"vesting_unstake":          {fn: s.handleUnstake, mutating: true},
		"vesting_claimYield":       {fn: s.handleClaimYield, mutating: true},
		"vesting_claimReflections": {fn: s.handleClaimReflections, mutating: true},
		"vesting_config":           {fn: s.handleConfig},
		"vesting_position":         {fn: s.handlePosition},
		"vesting_balance":          {fn: s.handleBalance},
	}
}
