// Package server binds the GraphQL schema to HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/gqlerror"
	"github.com/dgraph-io/gqlparser/v2/parser"
	graphql "github.com/graph-gophers/graphql-go"
)

const maxBodyBytes = 1 << 20

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeInvalid = "invalid"

	operationUnknown = "unknown"
)

// requestError is a client mistake reported verbatim in the errors array.
type requestError string

func (e requestError) Error() string { return string(e) }

const (
	errNoQuery       requestError = "Must provide query string."
	errBadJSON       requestError = "POST body sent invalid JSON."
	errBadVariables  requestError = "Variables are invalid JSON."
	errMutationOnGet requestError = "Can only perform a mutation operation from a POST request."
	errBodyTooLarge  requestError = "POST body is too large."
)

// Handler serves GraphQL over HTTP: queries by GET or POST, mutations by
// POST only, and optionally the GraphiQL console for browsers.
type Handler struct {
	schema   *graphql.Schema
	logger   *slog.Logger
	metrics  *Metrics
	graphiql bool
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithGraphiQL serves the interactive console to GET requests from a browser.
func WithGraphiQL(enabled bool) Option {
	return func(h *Handler) { h.graphiql = enabled }
}

func NewHandler(schema *graphql.Schema, opts ...Option) *Handler {
	h := &Handler{
		schema: schema,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

type params struct {
	Query         string
	OperationName string
	Variables     map[string]any
}

type errorResponse struct {
	Errors any `json:"errors"`
}

type message struct {
	Message string `json:"message"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.graphiql && wantsConsole(r) {
		serveConsole(w)
		return
	}

	p, err := readParams(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.metrics.observe(operationUnknown, outcomeInvalid, 0)
		h.writeJSON(w, status, errorResponse{Errors: []message{{err.Error()}}})
		return
	}

	operation, gqlErr := classify(p.Query, p.OperationName)
	if gqlErr != nil {
		h.metrics.observe(operationUnknown, outcomeInvalid, 0)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Errors: gqlerror.List{gqlErr}})
		return
	}

	if r.Method == http.MethodGet && operation == string(ast.Mutation) {
		h.metrics.observe(operation, outcomeInvalid, 0)
		w.Header().Set("Allow", http.MethodPost)
		h.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Errors: []message{{errMutationOnGet.Error()}}})
		return
	}

	start := time.Now()
	resp := h.schema.Exec(r.Context(), p.Query, p.OperationName, p.Variables)
	elapsed := time.Since(start)

	status, outcome := http.StatusOK, outcomeOK
	if len(resp.Errors) > 0 {
		outcome = outcomeError
		if resp.Data == nil {
			status, outcome = http.StatusBadRequest, outcomeInvalid
		}
	}

	for _, qe := range resp.Errors {
		if outcome == outcomeInvalid {
			h.logger.DebugContext(r.Context(), "graphql: rejected document", "error", qe.Message)
			continue
		}
		h.logger.ErrorContext(r.Context(), "graphql: resolver failed",
			"operation", operation,
			"path", qe.Path,
			"error", qe.Message,
		)
	}

	h.metrics.observe(operation, outcome, elapsed)
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("graphql: response encode failed", "error", err)
	}
}

// classify parses the document just far enough to learn the type of the
// operation that will run. An ambiguous selection is left to the executor.
func classify(query, operationName string) (string, *gqlerror.Error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: query})
	if gqlErr != nil {
		return "", gqlErr
	}

	op := doc.Operations.ForName(operationName)
	if op == nil {
		return operationUnknown, nil
	}

	return string(op.Operation), nil
}

// readParams collects query, operationName and variables from the URL and,
// for POST, from the body. Body values win.
func readParams(w http.ResponseWriter, r *http.Request) (params, error) {
	p, err := paramsFromValues(r.URL.Query())
	if err != nil {
		return params{}, err
	}

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := mergeBody(&p, r); err != nil {
			return params{}, err
		}
	}

	if p.Query == "" {
		return params{}, errNoQuery
	}

	return p, nil
}

func mergeBody(p *params, r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var body struct {
			Query         string          `json:"query"`
			OperationName string          `json:"operationName"`
			Variables     json.RawMessage `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return bodyError(err, errBadJSON)
		}
		vars, err := decodeVariables(body.Variables)
		if err != nil {
			return err
		}
		override(p, params{Query: body.Query, OperationName: body.OperationName, Variables: vars})

	case "application/graphql":
		query, err := io.ReadAll(r.Body)
		if err != nil {
			return bodyError(err, fmt.Errorf("read body: %w", err))
		}
		override(p, params{Query: string(query)})

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return bodyError(err, fmt.Errorf("read form: %w", err))
		}
		form, err := paramsFromValues(r.PostForm)
		if err != nil {
			return err
		}
		override(p, form)
	}

	return nil
}

// bodyError reports a body cut off at maxBodyBytes as too large, and any
// other read failure as fallback.
func bodyError(err, fallback error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}

	return fallback
}

func paramsFromValues(values url.Values) (params, error) {
	p := params{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}

	if raw := values.Get("variables"); raw != "" {
		vars, err := decodeVariables(json.RawMessage(raw))
		if err != nil {
			return params{}, err
		}
		p.Variables = vars
	}

	return p, nil
}

// decodeVariables accepts a JSON object, a JSON string holding an object, or null.
func decodeVariables(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errBadVariables
		}
		if s == "" {
			return nil, nil
		}
		raw = json.RawMessage(s)
	}

	var vars map[string]any
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, errBadVariables
	}

	return vars, nil
}

func override(dst *params, src params) {
	if src.Query != "" {
		dst.Query = src.Query
	}
	if src.OperationName != "" {
		dst.OperationName = src.OperationName
	}
	if src.Variables != nil {
		dst.Variables = src.Variables
	}
}
