package schema_registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Registry provides an interface for interacting with a Confluent Schema
// Registry. It handles idempotent first-registration and schema resolution
// for the pinned publish path.
type Registry interface {
	// GetSchemaByID retrieves a schema document by its immutable ID.
	GetSchemaByID(ctx context.Context, id int) (string, error)

	// GetLatestSchema retrieves the latest version of a subject, or
	// ErrSubjectNotFound when the subject has no versions.
	GetLatestSchema(ctx context.Context, subject string) (*Metadata, error)

	// ResolveSchemaID returns the schema ID of the subject's current
	// latest version. It always re-queries the registry: "latest" is
	// registry-owned and mutable, so the result must never be cached
	// across operations.
	ResolveSchemaID(ctx context.Context, subject string) (int, error)

	// RegisterSchema registers a new schema version for a subject and
	// returns the assigned schema ID.
	RegisterSchema(ctx context.Context, subject, schema, schemaType string) (int, error)

	// EnsureSchema idempotently makes sure the subject has at least one
	// registered version. It never appends a new version to a subject
	// that already has one.
	EnsureSchema(ctx context.Context, subject, schema, schemaType string) (EnsureResult, error)

	// ListSubjects returns all subject names known to the registry.
	ListSubjects(ctx context.Context) ([]string, error)

	// CheckCompatibility checks a schema against the subject's latest
	// version. Diagnostic only; the bootstrap flow never calls it.
	CheckCompatibility(ctx context.Context, subject, schema, schemaType string) (bool, error)
}

// Metadata contains metadata about a registered schema version.
type Metadata struct {
	ID      int    `json:"id"`
	Version int    `json:"version"`
	Schema  string `json:"schema"`
	Subject string `json:"subject"`
	Type    string `json:"schemaType,omitempty"`
}

// EnsureResult reports how EnsureSchema satisfied the request.
type EnsureResult struct {
	// ID is the globally unique, immutable schema ID.
	ID int

	// Version is the subject-scoped version number.
	Version int

	// AlreadyExisted is true when the subject already had a latest
	// version and no registration was attempted.
	AlreadyExisted bool
}

// Config holds configuration for the schema registry client.
type Config struct {
	// URL is the schema registry endpoint (e.g. "http://localhost:8081").
	URL string

	// Username for basic auth (optional).
	Username string

	// Password for basic auth (optional).
	Password string

	// Timeout for HTTP requests.
	// Default: 10 seconds
	Timeout time.Duration
}

// Client is the default implementation of Registry that communicates with a
// Confluent Schema Registry over HTTP.
//
// Only immutable data is cached: schema documents by ID. Anything owned by
// the registry's mutable "latest" pointer is re-fetched on every call.
type Client struct {
	url        string
	httpClient *http.Client

	username string
	password string

	schemaCache      map[int]string
	schemaCacheMutex sync.RWMutex
}

// NewClient creates a new schema registry client.
// Returns the concrete *Client type.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("schema registry URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		username:    cfg.Username,
		password:    cfg.Password,
		schemaCache: make(map[int]string),
	}, nil
}

// Probe performs a root GET against the registry. Suitable as a readiness
// probe: any transport error or non-2xx status means "not ready yet".
func (c *Client) Probe(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("schema registry returned status %d: %s", status, body)
	}
	return nil
}

// GetSchemaByID retrieves a schema document from the registry by its ID.
// IDs are immutable, so results are cached for the lifetime of the client.
func (c *Client) GetSchemaByID(ctx context.Context, id int) (string, error) {
	c.schemaCacheMutex.RLock()
	if schema, ok := c.schemaCache[id]; ok {
		c.schemaCacheMutex.RUnlock()
		return schema, nil
	}
	c.schemaCacheMutex.RUnlock()

	status, body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/schemas/ids/%d", id), nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("fetching schema id %d: registry returned status %d: %s", id, status, body)
	}

	var result struct {
		Schema string `json:"schema"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding schema id %d response: %w", id, err)
	}

	c.schemaCacheMutex.Lock()
	c.schemaCache[id] = result.Schema
	c.schemaCacheMutex.Unlock()

	return result.Schema, nil
}

// GetLatestSchema retrieves the latest version of a subject. The latest
// pointer is mutable, so this always goes to the registry.
func (c *Client) GetLatestSchema(ctx context.Context, subject string) (*Metadata, error) {
	path := fmt.Sprintf("/subjects/%s/versions/latest", url.PathEscape(subject))
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if isNotFound(status, body) {
		return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, subject)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetching latest schema for %q: registry returned status %d: %s", subject, status, body)
	}

	var metadata Metadata
	if err := json.Unmarshal(body, &metadata); err != nil {
		return nil, fmt.Errorf("decoding latest schema for %q: %w", subject, err)
	}
	metadata.Subject = subject

	c.schemaCacheMutex.Lock()
	c.schemaCache[metadata.ID] = metadata.Schema
	c.schemaCacheMutex.Unlock()

	return &metadata, nil
}

// ResolveSchemaID returns the schema ID of the subject's current latest
// version, re-querying the registry on every call.
func (c *Client) ResolveSchemaID(ctx context.Context, subject string) (int, error) {
	metadata, err := c.GetLatestSchema(ctx, subject)
	if err != nil {
		return 0, err
	}
	return metadata.ID, nil
}

// RegisterSchema registers a new schema version for a subject and returns
// the assigned schema ID. A non-success status yields a *RegistrationError
// carrying the raw status and body.
func (c *Client) RegisterSchema(ctx context.Context, subject, schema, schemaType string) (int, error) {
	payload := map[string]interface{}{
		"schema": schema,
	}
	if schemaType != "" && schemaType != "AVRO" {
		payload["schemaType"] = schemaType
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshaling register request for %q: %w", subject, err)
	}

	path := fmt.Sprintf("/subjects/%s/versions", url.PathEscape(subject))
	status, body, err := c.do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return 0, &RegistrationError{Subject: subject, StatusCode: status, Body: string(body)}
	}

	var result struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("decoding register response for %q: %w", subject, err)
	}

	return result.ID, nil
}

// EnsureSchema idempotently ensures the subject has at least one registered
// version and returns the pinned schema ID and version.
//
// A subject that already has a latest version is returned as-is: this method
// handles first-registration only and never overwrites an existing subject's
// latest with a new document (schema evolution is out of scope). After a
// registration the latest version is fetched back as a post-condition check.
func (c *Client) EnsureSchema(ctx context.Context, subject, schema, schemaType string) (EnsureResult, error) {
	existing, err := c.GetLatestSchema(ctx, subject)
	switch {
	case err == nil:
		return EnsureResult{
			ID:             existing.ID,
			Version:        existing.Version,
			AlreadyExisted: true,
		}, nil
	case !IsSubjectNotFound(err):
		return EnsureResult{}, err
	}

	id, err := c.RegisterSchema(ctx, subject, schema, schemaType)
	if err != nil {
		return EnsureResult{}, err
	}

	registered, err := c.GetLatestSchema(ctx, subject)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("verifying subject %q after register: %w", subject, err)
	}

	return EnsureResult{
		ID:      id,
		Version: registered.Version,
	}, nil
}

// ListSubjects returns all subject names known to the registry.
func (c *Client) ListSubjects(ctx context.Context) ([]string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/subjects", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("listing subjects: registry returned status %d: %s", status, body)
	}

	var subjects []string
	if err := json.Unmarshal(body, &subjects); err != nil {
		return nil, fmt.Errorf("decoding subjects response: %w", err)
	}
	return subjects, nil
}

// CheckCompatibility checks a schema against the subject's latest version.
func (c *Client) CheckCompatibility(ctx context.Context, subject, schema, schemaType string) (bool, error) {
	payload := map[string]interface{}{
		"schema": schema,
	}
	if schemaType != "" && schemaType != "AVRO" {
		payload["schemaType"] = schemaType
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshaling compatibility request for %q: %w", subject, err)
	}

	path := fmt.Sprintf("/compatibility/subjects/%s/versions/latest", url.PathEscape(subject))
	status, body, err := c.do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("checking compatibility for %q: registry returned status %d: %s", subject, status, body)
	}

	var result struct {
		IsCompatible bool `json:"is_compatible"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("decoding compatibility response for %q: %w", subject, err)
	}
	return result.IsCompatible, nil
}

// do issues one HTTP request against the registry and returns the status
// code and raw body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating registry request: %w", err)
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/vnd.schemaregistry.v1+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/vnd.schemaregistry.v1+json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("contacting schema registry: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading registry response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// isNotFound reports whether the response indicates a missing subject or
// version, either by HTTP status or by the registry's own error code.
func isNotFound(status int, body []byte) bool {
	if status != http.StatusNotFound {
		return false
	}
	var registryErr struct {
		ErrorCode int `json:"error_code"`
	}
	if err := json.Unmarshal(body, &registryErr); err != nil {
		// 404 without a parseable registry error body still counts.
		return true
	}
	return registryErr.ErrorCode == 0 ||
		registryErr.ErrorCode == errCodeSubjectNotFound ||
		registryErr.ErrorCode == errCodeVersionNotFound
}
