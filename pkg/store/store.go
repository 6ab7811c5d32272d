// Package store keeps the results of justification jobs submitted to the
// HTTP API.
//
// Two backends implement [Store]:
//   - [Memory]: in-process map, for development and tests
//   - [Mongo]: MongoDB collection, for deployments with several instances
//
// # Usage
//
//	s, err := store.Open(ctx, store.Options{Backend: store.BackendMongo, URI: uri})
//	if err != nil {
//	    return err
//	}
//	defer s.Close(ctx)
//
//	job := store.NewJob(store.Request{Text: text})
//	job.Finish(doc, hash, artifacts)
//	s.Put(ctx, job)
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a job does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown job store backend")
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Request summarizes what a job was asked to do.
type Request struct {
	Text     string   `json:"text" bson:"text"`
	Goal     int      `json:"goal" bson:"goal"`
	Cost     string   `json:"cost,omitempty" bson:"cost,omitempty"`
	Selector string   `json:"selector,omitempty" bson:"selector,omitempty"`
	Formats  []string `json:"formats,omitempty" bson:"formats,omitempty"`
}

// Job is one justification request and its outcome. Document holds the
// page JSON written by pkg/io; Artifacts holds any rendered formats.
type Job struct {
	ID        string            `json:"id" bson:"_id"`
	Status    Status            `json:"status" bson:"status"`
	Request   Request           `json:"request" bson:"request"`
	PageHash  string            `json:"page_hash,omitempty" bson:"page_hash,omitempty"`
	Document  json.RawMessage   `json:"document,omitempty" bson:"document,omitempty"`
	Artifacts map[string][]byte `json:"artifacts,omitempty" bson:"artifacts,omitempty"`
	Error     string            `json:"error,omitempty" bson:"error,omitempty"`
	Code      string            `json:"code,omitempty" bson:"code,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}

// NewJob returns a pending job with a fresh ID.
func NewJob(req Request) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Finish marks the job done with its document and artifacts.
func (j *Job) Finish(document []byte, pageHash string, artifacts map[string][]byte) {
	j.Status = StatusDone
	j.Document = document
	j.PageHash = pageHash
	j.Artifacts = artifacts
	j.UpdatedAt = time.Now().UTC()
}

// Fail marks the job failed. code is the machine-readable error code, if
// any.
func (j *Job) Fail(code, message string) {
	j.Status = StatusFailed
	j.Code = code
	j.Error = message
	j.UpdatedAt = time.Now().UTC()
}

// Store persists jobs.
type Store interface {
	// Put inserts or replaces a job.
	Put(ctx context.Context, job *Job) error

	// Get returns the job with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Job, error)

	// List returns up to limit jobs, most recent first.
	List(ctx context.Context, limit int) ([]*Job, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string // "memory" (default) or "mongo"
	URI      string // MongoDB connection string
	Database string // MongoDB database name
}

// Open returns the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendMongo:
		return NewMongo(ctx, opts.URI, opts.Database)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
