package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestJobLifecycle(t *testing.T) {
	job := NewJob(Request{Text: "hello", Goal: 1000})
	if job.ID == "" {
		t.Fatal("NewJob: empty ID")
	}
	if job.Status != StatusPending {
		t.Errorf("Status = %q, want %q", job.Status, StatusPending)
	}

	job.Finish([]byte(`{"goal":1000}`), "abc", map[string][]byte{"svg": []byte("<svg/>")})
	if job.Status != StatusDone || job.PageHash != "abc" {
		t.Errorf("after Finish: status %q hash %q", job.Status, job.PageHash)
	}

	other := NewJob(Request{})
	other.Fail("UNABLE_TO_LAYOUT", "paragraph 0 has no line sequence")
	if other.Status != StatusFailed || other.Code != "UNABLE_TO_LAYOUT" {
		t.Errorf("after Fail: status %q code %q", other.Status, other.Code)
	}
	if other.ID == job.ID {
		t.Error("job IDs should differ")
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	defer s.Close(ctx)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	job := NewJob(Request{Text: "a"})
	if err := s.Put(ctx, job); err != nil {
		t.Fatalf("Put: %v", err)
	}
	job.Status = StatusFailed

	got, err := s.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("stored status = %q, want %q (caller mutation leaked)", got.Status, StatusPending)
	}
	if got.Request.Text != "a" {
		t.Errorf("Request.Text = %q, want %q", got.Request.Text, "a")
	}
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		job := &Job{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.Put(ctx, job); err != nil {
			t.Fatalf("Put(%s): %v", id, err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"new", "mid", "old"}},
		{2, []string{"new", "mid"}},
		{10, []string{"new", "mid", "old"}},
	}
	for _, tt := range tests {
		jobs, err := s.List(ctx, tt.limit)
		if err != nil {
			t.Fatalf("List(%d): %v", tt.limit, err)
		}
		if len(jobs) != len(tt.want) {
			t.Fatalf("List(%d) returned %d jobs, want %d", tt.limit, len(jobs), len(tt.want))
		}
		for i, id := range tt.want {
			if jobs[i].ID != id {
				t.Errorf("List(%d)[%d] = %q, want %q", tt.limit, i, jobs[i].ID, id)
			}
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Open(default) = %T, want *Memory", s)
	}

	if _, err := Open(ctx, Options{Backend: "sqlite"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(sqlite) error = %v, want ErrUnknownBackend", err)
	}
}

func TestMongo(t *testing.T) {
	uri := os.Getenv("TATWEEL_MONGO_URI")
	if uri == "" {
		t.Skip("TATWEEL_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongo(ctx, uri, "tatweel_test")
	if err != nil {
		t.Fatalf("NewMongo: %v", err)
	}
	defer s.Close(ctx)

	job := NewJob(Request{Text: "mongo"})
	job.Finish([]byte(`{"goal":1}`), "h", nil)
	if err := s.Put(ctx, job); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusDone || string(got.Document) != `{"goal":1}` {
		t.Errorf("Get = %+v", got)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}
