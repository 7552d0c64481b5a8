package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func boolP(b bool) *bool { return &b }

func TestTasksPagesUntilExhausted(t *testing.T) {
	// Two full pages then a short one.
	total := pageSize*2 + 5
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Browser-Use-API-Key")

		page, err := strconv.Atoi(r.URL.Query().Get("pageNumber"))
		if err != nil {
			t.Errorf("bad pageNumber: %v", err)
		}
		if size := r.URL.Query().Get("pageSize"); size != strconv.Itoa(pageSize) {
			t.Errorf("pageSize = %s, want %d", size, pageSize)
		}

		start := (page - 1) * pageSize
		var items []TaskRecord
		for i := start; i < start+pageSize && i < total; i++ {
			items = append(items, TaskRecord{
				ID:        "task-" + strconv.Itoa(i),
				LLM:       "o3",
				IsSuccess: boolP(true),
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", 5*time.Second, false)
	records, err := client.Tasks(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("Tasks error: %v", err)
	}
	if len(records) != total {
		t.Fatalf("expected %d tasks across pages, got %d", total, len(records))
	}
	if gotKey != "secret" {
		t.Fatalf("expected the API key header, got %q", gotKey)
	}
}

func TestTasksErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong", 5*time.Second, false)
	if _, err := client.Tasks(context.Background(), time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestTaskFetchesSingleRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/task-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(TaskRecord{ID: "task-1", LLM: "o3"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", 5*time.Second, false)
	task, err := client.Task(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("Task error: %v", err)
	}
	if task.ID != "task-1" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestDedupePrefersSuccessfulRetry(t *testing.T) {
	records := []TaskRecord{
		{ID: "a", IsSuccess: boolP(false)},
		{ID: "b", IsSuccess: boolP(true)},
		{ID: "a", IsSuccess: boolP(true)},
		{ID: "b", IsSuccess: boolP(false)},
	}

	out := Dedupe(records)
	if len(out) != 2 {
		t.Fatalf("expected two unique tasks, got %d", len(out))
	}
	if out[0].ID != "a" || !out[0].Succeeded() {
		t.Fatalf("expected the successful retry of a first, got %+v", out[0])
	}
	if out[1].ID != "b" || !out[1].Succeeded() {
		t.Fatalf("expected the original success of b kept, got %+v", out[1])
	}
}
