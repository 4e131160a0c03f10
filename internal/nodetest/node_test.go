package nodetest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/adamwoolhether/curl/internal/nodetest"
)

func TestNode_RoutesAndRecords(t *testing.T) {
	node := nodetest.New(t)

	node.Post("/idx/_doc", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		return nodetest.RespondJSON(w, http.StatusCreated, map[string]int{"len": len(b)})
	})

	resp, err := http.Post(node.URL()+"/idx/_doc?refresh=true", "application/json", strings.NewReader(`{"a":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated || string(b) != `{"len":7}` {
		t.Errorf("unexpected response %d %s", resp.StatusCode, b)
	}

	rec, ok := node.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if rec.Method != http.MethodPost || rec.Path != "/idx/_doc" || rec.RawQuery != "refresh=true" {
		t.Errorf("unexpected record %+v", rec)
	}
	if string(rec.Body) != `{"a":1}` {
		t.Errorf("unexpected body %q", rec.Body)
	}
	if _, err := uuid.Parse(rec.TraceID); err != nil {
		t.Errorf("expected generated trace ID, got %q", rec.TraceID)
	}
}

func TestNode_HTTPPort(t *testing.T) {
	node := nodetest.New(t)

	if !strings.HasSuffix(node.URL(), ":"+strconv.Itoa(node.HTTPPort())) {
		t.Errorf("port %d does not match %s", node.HTTPPort(), node.URL())
	}
}

func TestNode_Errors(t *testing.T) {
	node := nodetest.New(t)

	node.Get("/app", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nodetest.NewError(http.StatusConflict, "version conflict")
	})
	node.Get("/internal", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("boom")
	})
	node.Get("/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	testCases := []struct {
		path string
		code int
		body string
	}{
		{path: "/app", code: http.StatusConflict, body: `{"error":"version conflict"}`},
		{path: "/internal", code: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{path: "/panic", code: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(node.URL() + tc.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.code {
				t.Errorf("expected %d, got %d", tc.code, resp.StatusCode)
			}
			if tc.body != "" {
				b, _ := io.ReadAll(resp.Body)
				if string(b) != tc.body {
					t.Errorf("expected %s, got %s", tc.body, b)
				}
			}
		})
	}

	if n := len(node.Requests()); n != len(testCases) {
		t.Errorf("expected %d recorded requests, got %d", len(testCases), n)
	}
}
