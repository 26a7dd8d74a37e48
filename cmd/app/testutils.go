package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogql/blogql/internal/blogservice"
	"github.com/blogql/blogql/internal/commentservice"
	"github.com/blogql/blogql/internal/common"
	"github.com/blogql/blogql/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, envelope
}

// newTestApplication wires a full application against container-backed
// infrastructure. The mail consumer is not started; signup events simply
// accumulate in the queue.
func newTestApplication(t *testing.T) (*application, *mongo.Database) {
	db := common.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rabbitURI := common.TestRabbitMQ(t)
	broker, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupUserExchange(broker)
	assert.NoError(t, err)

	t.Cleanup(func() {
		_ = broker.Close()
	})

	app := &application{
		config:         &Config{Port: ":0", Environment: "test", Version: "test"},
		logger:         logger,
		userService:    userservice.NewUserService(db, broker),
		blogService:    blogservice.NewBlogService(db),
		commentService: commentservice.NewCommentService(db),
		broker:         broker,
	}

	return app, db
}

func (ts *testServer) query(t *testing.T, operation string, args any) (int, envelope) {
	payload := map[string]any{"operation": operation}
	if args != nil {
		payload["args"] = args
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	res, err := ts.Client().Post(ts.URL+"/v1/query", "application/json", bytes.NewReader(jsonPayload))
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

// data extracts the data payload of a successful operation.
func data(t *testing.T, env envelope) map[string]any {
	raw, ok := env["data"]
	if !ok {
		t.Fatalf("response has no data payload: %+v", env)
	}

	m, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("data payload is not an object: %+v", raw)
	}

	return m
}

// errorCode extracts the code of the first in-band operation error.
func errorCode(t *testing.T, env envelope) string {
	raw, ok := env["errors"]
	if !ok {
		t.Fatalf("response has no errors payload: %+v", env)
	}

	errs, ok := raw.([]any)
	if !ok || len(errs) == 0 {
		t.Fatalf("errors payload is empty: %+v", raw)
	}

	first, ok := errs[0].(map[string]any)
	if !ok {
		t.Fatalf("error entry is not an object: %+v", errs[0])
	}

	code, _ := first["code"].(string)
	return code
}
