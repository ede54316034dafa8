package sheetdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/agent-dashboard/internal/config"
	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Hits        int
	Method      string
	RawPath     string
	ContentType string
	Body        map[string]map[string]string
}

func newTestServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Hits++
		captured.Method = r.Method
		captured.RawPath = r.URL.EscapedPath()
		captured.ContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func newTestClient(server *httptest.Server) *Client {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.SheetDBConfig{
		BaseURL:         server.URL + "/api/v1",
		DepositStore:    "dep-store",
		WithdrawalStore: "wd-store",
	}
	return NewClientWithHTTP(logger, cfg, server.Client())
}

func TestClient_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("WithdrawalConfirmCarriesReference", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, `{"updated":1}`, &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassWithdrawal, "1001", shared.TransactionStatusConfirmed, "TRX-9")
		require.NoError(t, err)

		assert.Equal(t, http.MethodPatch, captured.Method)
		assert.Equal(t, "/api/v1/wd-store/Transaction%20Number/1001", captured.RawPath)
		assert.Equal(t, "application/json", captured.ContentType)
		assert.Equal(t, 1, captured.Hits)
		assert.Equal(t, map[string]string{"Status": "Confirmed", "TRX ID": "TRX-9"}, captured.Body["data"])
	})

	t.Run("DepositRejectStatusOnly", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, `{"updated":1}`, &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "7", shared.TransactionStatusRejected, "")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/dep-store/Transaction%20Number/7", captured.RawPath)
		assert.Equal(t, map[string]string{"Status": "Rejected"}, captured.Body["data"])
	})

	t.Run("NumberIsPathEscaped", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, `{"updated":1}`, &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "A 1/2", shared.TransactionStatusConfirmed, "")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/dep-store/Transaction%20Number/A%201%2F2", captured.RawPath)
	})

	t.Run("ZeroUpdatedIsNotFound", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, `{"updated":0}`, &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "404", shared.TransactionStatusConfirmed, "")
		var notFound transaction.ErrNoRecordsUpdated
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "404", notFound.Number)
		assert.Equal(t, "No records were updated. Transaction ID '404' might not exist.", err.Error())
	})

	t.Run("ErrorPayloadIsWriteFailure", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, `{"error":"Sheet not found"}`, &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "7", shared.TransactionStatusConfirmed, "")
		var writeErr transaction.ErrWriteFailure
		require.True(t, errors.As(err, &writeErr))
		assert.Equal(t, "SheetDB API error: Sheet not found", writeErr.Message)
		assert.Equal(t, transaction.WriteFieldStatus, writeErr.Field)
	})

	t.Run("NonSuccessStatusIsWriteFailure", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusTooManyRequests, "rate limited", &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "7", shared.TransactionStatusConfirmed, "")
		var writeErr transaction.ErrWriteFailure
		require.True(t, errors.As(err, &writeErr))
		assert.Equal(t, "SheetDB API responded with status: 429, text: rate limited", writeErr.Message)
		assert.Equal(t, 1, captured.Hits, "failed writes are not retried")
	})

	t.Run("UnparseableBodyIsWriteFailure", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, "<html>", &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "7", shared.TransactionStatusConfirmed, "")
		var writeErr transaction.ErrWriteFailure
		require.True(t, errors.As(err, &writeErr))
		assert.Contains(t, writeErr.Message, "Error parsing SheetDB response")
	})

	t.Run("EmptyBodyIsSuccess", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, "", &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "7", shared.TransactionStatusConfirmed, "")
		assert.NoError(t, err)
	})

	t.Run("UnknownStatusRefused", func(t *testing.T) {
		var captured capturedRequest
		server := newTestServer(t, http.StatusOK, `{"updated":1}`, &captured)
		defer server.Close()

		err := newTestClient(server).UpdateStatus(ctx, shared.TransactionClassDeposit, "7", shared.TransactionStatusUnknown, "")
		require.Error(t, err)
		assert.Empty(t, captured.Method)
	})
}

func TestClient_UpdateReason(t *testing.T) {
	var captured capturedRequest
	server := newTestServer(t, http.StatusOK, `{"updated":1}`, &captured)
	defer server.Close()

	err := newTestClient(server).UpdateReason(context.Background(), "7", "Duplicate slip")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/dep-store/Transaction%20Number/7", captured.RawPath)
	assert.Equal(t, map[string]string{"Reason": "Duplicate slip"}, captured.Body["data"])
}
