package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"get_timeline","params":{"granularity":"month"},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "get_timeline", req.Method)
	require.Equal(t, json.RawMessage(`{"granularity":"month"}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	_, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","id":1}`))
	require.Equal(t, CodeInvalidRequest, ErrorFor(err).Code)

	_, err = ParseRequest(bytes.NewBufferString(`{"jsonrpc":`))
	require.Equal(t, CodeParseError, ErrorFor(err).Code)
}

type apiError struct{}

func (apiError) Error() string             { return "INVALID_SETTINGS: column_width (max=200)" }
func (apiError) CodeValue() string         { return "INVALID_SETTINGS" }
func (apiError) MessageValue() string      { return "column_width (max=200)" }
func (apiError) DetailsValue() any         { return nil }
func (apiError) RecoveryHintValue() string { return "column_width is 10-200" }

func TestErrorFor(t *testing.T) {
	require.Equal(t, CodeMethodNotFound, ErrorFor(fmt.Errorf("%w: nope", ErrUnknownMethod)).Code)
	require.Equal(t, CodeInvalidParams, ErrorFor(fmt.Errorf("%w: bad json", ErrInvalidParams)).Code)
	require.Equal(t, CodeInternal, ErrorFor(errors.New("disk on fire")).Code)

	rpcErr := ErrorFor(apiError{})
	require.Equal(t, CodeApplication, rpcErr.Code)
	require.Equal(t, "column_width (max=200)", rpcErr.Message)
	require.Equal(t, ErrorData{Code: "INVALID_SETTINGS", RecoveryHint: "column_width is 10-200"}, rpcErr.Data)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, &Error{Code: CodeInvalidParams, Message: "bad params"})

	require.Equal(t, 200, rec.Code)
	var resp struct {
		Error Error `json:"error"`
		ID    int   `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, CodeInvalidParams, resp.Error.Code)
	require.Equal(t, 1, resp.ID)
}
