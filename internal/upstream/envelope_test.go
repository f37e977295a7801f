package upstream

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONValidBody(t *testing.T) {
	var out struct {
		Response struct {
			Header struct {
				ResultCode string `json:"resultCode"`
			} `json:"header"`
		} `json:"response"`
	}

	body := []byte(`{"response":{"header":{"resultCode":"00"}}}`)
	require.NoError(t, DecodeJSON(body, &out))
	assert.Equal(t, "00", out.Response.Header.ResultCode)
}

func TestDecodeJSONXMLServiceEnvelope(t *testing.T) {
	body := []byte(`<OpenAPI_ServiceResponse>` +
		`<cmmMsgHeader>` +
		`<errMsg>SERVICE ERROR</errMsg>` +
		`<returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg>` +
		`<returnReasonCode>30</returnReasonCode>` +
		`</cmmMsgHeader>` +
		`</OpenAPI_ServiceResponse>`)

	var out map[string]interface{}
	err := DecodeJSON(body, &out)
	require.Error(t, err)

	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "30", ue.Code)
	assert.Equal(t, http.StatusUnauthorized, ue.Status)
	assert.Equal(t, "SERVICE_KEY_IS_NOT_REGISTERED_ERROR", ue.Message)
}

func TestDecodeJSONGarbage(t *testing.T) {
	var out map[string]interface{}
	err := DecodeJSON([]byte("not a payload at all"), &out)
	require.ErrorIs(t, err, ErrBadPayload)
}

func TestNewErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{"10", http.StatusBadRequest},
		{"22", http.StatusTooManyRequests},
		{"30", http.StatusUnauthorized},
		{"12", http.StatusServiceUnavailable},
		{"77", http.StatusBadGateway}, // unmapped codes degrade to 502
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, NewError(tc.code, "x").Status, "code %s", tc.code)
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFromError(ErrNoData))
	assert.Equal(t, http.StatusBadGateway, StatusFromError(ErrBadPayload))
	assert.Equal(t, http.StatusTooManyRequests, StatusFromError(NewError("22", "quota")))
	assert.Equal(t, http.StatusInternalServerError, StatusFromError(errors.New("boom")))
}
