package endpoints

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

func TestDecodeAppParams_JSON(t *testing.T) {
	req := jsonRequest("POST", "/apps", `{"authenticity_token":"x","app":{"name":"Zealot","channel":"both","schemes_attributes":{"name":["beta","prod"]}}}`, nil)

	params, err := decodeAppParams(req)
	require.NoError(t, err)

	require.NotNil(t, params.Name)
	assert.Equal(t, "Zealot", *params.Name)
	assert.Equal(t, "both", params.ChannelValue())
	require.NotNil(t, params.SchemesAttributes)
	assert.Equal(t, []string{"beta", "prod"}, params.SchemesAttributes.Name)
}

func TestDecodeAppParams_Form(t *testing.T) {
	form := url.Values{
		"utf8":                            {"✓"},
		"app[name]":                       {"Old", "Zealot"},
		"app[channel]":                    {"android"},
		"app[schemes_attributes][name][]": {"beta"},
	}
	req := formRequest("POST", "/apps", form, nil)

	params, err := decodeAppParams(req)
	require.NoError(t, err)

	assert.Equal(t, "Zealot", *params.Name)
	assert.Equal(t, "android", params.ChannelValue())
	assert.Equal(t, []string{"beta"}, params.SchemesAttributes.Name)
}

func TestDecodeAppParams_Multipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("app[name]", "Zealot"))
	require.NoError(t, writer.WriteField("app[schemes_attributes][name][]", "beta"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/apps", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	params, err := decodeAppParams(req)
	require.NoError(t, err)

	assert.Equal(t, "Zealot", *params.Name)
	assert.Nil(t, params.Channel)
	assert.Equal(t, []string{"beta"}, params.SchemesAttributes.Name)
}

func TestDecodeAppParams_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     string
	}{
		{"json without app", "application/json", `{"name":"Zealot"}`, ErrMissingAppParams.Error()},
		{"json empty app", "application/json", `{"app":{}}`, ErrMissingAppParams.Error()},
		{"json unknown field", "application/json", `{"app":{"role":"admin"}}`, "invalid app parameters"},
		{"json wrong type", "application/json", `{"app":{"name":1}}`, "invalid app parameters"},
		{"json malformed", "application/json", `{"app"`, "invalid JSON body"},
		{"form without app", "application/x-www-form-urlencoded", "name=Zealot", ErrMissingAppParams.Error()},
		{"form unpermitted", "application/x-www-form-urlencoded", "app%5Bname%5D=Zealot&app%5Brole%5D=admin", "unpermitted parameter: app[role]"},
		{"unsupported type", "text/plain", "app", "unsupported content type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithIdentity("POST", "/apps", strings.NewReader(tt.body), tt.contentType, nil)

			_, err := decodeAppParams(req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAppParams_ApplyTo(t *testing.T) {
	app := &model.App{ID: 1, Name: "Before"}
	name := "After"
	params := &AppParams{
		Name:              &name,
		SchemesAttributes: &SchemesAttributes{Name: []string{"ignored"}},
	}

	params.ApplyTo(app)

	assert.Equal(t, "After", app.Name)
	assert.Empty(t, app.Channel)
	assert.Empty(t, app.Schemes)
}
