package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

// ErrMissingAppParams is returned when a request has no app parameters
var ErrMissingAppParams = errors.New("param is missing or the value is empty: app")

const maxFormMemory = 32 << 20

// SchemesAttributes are the nested scheme fields of the app form
type SchemesAttributes struct {
	Name []string `json:"name"`
}

// AppParams are the permitted fields of the app form
type AppParams struct {
	Name              *string            `json:"name"`
	Channel           *string            `json:"channel"`
	SchemesAttributes *SchemesAttributes `json:"schemes_attributes"`
}

func (p *AppParams) empty() bool {
	return p.Name == nil && p.Channel == nil && p.SchemesAttributes == nil
}

// ChannelValue returns the submitted channel, or "" when absent.
func (p *AppParams) ChannelValue() string {
	if p.Channel == nil {
		return ""
	}
	return *p.Channel
}

// ApplyTo copies the permitted app attributes onto app. Scheme names are
// not app attributes and are left alone.
func (p *AppParams) ApplyTo(app *model.App) {
	if p.Name != nil {
		app.Name = *p.Name
	}
	if p.Channel != nil {
		app.Channel = *p.Channel
	}
}

// decodeAppParams reads the "app" parameters from a JSON or form body.
func decodeAppParams(r *http.Request) (*AppParams, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil && r.Header.Get("Content-Type") != "" {
		return nil, fmt.Errorf("invalid content type: %w", err)
	}

	var params *AppParams
	switch mediaType {
	case "application/json":
		params, err = decodeJSONAppParams(r)
	case "application/x-www-form-urlencoded", "multipart/form-data", "":
		params, err = decodeFormAppParams(r)
	default:
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
	if err != nil {
		return nil, err
	}

	if params == nil || params.empty() {
		return nil, ErrMissingAppParams
	}
	return params, nil
}

func decodeJSONAppParams(r *http.Request) (*AppParams, error) {
	// Other top-level keys are not ours to reject
	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	raw, ok := envelope["app"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrMissingAppParams
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var params AppParams
	if err := decoder.Decode(&params); err != nil {
		return nil, fmt.Errorf("invalid app parameters: %w", err)
	}
	return &params, nil
}

func decodeFormAppParams(r *http.Request) (*AppParams, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}

	var params AppParams
	for key, values := range r.Form {
		if key != "app" && !strings.HasPrefix(key, "app[") {
			continue
		}
		if len(values) == 0 {
			continue
		}

		switch key {
		case "app[name]":
			name := values[len(values)-1]
			params.Name = &name
		case "app[channel]":
			channel := values[len(values)-1]
			params.Channel = &channel
		case "app[schemes_attributes][name][]":
			if params.SchemesAttributes == nil {
				params.SchemesAttributes = &SchemesAttributes{}
			}
			params.SchemesAttributes.Name = append(params.SchemesAttributes.Name, values...)
		default:
			return nil, fmt.Errorf("unpermitted parameter: %s", key)
		}
	}
	return &params, nil
}
