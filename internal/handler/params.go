package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathID binds the {id} path parameter the same way generated server
// wrappers do, so an empty or malformed segment is rejected before the
// service is called.
func pathID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid id: %w", err)
	}
	if id == "" {
		return "", errors.New("invalid id: must not be empty")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v != nil && *v, nil
}

// optionalTime decodes a JSON time that may be absent, null, an RFC 3339
// timestamp or a plain "2006-01-02" date. null reports present=true with a
// nil time so callers can tell "clear it" from "leave it".
func optionalTime(raw json.RawMessage) (t *time.Time, present bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var ts time.Time
	if err := json.Unmarshal(raw, &ts); err == nil {
		return &ts, true, nil
	}
	var d openapi_types.Date
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, true, fmt.Errorf("expected RFC 3339 time or YYYY-MM-DD date, got %s", raw)
	}
	ts = d.Time
	return &ts, true, nil
}
