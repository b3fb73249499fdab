package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator is implemented by request DTOs that can check themselves.
// Validate returns a list of human-readable field errors, empty when valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate strictly decodes the JSON request body into dst and runs
// its validation. On any failure it writes a bad_request envelope and returns
// false; the caller should return immediately.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst Validator) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if errs := dst.Validate(); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}
