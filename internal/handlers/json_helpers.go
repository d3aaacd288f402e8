package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"legalhub/internal/middleware"
	"legalhub/internal/service"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// JSONResponse sends a JSON response and ensures slices are never null
//
// Frontends iterate list fields directly, so a nil slice must be encoded as []
// rather than null. Always use this instead of json.NewEncoder(w).Encode().
func JSONResponse(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(normalizeSlices(data))
}

// normalizeSlices recursively ensures all nil slices become empty slices.
// Values with their own JSON encoding (dates, timestamps) are left untouched.
func normalizeSlices(data any) any {
	if data == nil {
		return nil
	}
	v := reflect.ValueOf(data)
	if v.Type().Implements(marshalerType) && v.Kind() != reflect.Ptr {
		return data
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return data
		}
		elem := v.Elem()
		if elem.Type().Implements(marshalerType) || reflect.PointerTo(elem.Type()).Implements(marshalerType) {
			return data
		}
		result := reflect.New(elem.Type())
		result.Elem().Set(normalizeValue(elem))
		return result.Interface()

	case reflect.Slice:
		if v.IsNil() {
			return reflect.MakeSlice(v.Type(), 0, 0).Interface()
		}
		result := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			result.Index(i).Set(normalizeValue(v.Index(i)))
		}
		return result.Interface()

	case reflect.Map:
		if v.IsNil() {
			return data
		}
		result := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			result.SetMapIndex(iter.Key(), normalizeValue(iter.Value()))
		}
		return result.Interface()

	case reflect.Struct:
		// Copy first so unexported fields survive
		result := reflect.New(v.Type()).Elem()
		result.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			switch field := v.Field(i); field.Kind() {
			case reflect.Slice, reflect.Ptr, reflect.Struct, reflect.Map, reflect.Interface:
				result.Field(i).Set(normalizeValue(field))
			}
		}
		return result.Interface()
	}
	return data
}

// normalizeValue returns the normalized form of v, or v itself when there is
// nothing to normalize (nil interfaces, nil pointers).
func normalizeValue(v reflect.Value) reflect.Value {
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return v
	}
	normalized := normalizeSlices(v.Interface())
	if normalized == nil {
		return v
	}
	return reflect.ValueOf(normalized)
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(normalizeSlices(payload)); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := ErrMsgInvalidRequestBody
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		case errors.Is(err, io.EOF):
			msg = "Request body is empty"
		}
		respondWithError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// actorFrom converts the authenticated identity into a service actor
func actorFrom(r *http.Request) (service.Actor, bool) {
	id, ok := middleware.GetIdentity(r)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:     id.UserID,
		Email:      id.Email,
		Name:       id.Name,
		Department: id.Department,
		Role:       id.Role,
	}, true
}

// requireActor writes 401 when the request carries no identity
func requireActor(w http.ResponseWriter, r *http.Request) (service.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
	}
	return actor, ok
}

// respondWithServiceError maps service errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a generic failure.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, ErrMsgPermissionDenied)
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		respondWithError(w, http.StatusTooManyRequests, ErrMsgRateLimited)
	case errors.Is(err, service.ErrPaymentRequired):
		respondWithError(w, http.StatusPaymentRequired, ErrMsgPaymentRequired)
	case errors.Is(err, service.ErrAnalysisUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error(fmt.Sprintf("Failed to %s", op),
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path)
		respondWithError(w, http.StatusInternalServerError, ErrMsgOperationFailed)
	}
}
