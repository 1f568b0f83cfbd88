package helper

import (
	"encoding/json"
	"net/http"

	"pos-storefront/model"
	"pos-storefront/view"
)

// WriteJSON mengirim response JSON dengan status code
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorJSON mengirim response JSON untuk error
func WriteErrorJSON(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteAppError renders err as a dismissible banner with a status picked
// from its kind.
func WriteAppError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), view.Banner(err))
}

func StatusFor(err error) int {
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
