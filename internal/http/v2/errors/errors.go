package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta JSON de err. Non-AppError values become
// INTERNAL_SERVER_ERROR.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// Write es WriteError más un log con el logger del request. 5xx se loguean
// como error con la causa original.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)
	log := logger.From(r.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", logger.String("code", appErr.Code), logger.Err(appErr.Err))
	} else {
		log.Debug("request rejected", logger.String("code", appErr.Code), logger.Err(appErr.Err))
	}
	WriteError(w, appErr)
}
