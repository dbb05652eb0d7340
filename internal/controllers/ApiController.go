package controllers

import (
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/services"
	"falci/internal/storage"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	msgBadRequest      = "Geçersiz istek."
	msgCredentials     = "E-posta ve şifre gerekli."
	msgName            = "İsim gerekli."
	msgDuplicate       = "Bu e-posta zaten kayıtlı."
	msgWrongLogin      = "E-posta veya şifre hatalı."
	msgUnauthorized    = "Oturum açmanız gerekli."
	msgSessionExpired  = "Oturumunuzun süresi doldu, lütfen tekrar giriş yapın."
	msgUnknownKind     = "Geçersiz fal türü."
	msgBadImage        = "Fotoğraf okunamadı, lütfen başka bir fotoğraf seçin."
	msgImageTooLarge   = "Fotoğraf çok büyük."
	msgNoImage         = "Lütfen önce bir fotoğraf seçin."
	msgBusy            = "Falınız hazırlanıyor, lütfen bekleyin."
	msgEmptyMessage    = "Mesaj boş olamaz."
	msgSendInFlight    = "Yanıt bekleniyor, lütfen bekleyin."
	msgNotFound        = "Kayıt bulunamadı."
	msgUnavailable     = "Sunucuya şu anda ulaşılamıyor, lütfen tekrar deneyin."
	msgCorrupt         = "Kayıt okunamadı."
	msgInternal        = "Beklenmeyen bir hata oluştu."
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps a service error to its status and user-facing message.
// Server side failures are logged to the stream of the request method.
func respondError(w http.ResponseWriter, r *http.Request, logger providers.Logger, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	}
	writeError(w, status, message)
}

func errorStatus(err error) (int, string) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrSendInFlight):
		return http.StatusConflict, msgSendInFlight
	case errors.Is(err, services.ErrBusy):
		return http.StatusConflict, msgBusy
	case errors.Is(err, services.ErrNoImage):
		return http.StatusBadRequest, msgNoImage
	case errors.As(err, &verr):
		return http.StatusBadRequest, validationMessage(verr)
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, msgBadRequest
	case errors.Is(err, services.ErrDuplicateEmail):
		return http.StatusConflict, msgDuplicate
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgWrongLogin
	case errors.Is(err, models.ErrUnknownKind):
		return http.StatusBadRequest, msgUnknownKind
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	case errors.Is(err, storage.ErrCorruptRecord):
		return http.StatusInternalServerError, msgCorrupt
	case errors.Is(err, services.ErrInference):
		return http.StatusBadGateway, services.ReadingFailureText
	}
	return http.StatusInternalServerError, msgInternal
}

// validationMessage follows the order the sign-in form checks its fields:
// credentials first, then the name.
func validationMessage(verr *services.ValidationError) string {
	switch {
	case verr.HasField("email") || verr.HasField("password"):
		return msgCredentials
	case verr.HasField("name"):
		return msgName
	case verr.HasField("image"):
		return msgBadImage
	case verr.HasField("text"):
		return msgEmptyMessage
	}
	return msgBadRequest
}

// decodeBody reads a JSON body capped at maxRequestBodySize. An empty body
// leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}

func readingKind(r *http.Request) (models.ReadingKind, error) {
	return models.ParseReadingKind(r.URL.Query().Get("kind"))
}
