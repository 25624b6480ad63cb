package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT et jetons
	ErrInvalidSigningMethod = fmt.Errorf("méthode de signature du jeton invalide")
	ErrInvalidToken         = fmt.Errorf("token invalide ou expiré")
	ErrTokenExpired         = fmt.Errorf("le token a expiré")

	// Authentification
	ErrEmptyAuthHeader    = fmt.Errorf("en-tête d'autorisation absent")
	ErrInvalidAuthHeader  = fmt.Errorf("format de l'en-tête d'autorisation invalide")
	ErrInvalidCredentials = fmt.Errorf("email ou mot de passe incorrect")
	ErrWrongPassword      = fmt.Errorf("mot de passe actuel incorrect")
	ErrEmailAlreadyUsed   = fmt.Errorf("cet email est déjà utilisé")
	ErrAccountLocked      = fmt.Errorf("trop de tentatives de connexion, compte temporairement bloqué")
	ErrUnauthorized       = fmt.Errorf("non authentifié")
	ErrForbidden          = fmt.Errorf("accès refusé")

	// Contexte
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID absent du contexte de la requête")

	// Général
	ErrNotFound        = fmt.Errorf("enregistrement introuvable")
	ErrUserNotFound    = fmt.Errorf("utilisateur non trouvé")
	ErrBadRequest      = fmt.Errorf("requête invalide")
	ErrValidation      = fmt.Errorf("les données fournies ne sont pas valides")
	ErrInvalidWorkbook = fmt.Errorf("fichier Excel illisible")
)

var statusCodes = map[error]int{
	ErrInvalidSigningMethod:    http.StatusUnauthorized,
	ErrInvalidToken:            http.StatusUnauthorized,
	ErrTokenExpired:            http.StatusUnauthorized,
	ErrEmptyAuthHeader:         http.StatusForbidden,
	ErrInvalidAuthHeader:       http.StatusUnauthorized,
	ErrInvalidCredentials:      http.StatusUnauthorized,
	ErrWrongPassword:           http.StatusBadRequest,
	ErrEmailAlreadyUsed:        http.StatusBadRequest,
	ErrAccountLocked:           http.StatusTooManyRequests,
	ErrUnauthorized:            http.StatusUnauthorized,
	ErrForbidden:               http.StatusForbidden,
	ErrUserIDNotFoundInContext: http.StatusUnauthorized,
	ErrNotFound:                http.StatusNotFound,
	ErrUserNotFound:            http.StatusNotFound,
	ErrBadRequest:              http.StatusBadRequest,
	ErrValidation:              http.StatusUnprocessableEntity,
	ErrInvalidWorkbook:         http.StatusUnprocessableEntity,
}

// StatusCode renvoie le code HTTP associé à une erreur connue, 500 sinon.
func StatusCode(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	for sentinel, code := range statusCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// HttpError porte son propre code HTTP et le message destiné au client.
// Err (la cause technique) n'est jamais renvoyée au client, seulement journalisée.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: ErrBadRequest}
}

func NewValidationError(message string, details interface{}) *HttpError {
	return &HttpError{Code: http.StatusUnprocessableEntity, Message: message, Err: ErrValidation, Details: details}
}

// Types d'erreurs personnalisés
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

func NewInvalidWorkbookError(message string, cause error) *HttpError {
	err := ErrInvalidWorkbook
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidWorkbook, cause)
	}
	return &HttpError{Code: http.StatusUnprocessableEntity, Message: message, Err: err}
}
