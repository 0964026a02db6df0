package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNameTaken is returned when a username is already registered.
	ErrUserNameTaken = errors.New("username is taken")
	// ErrIncorrectPassword is returned when a password does not match.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrInvalidToken is returned when a request carries no usable access token.
	ErrInvalidToken = errors.New("invalid or missing access token")
	// ErrTokenRevoked is returned when an access token was logged out.
	ErrTokenRevoked = errors.New("access token has been revoked")
	// ErrFoodNotFound is returned when a food item is not found.
	ErrFoodNotFound = errors.New("food not found")
	// ErrFoodNameTaken is returned when a food item name already exists.
	ErrFoodNameTaken = errors.New("food name is taken")
	// ErrMealNotFound is returned when a meal is not found or belongs to another user.
	ErrMealNotFound = errors.New("meal not found")
	// ErrUnknownFoodItem is returned when a meal references a food item that does not exist.
	ErrUnknownFoodItem = errors.New("meal references an unknown food item")
	// ErrRecentFoodsNotFound is returned when a user has never created a meal.
	ErrRecentFoodsNotFound = errors.New("recent foods not found, user has never created a meal")
	// ErrInvalidDateParam is returned when a date query parameter is not YYYY-MM-DD.
	ErrInvalidDateParam = errors.New("date parameter error - typically invalid date format, should be YYYY-MM-DD")
	// ErrConflictingDateParams is returned when date, startDate and endDate are all sent.
	ErrConflictingDateParams = errors.New("too many options specified at once, send just 'date' or both 'startDate' and 'endDate'")
	// ErrIncompleteDateRange is returned when only one side of a date range is sent.
	ErrIncompleteDateRange = errors.New("startDate and endDate must be sent together, for one day use 'date' instead")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrUserNameTaken, http.StatusConflict, "USERNAME_TAKEN"},
	{ErrIncorrectPassword, http.StatusForbidden, "INCORRECT_PASSWORD"},
	{ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},
	{ErrFoodNotFound, http.StatusNotFound, "FOOD_NOT_FOUND"},
	{ErrFoodNameTaken, http.StatusConflict, "FOOD_NAME_TAKEN"},
	{ErrMealNotFound, http.StatusNotFound, "MEAL_NOT_FOUND"},
	{ErrUnknownFoodItem, http.StatusUnprocessableEntity, "UNKNOWN_FOOD_ITEM"},
	{ErrRecentFoodsNotFound, http.StatusNotFound, "RECENT_FOODS_NOT_FOUND"},
	{ErrInvalidDateParam, http.StatusBadRequest, "INVALID_DATE_PARAM"},
	{ErrConflictingDateParams, http.StatusBadRequest, "CONFLICTING_DATE_PARAMS"},
	{ErrIncompleteDateRange, http.StatusBadRequest, "INCOMPLETE_DATE_RANGE"},
}

// MapErrorToHTTP maps domain errors, including wrapped ones, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
