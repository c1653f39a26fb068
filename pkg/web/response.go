// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// GetErrorMsg returns a readable message for a binding validation error.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return " must be at least " + fe.Param() + " characters long"
	case "max":
		return " must be less than " + fe.Param()
	case "transactiontype":
		return " must be one of DEPOSIT or WITHDRAWAL"
	}

	return " is invalid"
}
