package utils

import "github.com/gin-gonic/gin"

// Error codes surfaced to API clients.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeDatabase     = "DATABASE_ERROR"
	CodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// APIError is the error payload nested inside failed responses.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes the standard success envelope: {"success":true,"data":...}.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, gin.H{"success": true, "data": data})
}

// SuccessWith writes a success envelope with additional top-level fields,
// e.g. viewCounted on article reads or pagination on listings.
func SuccessWith(ctx *gin.Context, data interface{}, extra gin.H) {
	body := gin.H{"success": true, "data": data}
	for k, v := range extra {
		body[k] = v
	}
	ctx.JSON(200, body)
}

// Created writes the success envelope with a 201 status for resource creation.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(201, gin.H{"success": true, "data": data})
}

// Error writes the standard error envelope:
// {"success":false,"error":{"code":...,"message":...}}.
func Error(ctx *gin.Context, status int, code string, message string) {
	ctx.JSON(status, gin.H{
		"success": false,
		"error":   APIError{Code: code, Message: message},
	})
}
