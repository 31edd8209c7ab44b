package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자에게 보여줄 메시지
}

// ParseError turns a storage or infrastructure error into a client facing
// code and message. Driver details never leak into the message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL / SQLite 제약 조건 에러
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}

	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "The input is not valid",
		}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errLower, "products.slug") || strings.Contains(errLower, "idx_products_slug"):
		return ErrorInfo{Code: ProductSlugExists, Message: "A product with this slug already exists"}
	case strings.Contains(errLower, "seller_accounts"):
		return ErrorInfo{Code: SellerAccountExists, Message: "Seller account already exists"}
	case strings.Contains(errLower, "purchases"):
		return ErrorInfo{Code: PurchaseAlreadyExists, Message: "Product is already in your library"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The resource already exists",
	}
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The resource is still referenced and cannot be removed",
		}
	}

	if strings.Contains(errLower, "product_id") || strings.Contains(strings.ToLower(context), "product") {
		return ErrorInfo{Code: ProductNotFound, Message: "Product not found"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Referenced resource not found",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "seller"):
		return "Seller account not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}

	return "The requested resource was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the resource. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update the resource. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the resource. Please try again later"
	}

	return "An internal error occurred. Please try again later"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (controller 헬퍼)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
