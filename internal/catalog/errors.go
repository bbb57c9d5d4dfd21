package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedResponse means the API answered but not with the shape
	// the query asked for.
	ErrMalformedResponse = errors.New("malformed catalog response")

	// ErrNotFound means the product is already gone from the store.
	ErrNotFound = errors.New("product not found")
)

// GraphQLError carries the top-level errors of a GraphQL response.
type GraphQLError struct {
	Messages []string
	Codes    []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// Throttled reports whether Shopify rejected the call for exceeding the
// query cost budget.
func (e *GraphQLError) Throttled() bool {
	for _, c := range e.Codes {
		if c == "THROTTLED" {
			return true
		}
	}
	return false
}

// UserErrors is returned when a mutation reports user errors.
type UserErrors []UserError

func (e UserErrors) Error() string {
	parts := make([]string, len(e))
	for i, ue := range e {
		if len(ue.Field) > 0 {
			parts[i] = fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message)
		} else {
			parts[i] = ue.Message
		}
	}
	return "user errors: " + strings.Join(parts, "; ")
}

// StatusError is a non-200 HTTP answer from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog API status %d", e.Code)
	}
	return fmt.Sprintf("catalog API status %d: %s", e.Code, e.Body)
}

func missingProduct(errs []UserError) bool {
	for _, ue := range errs {
		msg := strings.ToLower(ue.Message)
		if strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found") {
			return true
		}
	}
	return false
}
