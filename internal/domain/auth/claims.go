package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// Actor identifies the authenticated caller and tenant for one request.
// Services take it from context once instead of string-probing claims at
// every call site.
type Actor struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       string
}

// IsAdmin reports whether the actor can act on other employees' records.
func (a Actor) IsAdmin() bool {
	return a.Role == "admin" || a.Role == "hr"
}

// ActorFromContext extracts the actor from JWT claims.
func ActorFromContext(ctx context.Context) (Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Actor{}, fmt.Errorf("company_id: %w", ErrMissingClaim)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Actor{}, fmt.Errorf("user_id: %w", ErrMissingClaim)
	}

	actor := Actor{
		UserID:    userID,
		CompanyID: companyID,
	}

	if employeeID, ok := claims["employee_id"].(string); ok {
		actor.EmployeeID = employeeID
	}
	if role, ok := claims["role"].(string); ok {
		actor.Role = role
	}

	return actor, nil
}
