package policy

import (
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/apierror"
)

// AdminPolicy decides whether a verified token may use the back-office API.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type AdminPolicy struct {
	// RequiredGroup, when set, must appear in the token's group claim.
	RequiredGroup string
}

func NewAdminPolicy(group string) *AdminPolicy {
	return &AdminPolicy{RequiredGroup: group}
}

func (p *AdminPolicy) CanAdminister(actor *utils.TokenData) apierror.ErrorResponse {
	if actor == nil {
		return apierror.UnauthorizedError
	}

	if p.RequiredGroup != "" && !actor.InGroup(p.RequiredGroup) {
		return apierror.ForbiddenError
	}
	return nil
}
