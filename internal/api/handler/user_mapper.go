package handler

import (
	"github.com/99minutos/accounts-api/internal/core/domain"
	"github.com/99minutos/accounts-api/internal/core/ports"
)

func toUserResponse(a *domain.Account) userResponse {
	return userResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		FullName:    a.FullName,
		Age:         a.Age,
		City:        a.City,
		Country:     a.Country,
		PhoneNumber: a.PhoneNumber,
		IsActive:    a.Active,
	}
}

func toListUsersResponse(r *ports.ListAccountsResult) listUsersResponse {
	resp := listUsersResponse{
		Message: r.Message,
		UserIDs: make([]int64, 0, len(r.IDs)),
		Result:  make([]userResponse, 0, len(r.Items)),
	}
	resp.UserIDs = append(resp.UserIDs, r.IDs...)
	for _, a := range r.Items {
		resp.Result = append(resp.Result, toUserResponse(a))
	}
	return resp
}

func (p profileFields) toInput() ports.ProfileInput {
	return ports.ProfileInput{
		FullName:    p.FullName,
		Age:         p.Age,
		City:        p.City,
		Country:     p.Country,
		PhoneNumber: p.PhoneNumber,
	}
}

func (r createUserRequest) toInput(idempotencyKey string) ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Username:       r.Username,
		Password:       r.Password,
		Email:          r.Email,
		Profile:        r.profileFields.toInput(),
		Active:         r.IsActive,
		IdempotencyKey: idempotencyKey,
	}
}

func (r replaceUserRequest) toInput() ports.ReplaceAccountInput {
	return ports.ReplaceAccountInput{
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		Profile:  r.profileFields.toInput(),
		Active:   r.IsActive,
	}
}

func (r patchUserRequest) toInput() ports.PatchAccountInput {
	return ports.PatchAccountInput{
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		Profile:  r.profileFields.toInput(),
		Active:   r.IsActive,
	}
}
