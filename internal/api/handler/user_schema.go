package handler

// --- Request / Response types ---

type profileFields struct {
	FullName    *string `json:"full_name"`
	Age         *int    `json:"age" validate:"omitempty,gte=0"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	PhoneNumber *string `json:"phone_number"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	profileFields
	IsActive *bool `json:"is_active"`
}

type replaceUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
	Email    string `json:"email" validate:"required,email"`
	profileFields
	IsActive *bool `json:"is_active"`
}

type patchUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	profileFields
	IsActive *bool `json:"is_active"`
}

type listUsersQuery struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}

type userResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FullName    *string `json:"full_name"`
	Age         *int    `json:"age"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	PhoneNumber *string `json:"phone_number"`
	IsActive    bool    `json:"is_active"`
}

type listUsersResponse struct {
	Message string         `json:"message"`
	UserIDs []int64        `json:"user_ids"`
	Result  []userResponse `json:"result"`
}

type messageResponse struct {
	Message string `json:"message"`
}
