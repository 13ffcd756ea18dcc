// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model RegisterRequest
type RegisterRequest struct {
	// Desired unique username
	// required: true
	Username string `json:"username" validate:"required,max=250" example:"janedoe"`
	// User's email address
	// required: true
	Email string `json:"email" validate:"required,email" example:"jane@example.com"`
	// User's password
	// required: true
	Password string `json:"password" validate:"required" example:"MySecretPassword@123"`
	// Optional phone number in international format
	PhoneNumber *string `json:"phone_number" example:"+14155552671"`
}

// swagger:model UserResponse
type UserResponse struct {
	// Unique identifier of the user
	ID uint `json:"id" example:"42"`
	// Username of the user
	Username string `json:"username" example:"janedoe"`
	// Email address of the user
	Email string `json:"email" example:"jane@example.com"`
	// Phone number on file, if any
	PhoneNumber *string `json:"phone_number" example:"+14155552671"`
	// Whether the phone number has been verified
	PhoneNumberIsVerified bool `json:"phone_number_is_verified" example:"false"`
	// Whether the account is active
	IsActive bool `json:"is_active" example:"true"`
	// Whether the account belongs to staff
	IsStaff bool `json:"is_staff" example:"false"`
	// Whether the email address has been verified
	IsVerified bool `json:"is_verified" example:"false"`
	// Timestamp of the last successful login
	LastLoginAt *string `json:"last_login_at" example:"2025-06-01T12:00:00Z"`
	// Timestamp of account creation
	CreatedAt string `json:"created_at" example:"2025-06-01T12:00:00Z"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// Username to log in with (exactly one of username/email)
	Username string `json:"username" example:"janedoe"`
	// Email to log in with (exactly one of username/email)
	Email string `json:"email" example:"jane@example.com"`
	// User's password
	// required: true
	Password string `json:"password" validate:"required" example:"MySecretPassword@123"`
}

// swagger:model LoginResponse
type LoginResponse struct {
	// Message indicating successful login
	Message string `json:"message" example:"User login was successful."`
	// JWT access token; the refresh token is set in a cookie
	Access string `json:"access" example:"access_token_value"`
}

// swagger:model AccessResponse
type AccessResponse struct {
	// Fresh JWT access token
	Access string `json:"access" example:"access_token_value"`
}

// swagger:model MessageResponse
type MessageResponse struct {
	// Human-readable outcome message
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model VerificationTokenRequest
type VerificationTokenRequest struct {
	// The 7-digit code delivered by email or SMS
	// required: true
	VerificationToken string `json:"verification_token" validate:"required,len=7,numeric" example:"4921653"`
}

// swagger:model PasswordResetSendRequest
type PasswordResetSendRequest struct {
	// Username of the account to reset (exactly one of username/email)
	Username string `json:"username" example:"janedoe"`
	// Email of the account to reset (exactly one of username/email)
	Email string `json:"email" example:"jane@example.com"`
}

// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// The new password
	// required: true
	Password string `json:"password" validate:"required" example:"MyNewPassword@123"`
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// The current password
	// required: true
	CurrentPassword string `json:"current_password" validate:"required" example:"MySecretPassword@123"`
	// The new password
	// required: true
	NewPassword string `json:"new_password" validate:"required" example:"MyNewPassword@123"`
}

// swagger:model SuspensionRequest
type SuspensionRequest struct {
	// Username of the account to act on
	// required: true
	Username string `json:"username" validate:"required" example:"janedoe"`
	// Suspension window in hours; omit for a permanent suspension
	Duration *int `json:"duration" example:"48"`
	// Whether the suspension is permanent
	IsPermanent *bool `json:"is_permanent" example:"false"`
	// Set true on PATCH to lift the suspension
	HasEnded *bool `json:"has_ended" example:"false"`
}

// swagger:model SuspensionDetails
type SuspensionDetails struct {
	// Username of the suspended account
	Username string `json:"username" example:"janedoe"`
	// When the current suspension started
	StartTime string `json:"start_time" example:"2025-06-01T12:00:00Z"`
	// When the current suspension ends, if timed
	EndTime *string `json:"end_time" example:"2025-06-03T12:00:00Z"`
	// Window in hours, if timed
	Duration *int `json:"duration" example:"48"`
	// Whether the suspension is permanent
	IsPermanent bool `json:"is_permanent" example:"false"`
	// Whether the suspension has ended
	HasEnded bool `json:"has_ended" example:"false"`
	// How many times the account has been suspended
	NumberOfSuspensions int `json:"number_of_suspensions" example:"1"`
}

// swagger:model UserListResponse
type UserListResponse struct {
	// List of users
	Data []UserResponse `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}
