// Package form holds the screen forms and their validation rules.
package form

type Login struct {
	Email    string `json:"email" validate:"required,emailaddr"`
	Password string `json:"password" validate:"required"`
}

type Signup struct {
	Name            string `json:"name" validate:"min=2,max=50"`
	Email           string `json:"email" validate:"required,emailaddr"`
	Password        string `json:"password" validate:"min=8,hasupper,hasdigit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type Onboarding struct {
	DisplayName string `json:"displayName" validate:"min=2,max=30"`
}

type ForgotPassword struct {
	Email string `json:"email" validate:"required,emailaddr"`
}

type ResetPassword struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"min=8,hasupper,hasdigit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ConnectNavigation carries the platforms picked on the wallet selection screen.
type ConnectNavigation struct {
	Platforms []string `json:"platforms" validate:"min=1,dive,required"`
}

// keyed by "<Struct>.<field>|<tag>"
var messages = map[string]string{
	"Login.email|required":    "Email is required",
	"Login.password|required": "Password is required",

	"Signup.name|min":                 "Name must be at least 2 characters",
	"Signup.name|max":                 "Name must be less than 50 characters",
	"Signup.email|required":           "Email is required",
	"Signup.password|min":             "Password must be at least 8 characters",
	"Signup.password|hasupper":        "Password must contain at least one uppercase letter",
	"Signup.password|hasdigit":        "Password must contain at least one number",
	"Signup.confirmPassword|required": "Please confirm your password",
	"Signup.confirmPassword|eqfield":  "Passwords don't match",

	"Onboarding.displayName|min": "Display name must be at least 2 characters",
	"Onboarding.displayName|max": "Display name must be less than 30 characters",

	"ForgotPassword.email|required": "Email is required",

	"ResetPassword.password|min":             "Password must be at least 8 characters",
	"ResetPassword.password|hasupper":        "Password must contain at least one uppercase letter",
	"ResetPassword.password|hasdigit":        "Password must contain at least one number",
	"ResetPassword.confirmPassword|required": "Please confirm your password",
	"ResetPassword.confirmPassword|eqfield":  "Passwords don't match",

	"ConnectNavigation.platforms|min": "At least one platform must be selected",

	"Credentials.username|required": "Username or email is required",
	"Credentials.password|required": "Password is required",
	"Credentials.twoFactorCode|len": "Two-factor code must be 6 digits",
	"APIKey.apiKey|required":        "API key is required",
	"APIKey.apiKey|min":             "API key is required",
	"APIKey.apiSecret|min":          "API secret is required",
}
