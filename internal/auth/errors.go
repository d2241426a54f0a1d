package auth

import "errors"

// The closed set of sign-in/sign-up failure codes. Anything outside this set
// is presented to users as the generic message.
var (
	ErrInvalidEmail  = errors.New("invalid email")
	ErrUserDisabled  = errors.New("user disabled")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrEmailInUse    = errors.New("email already in use")
	ErrWeakPassword  = errors.New("weak password")
	ErrNotAllowed    = errors.New("operation not allowed")
)

// GenericMessage is shown for failures outside the known taxonomy
const GenericMessage = "Something went wrong. Please try again."

var messages = map[error]string{
	ErrInvalidEmail:  "That e-mail address is not valid.",
	ErrUserDisabled:  "This account has been disabled.",
	ErrUserNotFound:  "No account exists for that e-mail address.",
	ErrWrongPassword: "Incorrect password.",
	ErrEmailInUse:    "An account with that e-mail address already exists.",
	ErrWeakPassword:  "Password must be at least 6 characters.",
	ErrNotAllowed:    "Sign-in is currently not allowed.",
}

// Message maps a failure to its user-facing text, falling back to the
// generic message for unrecognized errors.
func Message(err error) string {
	for code, msg := range messages {
		if errors.Is(err, code) {
			return msg
		}
	}
	return GenericMessage
}
