package domain

import "errors"

// Error taxonomy shared by every core service. Callers branch on these with
// errors.Is and map them to transport status codes; no other failure detail
// crosses the trust boundary.
var (
	// ErrInvalidToken covers missing, malformed, mis-signed and expired
	// session tokens. Maps to an unauthenticated (401) response.
	ErrInvalidToken = errors.New("core: invalid token")

	// ErrInvalidCredentials is the single signal for a failed login.
	// Unknown email, wrong password and deactivated identity are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("core: invalid credentials")

	// ErrForbidden means authenticated but insufficiently privileged or
	// out of tenant scope. Maps to 403.
	ErrForbidden = errors.New("core: forbidden")

	// ErrNotFound means a referenced tenant or identity does not exist.
	ErrNotFound = errors.New("core: not found")

	// ErrValidation means malformed input to a core call.
	ErrValidation = errors.New("core: validation failed")
)
