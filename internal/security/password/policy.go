package password

import "regexp"

var (
	usernameRE = regexp.MustCompile(`^[a-z_]{3,25}$`)
	passwordRE = regexp.MustCompile(`^.{4,50}$`)
)

// ValidUsername valida el formato de username para enrolamiento.
func ValidUsername(username string) bool {
	return usernameRE.MatchString(username)
}

// ValidPassword valida la contraseña ya decodificada (largo 4..50).
func ValidPassword(plain string) bool {
	return passwordRE.MatchString(plain)
}
