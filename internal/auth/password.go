package auth

import "golang.org/x/crypto/bcrypt" // Password hashing

// HashPassword derives a salted bcrypt hash from the plaintext. The
// default cost keeps a single verification in the tens of milliseconds.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext against a stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
