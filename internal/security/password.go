package security

import "golang.org/x/crypto/bcrypt"

// dummyHash keeps the login path constant-cost when the email is unknown:
// a bcrypt comparison runs either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("coffee-shop-dummy"), bcrypt.DefaultCost)

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck performs a throwaway comparison against a fixed hash.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
