package utils

import "github.com/golang-jwt/jwt/v5"

// DecodeUnverifiedJWT extracts the claims of a token without checking its
// signature. The client holds no signing secret; it only introspects its own
// bearer credential (e.g. for the exp claim), the server remains the
// authority on validity.
func DecodeUnverifiedJWT(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	return claims, nil
}
