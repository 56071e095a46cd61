package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// InviteClaims is the payload of a peer invitation token sent by email.
type InviteClaims struct {
	RequesterID uint   `json:"requesterId"`
	RecipientID uint   `json:"recipientId"`
	Purpose     string `json:"purpose"`
	jwt.RegisteredClaims
}

const invitePurpose = "peer-invite"

func GenerateJWT(secret string, userId uint, username string, duration time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userId,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateInviteToken signs a peer invitation valid for seven days.
func GenerateInviteToken(secret string, requesterID, recipientID uint) (string, error) {
	now := time.Now().UTC()
	claims := InviteClaims{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Purpose:     invitePurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseInviteToken(secret, tokenStr string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid || claims.Purpose != invitePurpose {
		return nil, errors.New("invalid invite token")
	}
	return claims, nil
}
