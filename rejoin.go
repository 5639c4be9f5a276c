package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const rejoinKeyTTL = time.Hour * 24

// RejoinKeys signs the room and name of a joined player so a client can
// restore both after its connection drops.
type RejoinKeys struct {
	secret string
	ttl    time.Duration
}

func NewRejoinKeys(secret string) *RejoinKeys {
	return &RejoinKeys{secret: secret, ttl: rejoinKeyTTL}
}

func (r RejoinKeys) Generate(roomCode, playerName string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"roomCode":   roomCode,
		"playerName": playerName,
		"exp":        jwt.NewNumericDate(time.Now().Add(r.ttl)),
	})
	return token.SignedString([]byte(r.secret))
}

func (r RejoinKeys) Parse(tokenString string) (roomCode string, playerName string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(r.secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidRejoinKey, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidRejoinKey
	}
	roomCode, _ = claims["roomCode"].(string)
	playerName, _ = claims["playerName"].(string)
	if roomCode == "" {
		return "", "", ErrInvalidRejoinKey
	}
	return roomCode, playerName, nil
}
