package ws

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TicketClaims represents the JWT session ticket minted at login, outside
// this server, and presented at websocket connect.
type TicketClaims struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	Member   bool   `json:"member"`
	jwt.RegisteredClaims
}

// TicketConfig holds session ticket verification parameters.
type TicketConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// MintTicket creates a signed session ticket for the given player.
func MintTicket(cfg *TicketConfig, playerID int64, username string, member bool) (string, error) {
	now := time.Now()
	claims := TicketClaims{
		PlayerID: playerID,
		Username: username,
		Member:   member,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

// VerifyTicket parses and validates a session ticket.
func VerifyTicket(cfg *TicketConfig, tokenString string) (*TicketClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TicketClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse ticket: %w", err)
	}

	claims, ok := token.Claims.(*TicketClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid ticket claims")
	}
	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("invalid ticket issuer")
	}
	if claims.PlayerID <= 0 {
		return nil, fmt.Errorf("invalid player id in ticket")
	}

	return claims, nil
}
