package jwt

import (
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrExpired = errors.New("token expired")

func Decode(token string, secret string, now time.Time) (*Payload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token length")
	}

	// signature first, nothing is trusted before that
	signature, err := encoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("can't decode signature: %v", err)
	}
	if !hmac.Equal(sign(parts[0]+"."+parts[1], secret), signature) {
		return nil, fmt.Errorf("invalid signature")
	}

	// payload
	payloadJson, err := encoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("can't decode payload: %v", err)
	}
	var payload Payload
	if err := json.Unmarshal(payloadJson, &payload); err != nil {
		return nil, fmt.Errorf("can't unmarshal payload: %v", err)
	}
	if payload.Expired(now) {
		return nil, ErrExpired
	}

	return &payload, nil
}
