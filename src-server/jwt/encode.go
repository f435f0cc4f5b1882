package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

var encoding = base64.RawURLEncoding

func Encode(payload Payload, secret string) (string, error) {
	// header
	header := struct {
		Algorithm string `json:"alg"`
		Type      string `json:"typ"`
	}{
		Algorithm: "HS256",
		Type:      "JWT",
	}
	headerJson, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("can't marshal header: %v", err)
	}
	headerBase64 := encoding.EncodeToString(headerJson)

	// payload
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("can't marshal payload: %v", err)
	}
	payloadBase64 := encoding.EncodeToString(payloadJson)

	// signature covers header.payload
	signingInput := headerBase64 + "." + payloadBase64
	return signingInput + "." + encoding.EncodeToString(sign(signingInput, secret)), nil
}

func sign(signingInput, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(signingInput))
	return h.Sum(nil)
}
