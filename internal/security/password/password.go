// Package password implementa el esquema de hashing de contraseñas del
// manager. Las contraseñas viajan base64-encoded desde el cliente; el hash
// almacenado es sha256 en hexadecimal sobre la contraseña decodificada.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Decode revierte el encoding de transporte (base64 estándar).
func Decode(transport string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(transport)
	if err != nil {
		return "", fmt.Errorf("decode password: %w", err)
	}
	return string(b), nil
}

// Hash decodifica el transporte y devuelve sha256 hex de la contraseña.
func Hash(transport string) (string, error) {
	plain, err := Decode(transport)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

// Verify compara el hash almacenado contra la contraseña transport-encoded.
// La comparación es en tiempo constante.
func Verify(storedHash, transport string) bool {
	h, err := Hash(transport)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(h)) == 1
}
