// Package cryptoutil wraps HMAC, PBKDF2, AES-GCM and SHA-256 behind the
// algorithm names used by WebCrypto ("SHA-256", "AES-GCM", ...).
package cryptoutil

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"
)

var ErrDecrypt = errors.New("cryptoutil: message authentication failed")

type UnsupportedAlgorithmError struct {
	Name string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported algorithm %q", e.Name)
}

func hashFor(name string) (func() hash.Hash, error) {
	switch strings.ToUpper(name) {
	case "SHA-1", "SHA1":
		return sha1.New, nil
	case "SHA-256", "SHA256":
		return sha256.New, nil
	case "SHA-384", "SHA384":
		return sha512.New384, nil
	case "SHA-512", "SHA512":
		return sha512.New, nil
	default:
		return nil, &UnsupportedAlgorithmError{Name: name}
	}
}

// HMACSign computes the HMAC of data keyed with secret, using the hash named
// by alg.
func HMACSign(alg string, secret, data []byte) ([]byte, error) {
	h, err := hashFor(alg)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(h, secret)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// HMACVerify reports whether signature is the HMAC of data. The comparison
// runs in constant time.
func HMACVerify(alg string, secret, data, signature []byte) (bool, error) {
	expected, err := HMACSign(alg, secret, data)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, signature), nil
}

func SHA256(message string) []byte {
	sum := sha256.Sum256([]byte(message))
	return sum[:]
}
