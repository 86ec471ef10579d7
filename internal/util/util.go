package util

import (
	"encoding/hex"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// FileExists reports whether path names an existing entry. Errors other than
// "does not exist" are returned as-is.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// SourceHash returns the hex Keccak-256 digest of a contract source file.
func SourceHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "ReadFile")
	}
	return hex.EncodeToString(crypto.Keccak256(data)), nil
}
