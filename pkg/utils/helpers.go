package utils

import (
	"encoding/hex"
)

// BytesToHex converts bytes to hex string
func BytesToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// HexToBytes converts hex string to bytes
func HexToBytes(hexStr string) ([]byte, error) {
	return hex.DecodeString(hexStr)
}

// UTF8ToHex hex-encodes the UTF-8 bytes of a string, the form in which a
// message payload appears in a locking script.
func UTF8ToHex(s string) string {
	return hex.EncodeToString([]byte(s))
}
