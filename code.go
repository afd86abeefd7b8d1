package main

import (
	"crypto/rand"
)

// codeAlphabet deliberately omits 0/O, 1/I and L so codes survive being
// read aloud or typed from a phone screen.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

// generateCode draws a random room code. Uniqueness against live rooms
// is the registry's job, not the generator's.
func generateCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, codeLength)
	for i := range out {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}

	return string(out)
}
