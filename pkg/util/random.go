package util

import (
	"crypto/rand"
	"math/big"
)

// 혼동되기 쉬운 0/O, 1/I/L 제외
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const InviteCodeLength = 8

// GenerateInviteCode returns a random code drawn from inviteAlphabet.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	max := big.NewInt(int64(len(inviteAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = inviteAlphabet[n.Int64()]
	}
	return string(buf), nil
}
