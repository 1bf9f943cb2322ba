package domain

import (
	"crypto/rand"
	"math/big"
)

const inviteAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// InviteCodeLength is the length of generated workspace invite codes.
const InviteCodeLength = 6

// GenerateInviteCode returns a random alphanumeric code of length n.
func GenerateInviteCode(n int) (string, error) {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(inviteAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = inviteAlphabet[idx.Int64()]
	}
	return string(out), nil
}
