package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	// Base62 characters (0-9, a-z, A-Z)
	base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// emojiPool holds single-codepoint emoji so generated codes stay valid
// emoji sequences.
var emojiPool = []rune("😀😁😂🤣😃😄😅😆😉😊😋😎😍😘🥰🤩🤔🤗🙃😴🤠🥳😇🚀🌟🔥🎉🍕🍩🌈🦄🐱🐶🐼🦊🐸🍀🌵🎈🎁🎯🏆⚡⛄")

// GenerateShortCode generates a random base62 string of the specified length
func GenerateShortCode(length int) (string, error) {
	result := make([]byte, length)

	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(base62Chars))))
		if err != nil {
			return "", err
		}
		result[i] = base62Chars[num.Int64()]
	}

	return string(result), nil
}

// GenerateEmojiCode returns count random emoji.
func GenerateEmojiCode(count int) (string, error) {
	var b strings.Builder

	for i := 0; i < count; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(emojiPool))))
		if err != nil {
			return "", err
		}
		b.WriteRune(emojiPool[num.Int64()])
	}

	return b.String(), nil
}
