package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// NumericCode возвращает криптостойкий цифровой код заданной длины.
// Значение равномерно распределено в [10^(length-1), 10^length - 1],
// поэтому ведущего нуля не бывает (для length=6 это 100000..999999).
func NumericCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	low := int64(1)
	for i := 1; i < length; i++ {
		low *= 10
	}
	// span = 10^length - 10^(length-1)
	n, err := rand.Int(rand.Reader, big.NewInt(9*low))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(low+n.Int64(), 10), nil
}
