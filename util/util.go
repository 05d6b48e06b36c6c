package util

import (
	"os"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0777)
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func Abs[A constraints.Signed](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

// Gcd is always non-negative. Gcd(0, 0) is 0.
func Gcd[A constraints.Integer](a A, b A) A {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func Lcm[A constraints.Integer](a A, b A) A {
	if a == 0 || b == 0 {
		return 0
	}
	res := a / Gcd(a, b) * b
	if res < 0 {
		return -res
	}
	return res
}

// IsPowerOfTwo reports whether num is 1, 2, 4, 8, ...
func IsPowerOfTwo[A constraints.Integer](num A) bool {
	return num > 0 && num&(num-1) == 0
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
