package util

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"
)

// ErrFixpointBound is returned when a transformation still reports changes
// after the allowed number of rounds.
var ErrFixpointBound = errors.New("fixpoint bound exceeded")

// Fixpoint runs step until it reports no change. It returns the number of
// rounds that produced a change. A step may run at most maxRounds+1 times:
// the last one must confirm stability, otherwise ErrFixpointBound is returned.
func Fixpoint(maxRounds int, step func() (bool, error)) (int, error) {
	for rounds := 0; ; rounds++ {
		changed, err := step()
		if err != nil {
			return rounds, err
		}
		if !changed {
			return rounds, nil
		}
		if rounds+1 > maxRounds {
			return rounds + 1, fmt.Errorf("%w: %d rounds", ErrFixpointBound, maxRounds)
		}
	}
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Abs[A constraints.Signed | constraints.Float](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

// Mean returns the population mean, or false for an empty slice.
func Mean[A constraints.Integer | constraints.Float](nums []A) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	var total float64
	for _, v := range nums {
		total += float64(v)
	}
	return total / float64(len(nums)), true
}

// Contains reports whether v is in s.
func Contains[A comparable](s []A, v A) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Remove returns s without any occurrence of v, preserving order.
func Remove[A comparable](s []A, v A) []A {
	res := s[:0]
	for _, x := range s {
		if x != v {
			res = append(res, x)
		}
	}
	return res
}

// SortStableBy sorts s by key, keeping the order of equal keys.
func SortStableBy[A any, K constraints.Ordered](s []A, key func(A) K) {
	sort.SliceStable(s, func(i, j int) bool {
		return key(s[i]) < key(s[j])
	})
}
