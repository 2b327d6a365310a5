package executor

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// rootSeed resolves the batch's root seed: the configured one when set,
// otherwise a fresh random one, so unseeded executions stay statistically
// independent across invocations while every stream within one execution
// remains fully derived.
func rootSeed(configured *uint64) (uint64, error) {
	if configured != nil {
		return *configured, nil
	}
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("drawing root seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// deriveSeed gives every (pub, point) pair its own deterministic stream
// seed. Two rounds of a splitmix64 finalizer keep nearby indices from
// producing correlated pseudo-random streams.
func deriveSeed(root, pubIdx, pointIdx uint64) uint64 {
	x := mix64(root ^ (pubIdx+1)*0x9e3779b97f4a7c15)
	return mix64(x ^ (pointIdx+1)*0xd1b54a32d192ed03)
}

func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
