package modfile

import "hash/fnv"

// checksum computes the FNV-1a64 hash of body (spec.md §4.1: initial state
// 0xcbf29ce484222325, multiplier 0x100000001b3, byte-at-a-time XOR before
// multiply). hash/fnv's New64a implements exactly this variant, the same
// call the teacher's own depm.GenerateIDFromPath (bootstrap/depm/util.go)
// makes to hash path bytes; generalized here to hash a mod-file body
// instead of a path.
func checksum(body []byte) uint64 {
	h := fnv.New64a()
	h.Write(body) // hash.Hash.Write never returns an error
	return h.Sum64()
}
