package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// HashBytes хеширует произвольный блок байтов.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// HashString хеширует строку (таргет, префикс, версию инструмента).
func HashString(s string) Digest {
	return sha256.Sum256([]byte(s))
}

// Combine строит общий хеш: H( content || part1 || part2 ... ).
// Порядок частей должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
