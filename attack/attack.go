// Package attack implements the classic byte-at-a-time chosen-plaintext
// attack against a block cipher in ECB mode.  Given only an oracle that
// encrypts attacker_input || secret under a fixed unknown key, it discovers
// the cipher block size, confirms ECB behavior via the duplicate-block
// heuristic, and then recovers the secret one byte at a time by aligning
// each unknown byte on a block boundary and enumerating its 256 candidates.
package attack

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/mselway/ecbcrack/oracle"
)

// Oracle is the attack's only view of the system under attack: a black box
// that encrypts attacker-controlled input followed by a fixed secret suffix.
// Implementations must be deterministic and stateless across calls.
type Oracle interface {
	Encrypt(prefix []byte) []byte
}

const (
	// fillByte is the fixed filler used for every probe.  Any value works;
	// only the probe lengths matter.
	fillByte = 'A'

	// probeBound is the largest block size FindBlockSize will look for.
	probeBound = 64
)

// ErrBlockSizeNotFound is reported when the oracle's ciphertext length never
// grows within the probe bound, which means either the oracle ignores its
// input or the block size exceeds the bound.  Either way the attack cannot
// proceed.
var ErrBlockSizeNotFound = errors.New("attack: could not find block size within 64-byte probe bound")

// Result is everything one run of the attack produces: the ciphertext of the
// full combined plaintext, the recovered secret bytes, and an ordered list
// of human-readable step descriptions.  The steps are diagnostic only.
type Result struct {
	Ciphertext []byte
	Recovered  []byte
	Steps      []string
}

func (r *Result) step(format string, args ...interface{}) {
	r.Steps = append(r.Steps, fmt.Sprintf(format, args...))
}

func fill(n int) []byte {
	return bytes.Repeat([]byte{fillByte}, n)
}

// FindBlockSize discovers the oracle's cipher block size by growing the
// attacker prefix one byte at a time until the ciphertext length jumps.
// Crossing a block boundary forces the cipher to emit one more full block,
// and the size of the smallest jump is the block size.
func FindBlockSize(o Oracle) (int, error) {
	baseline := len(o.Encrypt(nil))
	for i := 1; i <= probeBound; i++ {
		if n := len(o.Encrypt(fill(i))); n > baseline {
			return n - baseline, nil
		}
	}
	return 0, ErrBlockSizeNotFound
}

// DetectECB reports whether the oracle encrypts in ECB mode.  Four identical
// filler blocks must yield at least two identical ciphertext blocks under
// any mode without chaining or per-call randomization, so a duplicate block
// is decisive evidence of ECB.
func DetectECB(o Oracle, blockSize int) bool {
	ct := o.Encrypt(fill(4 * blockSize))
	seen := make(map[string]bool)
	for len(ct) >= blockSize {
		s := string(ct[:blockSize])
		if seen[s] {
			return true
		}
		seen[s] = true
		ct = ct[blockSize:]
	}
	return false
}

// buildDictionary maps ciphertext blocks to the candidate byte that produced
// them.  Each probe pads the known prefix so the candidate byte lands on the
// last position of the block starting at targetOffset; the mapping is
// therefore valid only for this exact known-prefix length and must be
// rebuilt every round.  Candidates whose ciphertext is too short to contain
// the target block are omitted, which is how a no-match round later signals
// the end of the secret.  The 256 probes are independent, so they are issued
// concurrently and aggregated by block value afterwards.
func buildDictionary(o Oracle, known []byte, blockSize int) map[string]byte {
	padLen := blockSize - 1 - len(known)%blockSize
	targetOffset := len(known) / blockSize * blockSize
	prefix := append(fill(padLen), known...)

	blocks := make([][]byte, 256)
	var wg sync.WaitGroup
	for b := 0; b < 256; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			probe := append(append([]byte{}, prefix...), byte(b))
			ct := o.Encrypt(probe)
			if len(ct) >= targetOffset+blockSize {
				blocks[b] = ct[targetOffset : targetOffset+blockSize]
			}
		}(b)
	}
	wg.Wait()

	dict := make(map[string]byte, 256)
	for b, block := range blocks {
		if block != nil {
			dict[string(block)] = byte(b)
		}
	}
	return dict
}

// crackNextByte recovers the secret byte following the known prefix.  It
// reports false when the target block has no dictionary match, meaning the
// secret is exhausted and the target position now holds padding.
func crackNextByte(o Oracle, known []byte, blockSize int) (byte, bool) {
	padLen := blockSize - 1 - len(known)%blockSize
	targetOffset := len(known) / blockSize * blockSize

	ct := o.Encrypt(fill(padLen))
	if len(ct) < targetOffset+blockSize {
		return 0, false
	}
	target := string(ct[targetOffset : targetOffset+blockSize])
	b, ok := buildDictionary(o, known, blockSize)[target]
	return b, ok
}

// Run drives the complete attack: construct the oracle, detect the block
// size, confirm ECB mode, then recover the secret byte by byte.  Every
// failure kind surfaces inside the returned Result rather than as an error,
// so callers always receive a well-formed value.  An invalid key length or
// an undetectable block size aborts before any cracking; a non-ECB verdict
// still returns the real ciphertext with nothing recovered.
func Run(key, attackerPrefix, secret []byte) *Result {
	res := &Result{Ciphertext: []byte{}, Recovered: []byte{}}

	o, err := oracle.New(key, secret)
	if err != nil {
		res.step("Invalid key length: %d (expected %d)", len(key), oracle.KeySize)
		return res
	}

	// Encrypt(attackerPrefix) is by definition the ciphertext of the full
	// combined plaintext attackerPrefix || secret.
	res.Ciphertext = o.Encrypt(attackerPrefix)
	res.step("Ciphertext length: %d bytes", len(res.Ciphertext))

	blockSize, err := FindBlockSize(o)
	if err != nil {
		res.step("%v; aborting attack", err)
		return res
	}
	res.step("Detected block size: %d", blockSize)

	if !DetectECB(o, blockSize) {
		res.step("ECB not detected; aborting attack")
		return res
	}
	res.step("ECB detected via repeated-block heuristic")

	res.step("Beginning byte-at-a-time recovery (secret length approx %d)", len(secret))
	missed := false
	// The ciphertext length bounds the loop so it terminates even against an
	// oracle that keeps producing matches.  One extra iteration leaves room
	// for the dictionary miss that follows the padding artifact when the
	// secret fills the ciphertext exactly.
	for i := 0; i <= len(res.Ciphertext); i++ {
		b, ok := crackNextByte(o, res.Recovered, blockSize)
		if !ok {
			missed = true
			res.step("No matching byte found; secret exhausted or padding reached")
			break
		}
		res.Recovered = append(res.Recovered, b)
		res.step("Recovered byte %d: 0x%02x (%s)", len(res.Recovered), b, displayByte(b))
	}

	// The scan always walks one position past the secret and picks up the
	// first PKCS#7 padding byte before the dictionary finally misses.  That
	// byte is a padding artifact, not secret content.
	if n := len(res.Recovered); missed && n > 0 && res.Recovered[n-1] == 0x01 {
		res.Recovered = res.Recovered[:n-1]
		res.step("Discarded trailing padding byte")
	}
	return res
}

// displayByte renders a byte for the step log, printing it literally when it
// is graphic ASCII and as hex otherwise.
func displayByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}
	return fmt.Sprintf("0x%02x", b)
}
