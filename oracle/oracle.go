// Package oracle provides the encryption oracle the attack runs against:
// a black box holding a fixed AES-128 key and a fixed secret suffix that
// encrypts attacker-supplied input concatenated with the secret.
package oracle

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/mselway/ecbcrack/ecb"
)

// KeySize is the only key length the oracle accepts.  The demo is pinned to
// AES-128, whose key length equals the cipher block size.
const KeySize = 16

// Oracle owns an immutable key and an immutable secret suffix, both fixed at
// construction.  Neither is ever returned to a caller; the only observable
// is ciphertext.  Since no state changes after construction, an Oracle is
// safe for concurrent use.
type Oracle struct {
	mode   cipher.BlockMode
	secret []byte
}

// New returns an Oracle for the given key and secret suffix.  It fails when
// the key is not exactly KeySize bytes; it never inspects the secret.
func New(key, secret []byte) (*Oracle, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("oracle: invalid key length: %d (expected %d)", len(key), KeySize)
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Oracle{
		mode:   ecb.NewEncrypter(c),
		secret: append([]byte{}, secret...),
	}, nil
}

// Encrypt returns the ECB encryption of prefix || secret under the oracle's
// key.  The same prefix always yields the same ciphertext.
func (o *Oracle) Encrypt(prefix []byte) []byte {
	pt := make([]byte, 0, len(prefix)+len(o.secret))
	pt = append(pt, prefix...)
	pt = append(pt, o.secret...)
	pt = ecb.Pad(pt, o.mode.BlockSize())
	ct := make([]byte, len(pt))
	o.mode.CryptBlocks(ct, pt)
	return ct
}
