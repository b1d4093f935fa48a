// Package ecb implements PKCS#7 padding and AES encryption in electronic
// codebook (ECB) mode.  ECB encrypts every block independently, so identical
// plaintext blocks produce identical ciphertext blocks under the same key.
// That determinism is exactly what the attack package exploits; it is also
// why this mode must never be used to protect real data.
package ecb

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// BlockSize is the AES block size in bytes.
const BlockSize = aes.BlockSize

// Pad returns a copy of buf extended with PKCS#7 padding to a multiple of
// blockSize.  Between 1 and blockSize bytes are always added; an already
// aligned buffer gains a full block of padding, so the result is always
// strictly longer than buf.
func Pad(buf []byte, blockSize int) []byte {
	n := blockSize - (len(buf) % blockSize)
	return append(append([]byte{}, buf...), bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad returns buf with its PKCS#7 padding removed.
func Unpad(buf []byte, blockSize int) ([]byte, error) {
	if len(buf) == 0 || len(buf)%blockSize != 0 {
		return nil, errors.New("ecb: invalid padded length")
	}
	n := int(buf[len(buf)-1])
	if n == 0 || n > blockSize ||
		!bytes.Equal(buf[len(buf)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errors.New("ecb: invalid padding")
	}
	return buf[:len(buf)-n], nil
}

type ecb struct {
	b         cipher.Block
	blockSize int
}

func newECB(b cipher.Block) *ecb {
	return &ecb{b: b, blockSize: b.BlockSize()}
}

// NewEncrypter returns a cipher.BlockMode that encrypts in ECB mode.
func NewEncrypter(b cipher.Block) cipher.BlockMode {
	return (*encrypter)(newECB(b))
}

// NewDecrypter returns a cipher.BlockMode that decrypts in ECB mode.
func NewDecrypter(b cipher.Block) cipher.BlockMode {
	return (*decrypter)(newECB(b))
}

type encrypter ecb

func (e *encrypter) BlockSize() int {
	return e.blockSize
}

func (e *encrypter) CryptBlocks(dst, src []byte) {
	if len(src)%e.blockSize != 0 {
		panic("ecb: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("ecb: output smaller than input")
	}
	for len(src) > 0 {
		e.b.Encrypt(dst[:e.blockSize], src[:e.blockSize])
		src = src[e.blockSize:]
		dst = dst[e.blockSize:]
	}
}

type decrypter ecb

func (d *decrypter) BlockSize() int {
	return d.blockSize
}

func (d *decrypter) CryptBlocks(dst, src []byte) {
	if len(src)%d.blockSize != 0 {
		panic("ecb: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("ecb: output smaller than input")
	}
	for len(src) > 0 {
		d.b.Decrypt(dst[:d.blockSize], src[:d.blockSize])
		src = src[d.blockSize:]
		dst = dst[d.blockSize:]
	}
}

// Encrypt pads plaintext and encrypts it with AES in ECB mode.  The
// ciphertext length is always a positive multiple of the block size, and the
// result is a pure function of (key, plaintext).
func Encrypt(key, plaintext []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	pt := Pad(plaintext, c.BlockSize())
	ct := make([]byte, len(pt))
	NewEncrypter(c).CryptBlocks(ct, pt)
	return ct, nil
}

// Decrypt decrypts an ECB ciphertext with AES and removes the PKCS#7
// padding.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%c.BlockSize() != 0 {
		return nil, errors.New("ecb: ciphertext is not full blocks")
	}
	pt := make([]byte, len(ciphertext))
	NewDecrypter(c).CryptBlocks(pt, ciphertext)
	return Unpad(pt, c.BlockSize())
}
