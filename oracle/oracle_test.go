package oracle

import (
	"bytes"
	"testing"

	"github.com/mselway/ecbcrack/ecb"
)

func TestNewKeyLength(t *testing.T) {
	secret := []byte("SECRETDATA")
	for _, n := range []int{0, 10, 15, 17, 24, 32} {
		if _, err := New(make([]byte, n), secret); err == nil {
			t.Errorf("New accepted a %v byte key", n)
		}
	}
	if _, err := New(make([]byte, KeySize), secret); err != nil {
		t.Errorf("New rejected a %v byte key: %v", KeySize, err)
	}
}

func TestEncryptLayout(t *testing.T) {
	key := []byte("YELLOW SUBMARINE")
	secret := []byte("SECRETDATA")
	prefix := []byte("attacker input")

	orc, err := New(key, secret)
	if err != nil {
		t.Fatal(err)
	}
	want, err := ecb.Encrypt(key, append(append([]byte{}, prefix...), secret...))
	if err != nil {
		t.Fatal(err)
	}
	if got := orc.Encrypt(prefix); !bytes.Equal(got, want) {
		t.Errorf("Encrypt(%q) == %x, want %x", prefix, got, want)
	}
}

func TestEncryptDeterministic(t *testing.T) {
	orc, err := New(make([]byte, KeySize), []byte("SECRETDATA"))
	if err != nil {
		t.Fatal(err)
	}
	first := orc.Encrypt([]byte("AAAA"))
	second := orc.Encrypt([]byte("AAAA"))
	if !bytes.Equal(first, second) {
		t.Errorf("two calls with the same prefix differ: %x != %x", first, second)
	}
	if len(first)%ecb.BlockSize != 0 || len(first) == 0 {
		t.Errorf("ciphertext length %v is not a positive multiple of %v", len(first), ecb.BlockSize)
	}
}

func TestSecretCopied(t *testing.T) {
	secret := []byte("SECRETDATA")
	orc, err := New(make([]byte, KeySize), secret)
	if err != nil {
		t.Fatal(err)
	}
	baseline := orc.Encrypt(nil)
	secret[0] = 'X'
	if !bytes.Equal(baseline, orc.Encrypt(nil)) {
		t.Errorf("mutating the caller's secret changed the oracle's output")
	}
}
