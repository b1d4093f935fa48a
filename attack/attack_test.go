package attack

import (
	"bytes"
	"crypto/aes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/mselway/ecbcrack/ecb"
	"github.com/mselway/ecbcrack/oracle"
)

var (
	testKey    = make([]byte, oracle.KeySize)
	testSecret = []byte("SECRETDATA")
)

func newTestOracle(t *testing.T, secret []byte) *oracle.Oracle {
	t.Helper()
	orc, err := oracle.New(testKey, secret)
	if err != nil {
		t.Fatal(err)
	}
	return orc
}

// constantOracle ignores its input entirely, so its ciphertext length never
// grows and no block size can be detected.
type constantOracle struct{}

func (constantOracle) Encrypt([]byte) []byte {
	return make([]byte, 32)
}

// randomizingOracle XORs fresh random bytes into every plaintext block
// before encrypting, which destroys the duplicate-block signal the ECB
// detector relies on.
type randomizingOracle struct {
	secret []byte
}

func (o *randomizingOracle) Encrypt(prefix []byte) []byte {
	pt := ecb.Pad(append(append([]byte{}, prefix...), o.secret...), ecb.BlockSize)
	for i := 0; i < len(pt); i += ecb.BlockSize {
		mask := make([]byte, ecb.BlockSize)
		if _, err := rand.Read(mask); err != nil {
			panic(err)
		}
		for j, m := range mask {
			pt[i+j] ^= m
		}
	}
	c, err := aes.NewCipher(make([]byte, 16))
	if err != nil {
		panic(err)
	}
	ct := make([]byte, len(pt))
	ecb.NewEncrypter(c).CryptBlocks(ct, pt)
	return ct
}

func TestFindBlockSize(t *testing.T) {
	orc := newTestOracle(t, testSecret)
	blockSize, err := FindBlockSize(orc)
	if err != nil {
		t.Fatal(err)
	}
	if blockSize != 16 {
		t.Errorf("FindBlockSize == %v, want 16", blockSize)
	}
}

func TestFindBlockSizeNotFound(t *testing.T) {
	if _, err := FindBlockSize(constantOracle{}); !errors.Is(err, ErrBlockSizeNotFound) {
		t.Errorf("FindBlockSize error == %v, want %v", err, ErrBlockSizeNotFound)
	}
}

func TestDetectECB(t *testing.T) {
	if !DetectECB(newTestOracle(t, testSecret), 16) {
		t.Errorf("DetectECB == false for an ECB oracle")
	}
	if DetectECB(&randomizingOracle{secret: testSecret}, 16) {
		t.Errorf("DetectECB == true for a randomizing oracle")
	}
}

func TestBuildDictionary(t *testing.T) {
	orc := newTestOracle(t, testSecret)
	dict := buildDictionary(orc, nil, 16)
	if len(dict) != 256 {
		t.Errorf("dictionary has %v entries, want 256", len(dict))
	}

	// The real target block must map back to the first secret byte.
	target := orc.Encrypt(fill(15))[:16]
	b, ok := dict[string(target)]
	if !ok {
		t.Fatalf("target block missing from dictionary")
	}
	if b != testSecret[0] {
		t.Errorf("dictionary maps target block to %#02x, want %#02x", b, testSecret[0])
	}
}

func TestCrackNextByte(t *testing.T) {
	orc := newTestOracle(t, testSecret)
	known := []byte{}
	for i := range testSecret {
		b, ok := crackNextByte(orc, known, 16)
		if !ok {
			t.Fatalf("no match at byte %v", i)
		}
		if b != testSecret[i] {
			t.Fatalf("byte %v == %#02x, want %#02x", i, b, testSecret[i])
		}
		known = append(known, b)
	}
}

func TestRunRecoversSecret(t *testing.T) {
	res := Run(testKey, nil, testSecret)
	if !bytes.Equal(res.Recovered, testSecret) {
		t.Errorf("Recovered == %q, want %q", res.Recovered, testSecret)
	}
	want, err := ecb.Encrypt(testKey, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(res.Ciphertext, want) {
		t.Errorf("Ciphertext == %x, want %x", res.Ciphertext, want)
	}
	var sawBlockSize, sawECB bool
	for _, step := range res.Steps {
		if step == "Detected block size: 16" {
			sawBlockSize = true
		}
		if strings.Contains(step, "ECB detected") {
			sawECB = true
		}
	}
	if !sawBlockSize || !sawECB {
		t.Errorf("step log missing detection entries: %q", res.Steps)
	}
}

func TestRunWithAttackerPrefix(t *testing.T) {
	prefix := []byte("hello oracle")
	res := Run(testKey, prefix, testSecret)
	if !bytes.Equal(res.Recovered, testSecret) {
		t.Errorf("Recovered == %q, want %q", res.Recovered, testSecret)
	}
	want, err := ecb.Encrypt(testKey, append(append([]byte{}, prefix...), testSecret...))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(res.Ciphertext, want) {
		t.Errorf("Ciphertext is not the encryption of prefix || secret")
	}
}

func TestRunInvalidKeyLength(t *testing.T) {
	res := Run(make([]byte, 10), nil, testSecret)
	if len(res.Ciphertext) != 0 {
		t.Errorf("Ciphertext == %x, want empty", res.Ciphertext)
	}
	if len(res.Recovered) != 0 {
		t.Errorf("Recovered == %x, want empty", res.Recovered)
	}
	want := []string{"Invalid key length: 10 (expected 16)"}
	if len(res.Steps) != 1 || res.Steps[0] != want[0] {
		t.Errorf("Steps == %q, want %q", res.Steps, want)
	}
	// Every path that calls the oracle logs the ciphertext length first, so
	// its absence shows the oracle was never invoked.
	for _, step := range res.Steps {
		if strings.Contains(step, "Ciphertext length") {
			t.Errorf("oracle was invoked with an invalid key: %q", step)
		}
	}
}

func TestRunBlockFillingSecret(t *testing.T) {
	// A secret of 15 (mod 16) bytes makes the ciphertext exactly one byte
	// longer than the secret, so the recovery loop reaches its bound right
	// after picking up the padding artifact.  The artifact must still be
	// stripped.
	for _, secret := range [][]byte{
		[]byte("fifteen bytes!!"),
		bytes.Repeat([]byte{'s'}, 31),
	} {
		res := Run(testKey, nil, secret)
		if !bytes.Equal(res.Recovered, secret) {
			t.Errorf("Recovered == %q, want %q", res.Recovered, secret)
		}
	}
}

func TestRunEmptySecret(t *testing.T) {
	res := Run(testKey, nil, nil)
	if len(res.Recovered) != 0 {
		t.Errorf("Recovered == %x, want empty", res.Recovered)
	}
	if len(res.Ciphertext) != 16 {
		t.Errorf("Ciphertext length == %v, want 16", len(res.Ciphertext))
	}
	var sawMiss bool
	for _, step := range res.Steps {
		if strings.Contains(step, "No matching byte found") {
			sawMiss = true
		}
	}
	if !sawMiss {
		t.Errorf("step log missing the dictionary miss entry: %q", res.Steps)
	}
}

func TestRunIdempotent(t *testing.T) {
	first := Run(testKey, nil, testSecret)
	second := Run(testKey, nil, testSecret)
	if !bytes.Equal(first.Ciphertext, second.Ciphertext) {
		t.Errorf("ciphertexts differ between runs")
	}
	if !bytes.Equal(first.Recovered, second.Recovered) {
		t.Errorf("recovered bytes differ between runs")
	}
}

func TestRunLongSecret(t *testing.T) {
	secret := []byte("a secret that spans multiple cipher blocks, including\nsome 0x00 and \x00\x01\x02 bytes")
	res := Run(testKey, nil, secret)
	if !bytes.Equal(res.Recovered, secret) {
		t.Errorf("Recovered == %q, want %q", res.Recovered, secret)
	}
}
