package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintText(t *testing.T) {
	fp1 := FingerprintText("Hello world.")
	fp2 := FingerprintText("Hello world.")
	fp3 := FingerprintText("Hello world!")

	assert.Equal(t, fp1, fp2, "equal text must yield equal fingerprints")
	assert.NotEqual(t, fp1, fp3)
	assert.Len(t, string(fp1), 32)
	assert.True(t, fp1.Valid())
}

func TestFingerprintTextEmpty(t *testing.T) {
	fp := FingerprintText("")
	assert.True(t, fp.Valid())
	assert.Equal(t, fp, FingerprintText(""))
}

func TestFingerprintValid(t *testing.T) {
	assert.False(t, Fingerprint("").Valid())
	assert.False(t, Fingerprint("abc").Valid())
	assert.False(t, Fingerprint("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz").Valid())
	assert.True(t, Fingerprint("0123456789abcdef0123456789abcdef").Valid())
}
