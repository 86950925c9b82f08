package keyring

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newKeyring(t *testing.T) *Keyring {
	t.Helper()
	kr, err := New(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)
	return kr
}

func TestAddAndLoad(t *testing.T) {
	kr := newKeyring(t)

	mnemonic, key, err := kr.Add("house", "secret")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 24)

	loaded, err := kr.Load("house", "secret")
	require.NoError(t, err)
	assert.Equal(t, key.Address, loaded.Address)
	assert.Equal(t, key.PrivateKey, loaded.PrivateKey)

	addr, err := kr.Address("house")
	require.NoError(t, err)
	assert.Equal(t, key.Address, addr)

	info, err := os.Stat(filepath.Join(kr.Dir(), "house"+keyFileExt))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRecoverIsDeterministic(t *testing.T) {
	a, err := newKeyring(t).Recover("house", testMnemonic, "one")
	require.NoError(t, err)
	b, err := newKeyring(t).Recover("other", "  "+strings.ReplaceAll(testMnemonic, " ", "  ")+"\n", "two")
	require.NoError(t, err)
	assert.Equal(t, a.Address, b.Address)

	derived, err := DeriveKey("x", testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, a.Address, derived.Address)
}

func TestLoadWrongPassphrase(t *testing.T) {
	kr := newKeyring(t)
	_, err := kr.Recover("house", testMnemonic, "right")
	require.NoError(t, err)

	_, err = kr.Load("house", "wrong")
	require.True(t, errors.Is(err, ErrWrongPassphrase))
}

func TestRecoverErrors(t *testing.T) {
	kr := newKeyring(t)
	_, err := kr.Recover("house", testMnemonic, "")
	require.NoError(t, err)

	_, err = kr.Recover("house", testMnemonic, "")
	assert.True(t, errors.Is(err, ErrKeyExists))

	_, err = kr.Recover("bad", "abandon abandon abandon", "")
	assert.True(t, errors.Is(err, ErrInvalidMnemonic))

	for _, name := range []string{"", ".hidden", "../escape", "a/b"} {
		_, err = kr.Recover(name, testMnemonic, "")
		assert.True(t, errors.Is(err, ErrInvalidName), name)
	}

	_, err = kr.Load("missing", "")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestList(t *testing.T) {
	kr := newKeyring(t)
	names, err := kr.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"zeta", "alpha", "mid"} {
		_, err := kr.Recover(n, testMnemonic, "")
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(kr.Dir(), "notes.txt"), []byte("x"), 0o600))

	names, err = kr.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestSign(t *testing.T) {
	key, err := DeriveKey("house", testMnemonic)
	require.NoError(t, err)
	msg := []byte("bet bytes")
	sig := key.Sign(msg)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(key.Address[:]), msg, sig[:]))
}
