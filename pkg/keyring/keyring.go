// Package keyring stores house signing keys on disk. A key is an Ed25519 key
// derived from a BIP-39 mnemonic; the private seed is sealed with a
// passphrase-derived key (scrypt + NaCl secretbox) and written as YAML.
package keyring

import (
	"crypto/ed25519"
	"crypto/rand"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/btcsuite/btcutil/base58"
	"github.com/cosmos/go-bip39"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultEntropyBits yields a 24-word mnemonic.
	DefaultEntropyBits = 256
	// DefaultBIP39Passphrase is the BIP-39 seed passphrase, not the file passphrase.
	DefaultBIP39Passphrase = ""

	keyFileExt = ".key"

	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	saltSize     = 16
	nonceSize    = 24
	secretKeyLen = 32
)

var (
	ErrKeyExists       = errors.New("key already exists")
	ErrKeyNotFound     = errors.New("key not found")
	ErrInvalidName     = errors.New("invalid key name")
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")
)

// Key is a decrypted house key.
type Key struct {
	Name       string
	Address    dicekit.Address
	PrivateKey ed25519.PrivateKey
}

// Sign signs msg with the key.
func (k *Key) Sign(msg []byte) [64]byte {
	var sig [64]byte
	copy(sig[:], ed25519.Sign(k.PrivateKey, msg))
	return sig
}

type keyFile struct {
	Name       string `yaml:"name"`
	Address    string `yaml:"address"`
	Salt       string `yaml:"salt"`
	Nonce      string `yaml:"nonce"`
	Ciphertext string `yaml:"ciphertext"`
}

// Keyring is a directory of key files.
type Keyring struct {
	dir string
}

// New opens the keyring at dir, creating the directory if needed.
func New(dir string) (*Keyring, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Errorf("create keyring dir %s: %w", dir, err)
	}
	return &Keyring{dir: dir}, nil
}

func (kr *Keyring) Dir() string { return kr.dir }

// Add generates a fresh mnemonic, stores the derived key under name and
// returns both. The mnemonic is not persisted.
func (kr *Keyring) Add(name, passphrase string) (string, *Key, error) {
	entropy, err := bip39.NewEntropy(DefaultEntropyBits)
	if err != nil {
		return "", nil, errors.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, errors.Errorf("generate mnemonic: %w", err)
	}
	key, err := kr.Recover(name, mnemonic, passphrase)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, key, nil
}

// Recover derives the key for mnemonic and stores it under name.
func (kr *Keyring) Recover(name, mnemonic, passphrase string) (*Key, error) {
	path, err := kr.path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, errors.Errorf("%s: %w", name, ErrKeyExists)
	}

	key, err := DeriveKey(name, mnemonic)
	if err != nil {
		return nil, err
	}
	kf, err := seal(key, passphrase)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(kf)
	if err != nil {
		return nil, errors.Errorf("encode key file: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return nil, errors.Errorf("write key file: %w", err)
	}
	return key, nil
}

// Load decrypts the key stored under name.
func (kr *Keyring) Load(name, passphrase string) (*Key, error) {
	kf, err := kr.read(name)
	if err != nil {
		return nil, err
	}
	return open(kf, passphrase)
}

// Address returns the public address of name without decrypting it.
func (kr *Keyring) Address(name string) (dicekit.Address, error) {
	kf, err := kr.read(name)
	if err != nil {
		return dicekit.Address{}, err
	}
	return dicekit.ParseAddress(kf.Address)
}

// List returns the stored key names in lexical order.
func (kr *Keyring) List() ([]string, error) {
	entries, err := os.ReadDir(kr.dir)
	if err != nil {
		return nil, errors.Errorf("read keyring dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), keyFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), keyFileExt))
	}
	sort.Strings(names)
	return names, nil
}

// DeriveKey turns a mnemonic into the house key: the first 32 bytes of the
// BIP-39 seed are the Ed25519 private seed.
func DeriveKey(name, mnemonic string) (*Key, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, DefaultBIP39Passphrase)
	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])

	key := &Key{Name: name, PrivateKey: priv}
	copy(key.Address[:], priv.Public().(ed25519.PublicKey))
	return key, nil
}

func (kr *Keyring) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errors.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(kr.dir, name+keyFileExt), nil
}

func (kr *Keyring) read(name string) (*keyFile, error) {
	path, err := kr.path(name)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Errorf("%s: %w", name, ErrKeyNotFound)
	}
	if err != nil {
		return nil, errors.Errorf("read key file: %w", err)
	}
	var kf keyFile
	if err := yaml.Unmarshal(raw, &kf); err != nil {
		return nil, errors.Errorf("decode key file %s: %w", path, err)
	}
	return &kf, nil
}

func seal(key *Key, passphrase string) (*keyFile, error) {
	var salt [saltSize]byte
	var nonce [nonceSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, errors.Errorf("read salt: %w", err)
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Errorf("read nonce: %w", err)
	}
	secret, err := secretKey(passphrase, salt[:])
	if err != nil {
		return nil, err
	}
	box := secretbox.Seal(nil, key.PrivateKey.Seed(), &nonce, secret)

	return &keyFile{
		Name:       key.Name,
		Address:    key.Address.String(),
		Salt:       base58.Encode(salt[:]),
		Nonce:      base58.Encode(nonce[:]),
		Ciphertext: base58.Encode(box),
	}, nil
}

func open(kf *keyFile, passphrase string) (*Key, error) {
	salt := base58.Decode(kf.Salt)
	rawNonce := base58.Decode(kf.Nonce)
	if len(salt) != saltSize || len(rawNonce) != nonceSize {
		return nil, ErrWrongPassphrase
	}
	var nonce [nonceSize]byte
	copy(nonce[:], rawNonce)

	secret, err := secretKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	seed, ok := secretbox.Open(nil, base58.Decode(kf.Ciphertext), &nonce, secret)
	if !ok || len(seed) != ed25519.SeedSize {
		return nil, ErrWrongPassphrase
	}

	key := &Key{Name: kf.Name, PrivateKey: ed25519.NewKeyFromSeed(seed)}
	copy(key.Address[:], key.PrivateKey.Public().(ed25519.PublicKey))
	if key.Address.String() != kf.Address {
		return nil, errors.Errorf("key file %s: address does not match sealed key", kf.Name)
	}
	return key, nil
}

func secretKey(passphrase string, salt []byte) (*[secretKeyLen]byte, error) {
	dk, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, secretKeyLen)
	if err != nil {
		return nil, errors.Errorf("derive file key: %w", err)
	}
	var out [secretKeyLen]byte
	copy(out[:], dk)
	return &out, nil
}
