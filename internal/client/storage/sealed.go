package storage

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/tabclient/internal/common"
	"github.com/dmitrijs2005/tabclient/internal/cryptox"
)

// saltKey holds the Argon2 salt of a sealed store in clear text.
const saltKey = "_sealed_salt"

// Sealed encrypts every value written to the wrapped Store.
type Sealed struct {
	inner Store
	key   []byte
}

// Seal wraps inner. The salt is created on first use and reused afterwards,
// so the same secret opens the same store across restarts.
func Seal(ctx context.Context, inner Store, secret []byte) (*Sealed, error) {
	salt, err := loadSalt(ctx, inner)
	if err != nil {
		return nil, err
	}
	return &Sealed{inner: inner, key: cryptox.DeriveKey(secret, salt)}, nil
}

func loadSalt(ctx context.Context, kv KV) ([]byte, error) {
	raw, ok, err := kv.Get(ctx, saltKey)
	if err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	if ok {
		salt, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: salt: %v", common.ErrMalformedState, err)
		}
		return salt, nil
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := kv.Set(ctx, saltKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("save salt: %w", err)
	}
	return salt, nil
}

func (s *Sealed) view(kv KV) sealedKV {
	return sealedKV{kv: kv, key: s.key}
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	return s.view(s.inner).Get(ctx, key)
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	return s.view(s.inner).Set(ctx, key, value)
}

func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *Sealed) Update(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	return s.inner.Update(ctx, func(ctx context.Context, kv KV) error {
		return fn(ctx, s.view(kv))
	})
}

func (s *Sealed) Close() error {
	cryptox.Wipe(s.key)
	return s.inner.Close()
}

type sealedKV struct {
	kv  KV
	key []byte
}

func (k sealedKV) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := k.kv.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", common.ErrMalformedState, key, err)
	}
	plain, err := cryptox.Open(k.key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", common.ErrMalformedState, key, err)
	}
	return string(plain), true, nil
}

func (k sealedKV) Set(ctx context.Context, key, value string) error {
	sealed, err := cryptox.Seal(k.key, []byte(value))
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return k.kv.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed))
}

func (k sealedKV) Remove(ctx context.Context, key string) error {
	return k.kv.Remove(ctx, key)
}
