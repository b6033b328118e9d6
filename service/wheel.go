package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"wheelhouse/models"
)

// RandomSource draws a uniform integer in [0, n)
type RandomSource interface {
	Intn(n int) (int, error)
}

// SourceFunc adapts a function to RandomSource
type SourceFunc func(n int) (int, error)

func (f SourceFunc) Intn(n int) (int, error) { return f(n) }

type cryptoSource struct {
	r io.Reader
}

// NewCryptoSource returns a RandomSource backed by the OS CSPRNG
func NewCryptoSource() RandomSource {
	return cryptoSource{r: rand.Reader}
}

func (s cryptoSource) Intn(n int) (int, error) {
	v, err := rand.Int(s.r, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Wheel draws winning pockets
type Wheel struct {
	src RandomSource
}

// NewWheel creates a wheel over src
func NewWheel(src RandomSource) *Wheel {
	return &Wheel{src: src}
}

// Spin draws one pocket uniformly from 0-36. A source failure is returned as
// ErrEntropyFailure; no fallback pocket is ever substituted.
func (w *Wheel) Spin() (models.SpinResult, error) {
	n, err := w.src.Intn(models.PocketCount)
	if err != nil {
		return models.SpinResult{}, fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}
	if !models.ValidPocket(n) {
		return models.SpinResult{}, fmt.Errorf("%w: source returned %d", ErrEntropyFailure, n)
	}
	return models.NewSpinResult(n), nil
}
