package crypto

// BN254 precompile interface functions, backed by consensys/gnark-crypto.
//
// These functions provide the EVM precompile interface for BN254 (alt_bn128)
// elliptic curve operations as defined in EIP-196 and EIP-197. All field and
// group arithmetic is delegated to gnark-crypto's bn254 package rather than
// hand-rolled big.Int math.

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

var (
	errBN254InvalidPoint  = errors.New("bn254: invalid point")
	errBN254InvalidG2     = errors.New("bn254: invalid G2 point")
	errBN254InvalidLength = errors.New("bn254: invalid input length")
)

// bn254G1FromBigInts builds a G1Affine from big-endian coordinates, treating
// (0,0) as the point at infinity per EIP-196.
func bn254G1FromBigInts(x, y *big.Int) (bn254.G1Affine, bool) {
	var p bn254.G1Affine
	if x.Sign() == 0 && y.Sign() == 0 {
		return p, true
	}
	p.X.SetBigInt(x)
	p.Y.SetBigInt(y)
	if !p.IsOnCurve() {
		return p, false
	}
	return p, true
}

func bn254EncodeG1(p *bn254.G1Affine) []byte {
	out := make([]byte, 64)
	xBytes := p.X.BigInt(new(big.Int)).Bytes()
	yBytes := p.Y.BigInt(new(big.Int)).Bytes()
	copy(out[32-len(xBytes):32], xBytes)
	copy(out[64-len(yBytes):64], yBytes)
	return out
}

// BN254Add performs point addition on the BN254 curve (precompile 0x06).
// Input: 128 bytes (x1, y1, x2, y2) as 32-byte big-endian integers.
// Short input is right-padded with zeros. Output: 64 bytes (x3, y3).
func BN254Add(input []byte) ([]byte, error) {
	input = bn254PadRight(input, 128)

	x1 := new(big.Int).SetBytes(input[0:32])
	y1 := new(big.Int).SetBytes(input[32:64])
	x2 := new(big.Int).SetBytes(input[64:96])
	y2 := new(big.Int).SetBytes(input[96:128])

	p1, ok := bn254G1FromBigInts(x1, y1)
	if !ok {
		return nil, errBN254InvalidPoint
	}
	p2, ok := bn254G1FromBigInts(x2, y2)
	if !ok {
		return nil, errBN254InvalidPoint
	}

	var p1Jac, p2Jac, rJac bn254.G1Jac
	p1Jac.FromAffine(&p1)
	p2Jac.FromAffine(&p2)
	rJac.Set(&p1Jac).AddAssign(&p2Jac)

	var rAff bn254.G1Affine
	rAff.FromJacobian(&rJac)
	return bn254EncodeG1(&rAff), nil
}

// BN254ScalarMul performs scalar multiplication on the BN254 curve (precompile 0x07).
// Input: 96 bytes (x, y, s) as 32-byte big-endian integers.
// Short input is right-padded with zeros. Output: 64 bytes (x', y').
func BN254ScalarMul(input []byte) ([]byte, error) {
	input = bn254PadRight(input, 96)

	x := new(big.Int).SetBytes(input[0:32])
	y := new(big.Int).SetBytes(input[32:64])
	s := new(big.Int).SetBytes(input[64:96])

	p, ok := bn254G1FromBigInts(x, y)
	if !ok {
		return nil, errBN254InvalidPoint
	}

	var r bn254.G1Affine
	r.ScalarMultiplication(&p, s)
	return bn254EncodeG1(&r), nil
}

// BN254PairingCheck performs the pairing check (precompile 0x08).
// Input: k * 192 bytes, each 192-byte chunk is (G1_x, G1_y, G2_x_imag, G2_x_real,
// G2_y_imag, G2_y_real) as 32-byte big-endian integers.
// Output: 32 bytes, 1 if product of pairings equals identity, 0 otherwise.
func BN254PairingCheck(input []byte) ([]byte, error) {
	if len(input)%192 != 0 {
		return nil, errBN254InvalidLength
	}

	k := len(input) / 192
	if k == 0 {
		return bn254PairingResult(true), nil
	}

	g1Points := make([]bn254.G1Affine, k)
	g2Points := make([]bn254.G2Affine, k)

	for i := 0; i < k; i++ {
		offset := i * 192

		g1x := new(big.Int).SetBytes(input[offset : offset+32])
		g1y := new(big.Int).SetBytes(input[offset+32 : offset+64])
		g1, ok := bn254G1FromBigInts(g1x, g1y)
		if !ok {
			return nil, errBN254InvalidPoint
		}
		g1Points[i] = g1

		// Layout: x_imag(32) | x_real(32) | y_imag(32) | y_real(32)
		g2xImag := new(big.Int).SetBytes(input[offset+64 : offset+96])
		g2xReal := new(big.Int).SetBytes(input[offset+96 : offset+128])
		g2yImag := new(big.Int).SetBytes(input[offset+128 : offset+160])
		g2yReal := new(big.Int).SetBytes(input[offset+160 : offset+192])

		var g2 bn254.G2Affine
		g2.X.A0.SetBigInt(g2xReal)
		g2.X.A1.SetBigInt(g2xImag)
		g2.Y.A0.SetBigInt(g2yReal)
		g2.Y.A1.SetBigInt(g2yImag)

		if g2.X.IsZero() && g2.Y.IsZero() {
			g2Points[i] = g2 // point at infinity
			continue
		}
		if !g2.IsOnCurve() {
			return nil, errBN254InvalidG2
		}
		g2Points[i] = g2
	}

	ok, err := bn254.PairingCheck(g1Points, g2Points)
	if err != nil {
		return nil, err
	}
	return bn254PairingResult(ok), nil
}

func bn254PairingResult(ok bool) []byte {
	out := make([]byte, 32)
	if ok {
		out[31] = 1
	}
	return out
}

func bn254PadRight(data []byte, minLen int) []byte {
	if len(data) >= minLen {
		return data[:minLen]
	}
	padded := make([]byte, minLen)
	copy(padded, data)
	return padded
}
