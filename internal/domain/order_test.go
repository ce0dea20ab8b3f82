package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func sampleOrder() *Order {
	return &Order{
		Maker:             "0xAAA1",
		Taker:             "0x0000",
		MakerTokenAddress: "0xBASE",
		TakerTokenAddress: "0xQUOTE",
		MakerTokenAmount:  decimal.RequireFromString("1000000000000000000"),
		TakerTokenAmount:  decimal.RequireFromString("2000000000000000000"),
		ExpirationUnixSec: 1700000000,
		Salt:              "12345",
	}
}

func TestOrderHash(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		a := sampleOrder()
		b := sampleOrder()

		if a.Hash() != b.Hash() {
			t.Errorf("identical fields must hash identically: %s vs %s", a.Hash(), b.Hash())
		}
		if a.Hash() != a.Hash() {
			t.Error("repeated Hash() calls must return the same value")
		}
	})

	t.Run("Distinct Fields Distinct Identity", func(t *testing.T) {
		a := sampleOrder()
		b := sampleOrder()
		b.Salt = "54321"

		if a.Hash() == b.Hash() {
			t.Error("orders with different fields must not share an identity")
		}
	})

	t.Run("Address Case Insensitive", func(t *testing.T) {
		a := sampleOrder()
		b := sampleOrder()
		b.MakerTokenAddress = strings.ToUpper(b.MakerTokenAddress)
		b.Maker = strings.ToLower(b.Maker)

		if a.Hash() != b.Hash() {
			t.Error("address casing must not change the identity")
		}
	})

	t.Run("Format", func(t *testing.T) {
		h := sampleOrder().Hash()
		if !strings.HasPrefix(h, "0x") || len(h) != 66 {
			t.Errorf("expected 0x-prefixed 32-byte hex hash, got %q", h)
		}
	})
}

func FuzzOrderHash(f *testing.F) {
	f.Add("12345", int64(1), int64(2))
	f.Add("", int64(0), int64(0))
	f.Add("99999999999999999999", int64(-1), int64(1<<40))

	f.Fuzz(func(t *testing.T, salt string, makerAmt, takerAmt int64) {
		a := &Order{
			MakerTokenAddress: "0xbase",
			TakerTokenAddress: "0xquote",
			MakerTokenAmount:  decimal.NewFromInt(makerAmt),
			TakerTokenAmount:  decimal.NewFromInt(takerAmt),
			Salt:              salt,
		}
		b := &Order{
			MakerTokenAddress: "0xbase",
			TakerTokenAddress: "0xquote",
			MakerTokenAmount:  decimal.NewFromInt(makerAmt),
			TakerTokenAmount:  decimal.NewFromInt(takerAmt),
			Salt:              salt,
		}

		if a.Hash() != b.Hash() {
			t.Fatalf("hash not deterministic for salt=%q", salt)
		}
		if len(a.Hash()) != 66 {
			t.Fatalf("unexpected hash length %d", len(a.Hash()))
		}
	})
}
