package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNormalization(t *testing.T) {
	cases := []struct {
		in   string
		want Phone
	}{
		{"+5511987654321", "+5511987654321"},
		{"5511987654321", "+5511987654321"},
		{"11987654321", "+5511987654321"},
		{"(11) 98765-4321", "+5511987654321"},
		{"+55 (11) 98765-4321", "+5511987654321"},
		{"11.9876.54321", "+5511987654321"},
		{"1133334444", "+551133334444"}, // landline, 10 digits
		{" 5511987654321 ", "+5511987654321"},
	}
	for _, tc := range cases {
		got, err := NewPhone(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNewPhoneRejections(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"abc",
		"11 98765-432x",
		"987654321",     // 9 digits, too short
		"119876543210",  // 12 digits without country code
		"0197654321",    // area code starting with zero
		"+549987654321", // wrong country code length mix
	}
	for _, in := range cases {
		_, err := NewPhone(in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "input %q", in)
		assert.Equal(t, "phone", ve.Field)
	}
}

func TestPhoneNational(t *testing.T) {
	p, err := NewPhone("+55 11 98765-4321")
	require.NoError(t, err)
	assert.Equal(t, "11987654321", p.National())
}

func TestNewTaxIDCPF(t *testing.T) {
	id, err := NewTaxID("529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, TaxID("52998224725"), id)
	assert.Equal(t, TaxIDCPF, id.Kind())
	assert.Equal(t, "529.982.247-25", id.Format())

	_, err = NewTaxID("52998224726") // wrong check digit
	require.Error(t, err)
	_, err = NewTaxID("11111111111") // all-same-digit sequences are rejected outright
	require.Error(t, err)
}

func TestNewTaxIDCNPJ(t *testing.T) {
	id, err := NewTaxID("11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, TaxID("11222333000181"), id)
	assert.Equal(t, TaxIDCNPJ, id.Kind())
	assert.Equal(t, "11.222.333/0001-81", id.Format())

	_, err = NewTaxID("11222333000180") // wrong check digit
	require.Error(t, err)
}

func TestNewTaxIDRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "123", "5299822472", "529982247251234", "52998a24725"} {
		_, err := NewTaxID(in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "input %q", in)
		assert.Equal(t, "tax_id", ve.Field)
	}
}
