package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "PENA BLVD", Fold("Peña Blvd"))
	assert.Equal(t, "O BRIEN ST", Fold("O' Brien   St."))
	assert.Equal(t, "MARTIN LUTHER KING JR BLVD", Fold("Martin Luther King, Jr. Blvd"))
}

func TestSplitStreetName(t *testing.T) {
	pre, name, typ, post := SplitStreetName("N MAIN ST")
	assert.Equal(t, "N", pre)
	assert.Equal(t, "MAIN", name)
	assert.Equal(t, "ST", typ)
	assert.Empty(t, post)

	pre, name, typ, post = SplitStreetName("NORTH MAIN STREET")
	assert.Equal(t, "N", pre)
	assert.Equal(t, "MAIN", name)
	assert.Equal(t, "ST", typ)
	assert.Empty(t, post)

	pre, name, typ, post = SplitStreetName("MAIN ST W")
	assert.Empty(t, pre)
	assert.Equal(t, "MAIN", name)
	assert.Equal(t, "ST", typ)
	assert.Equal(t, "W", post)

	// A lone type word is a street name, not a type.
	pre, name, typ, post = SplitStreetName("BROADWAY")
	assert.Empty(t, pre)
	assert.Equal(t, "BROADWAY", name)
	assert.Empty(t, typ)
	assert.Empty(t, post)
}

func TestCanonicalForms(t *testing.T) {
	assert.Equal(t, "AVE", CanonicalStreetType("Avenue"))
	assert.Equal(t, "AVE", CanonicalStreetType("AVE"))
	assert.Equal(t, "AVE", CanonicalStreetType("av"))
	assert.Empty(t, CanonicalStreetType("MAIN"))

	assert.Equal(t, "NW", CanonicalDirectional("Northwest"))
	assert.Equal(t, "N", CanonicalDirectional("no"))
	assert.Empty(t, CanonicalDirectional("X"))

	assert.Equal(t, "NORTH", DirectionalName("N"))
}

func TestNewKey(t *testing.T) {
	tok, err := Parse("123 N Main St, Los Angeles, CA 90012")
	require.NoError(t, err)

	key, err := NewKey(tok, "06")
	require.NoError(t, err)

	assert.Equal(t, "06", key.StateFIPS)
	assert.Equal(t, 123, key.HouseNumber)
	assert.Equal(t, "MAIN", key.StreetName)
	assert.Equal(t, "ST", key.StreetType)
	assert.Equal(t, "N", key.PreDirectional)
	assert.Equal(t, "90012", key.ZIP)
}

func TestNewKey_Incomplete(t *testing.T) {
	tok, err := Parse("Main St, Los Angeles, CA")
	require.NoError(t, err)

	_, err = NewKey(tok, "06")
	assert.ErrorIs(t, err, ErrIncompleteAddress)
}

func TestNewKey_HouseNumberSuffix(t *testing.T) {
	key, err := NewKey(Token{HouseNumber: "123-B", StreetName: "MAIN", StreetType: "ST"}, "06")
	require.NoError(t, err)
	assert.Equal(t, 123, key.HouseNumber)
}
