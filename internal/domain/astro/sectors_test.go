package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifySector(t *testing.T) {
	profiles := DefaultSectorProfiles()

	t.Run("keyword match wins", func(t *testing.T) {
		sector := IdentifySector("ACME-SOFTWARE", "", profiles)
		require.NotNil(t, sector)
		assert.Equal(t, "tech", sector.Name)

		sector = IdentifySector("GlobalBank", "crypto", profiles)
		require.NotNil(t, sector)
		assert.Equal(t, "finance", sector.Name)
	})

	t.Run("category fallback", func(t *testing.T) {
		sector := IdentifySector("BTCUSDT", "crypto", profiles)
		require.NotNil(t, sector)
		assert.Equal(t, "tech", sector.Name)

		sector = IdentifySector("EURUSD", "forex", profiles)
		require.NotNil(t, sector)
		assert.Equal(t, "finance", sector.Name)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, IdentifySector("XYZ", "", profiles))
		assert.Nil(t, IdentifySector("XYZ", "unknown", profiles))
	})
}

func TestSectorProfile_RulesAndFavors(t *testing.T) {
	p := SectorProfile{
		Rulers:         []string{"Mercury"},
		FavorableSigns: []string{"Gemini"},
	}
	assert.True(t, p.Rules("Mercury"))
	assert.False(t, p.Rules("Mars"))
	assert.True(t, p.Favors("Gemini"))
	assert.False(t, p.Favors("Leo"))
}

func TestSignElement(t *testing.T) {
	assert.Equal(t, "fire", SignElement("Aries"))
	assert.Equal(t, "earth", SignElement("Virgo"))
	assert.Equal(t, "air", SignElement("Aquarius"))
	assert.Equal(t, "water", SignElement("Pisces"))
	assert.Equal(t, "", SignElement("Ophiuchus"))
}
