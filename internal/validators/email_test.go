package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailDomain(t *testing.T) {
	d, ok := emailDomain("ana@navalha.com.br")
	assert.True(t, ok)
	assert.Equal(t, "navalha.com.br", d)

	for _, bad := range []string{"ana", "@navalha.com", "ana@", "ana@localhost", "ana@nav alha.com"} {
		_, ok := emailDomain(bad)
		assert.False(t, ok, bad)
	}
}

func TestInvalidEmailSkipsLookup(t *testing.T) {
	assert.False(t, IsEmailDomainValid("sem-arroba"))
}
