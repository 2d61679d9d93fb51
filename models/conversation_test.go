package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair("zeta", "alpha")
	assert.Equal(t, "alpha", a)
	assert.Equal(t, "zeta", b)

	a, b = NormalizePair("alpha", "zeta")
	assert.Equal(t, "alpha", a)
	assert.Equal(t, "zeta", b)
}

func TestConversationIncludes(t *testing.T) {
	conv := Conversation{User1ID: "alpha", User2ID: "zeta"}
	assert.True(t, conv.Includes("alpha"))
	assert.True(t, conv.Includes("zeta"))
	assert.False(t, conv.Includes("omega"))
}

func TestGenerateHandleFromName(t *testing.T) {
	assert.Equal(t, "marcus_silva", GenerateHandleFromName("Marcus Silva"))
	assert.Equal(t, "jd_jr", GenerateHandleFromName("J.D. Jr"))
}
