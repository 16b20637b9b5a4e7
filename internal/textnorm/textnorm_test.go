package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWord(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "GATO", want: "gato"},
		{name: "strips accents", in: "Canción", want: "cancion"},
		{name: "strips whitespace", in: " buenos  días\t", want: "buenosdias"},
		{name: "tilde n folds", in: "Niño", want: "nino"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Word(tt.in))
		})
	}
}

func TestChar(t *testing.T) {
	assert.Equal(t, "a", Char("Á"))
	assert.Equal(t, "e", Char("é"))
	assert.Equal(t, " ", Char(" "))
	assert.Equal(t, "z", Char("Z"))
}

func TestLetters(t *testing.T) {
	assert.Equal(t, []string{"Á", "R", "B", "O", "L"}, Letters("ár bol"))
	assert.Equal(t, []string{"G", "A", "T", "O"}, Letters("gato"))
	assert.Empty(t, Letters("   "))
}

func TestWordIsIdempotent(t *testing.T) {
	for _, s := range []string{"Ñandú", "GATO", "a b c", "Über"} {
		assert.Equal(t, Word(s), Word(Word(s)), s)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Pingüino", "PINGUINO"))
	assert.False(t, Equal("gato", "gata"))
}
