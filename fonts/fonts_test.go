package fonts

import (
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomedium"
)

func Test_Initialize(t *testing.T) {
	require.Nil(t, Initialize())
	require.Nil(t, Initialize())

	names, err := Names()
	require.Nil(t, err)
	assert.Subset(t, names, []string{"Go Bold", "Go Italic", "Go Mono", "Go Regular"})
}

func Test_Lookup(t *testing.T) {
	regular, err := Lookup("go regular")
	require.Nil(t, err)
	require.NotNil(t, regular)

	font, err := Lookup("")
	require.Nil(t, err)
	assert.Same(t, regular, font)

	bold, err := Lookup("Go Bold")
	require.Nil(t, err)
	assert.NotSame(t, regular, bold)

	_, err = Lookup("Comic Sans")
	require.NotNil(t, err)
	assert.Equal(t, ErrFontNotFound, errorsx.Cause(err))
}

func Test_RegisterFontDir(t *testing.T) {
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/fonts", 0755))
	require.NoError(t, fs.WriteFile("/fonts/GoMedium.ttf", gomedium.TTF, 0644))
	require.NoError(t, fs.WriteFile("/fonts/README.txt", []byte("not a font"), 0644))

	names, err := RegisterFontDir(fs, "/fonts")
	require.Nil(t, err)
	assert.Equal(t, []string{"GoMedium"}, names)

	_, err = Lookup("gomedium")
	require.Nil(t, err)

	require.NoError(t, fs.WriteFile("/broken.ttf", []byte("not a font"), 0644))
	_, err = RegisterFontFile(fs, "/broken.ttf")
	require.NotNil(t, err)
}
