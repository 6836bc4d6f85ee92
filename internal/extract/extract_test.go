package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUpload_Txt(t *testing.T) {
	text, err := FromUpload("notes.txt", []byte("The sky is blue.\nWater boils at 100°C at sea level.\n"))
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue. Water boils at 100°C at sea level.", text)
}

func TestFromUpload_UnsupportedType(t *testing.T) {
	_, err := FromUpload("image.png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFromUpload_EmptyTxt(t *testing.T) {
	_, err := FromUpload("empty.txt", []byte("   \n\t  "))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestFromUpload_MalformedPDF(t *testing.T) {
	// not a PDF at all; must come back as an error, not a panic
	_, err := FromUpload("broken.pdf", []byte("this is not a pdf"))
	assert.Error(t, err)
}

func TestFromPDF_GarbageWithHeader(t *testing.T) {
	// a PDF header followed by garbage exercises the recover path in the
	// rsc.io/pdf reader
	data := append([]byte("%PDF-1.4\n"), []byte("garbage garbage garbage")...)
	_, err := FromPDF(data)
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a b c", Sanitize("a\r\n b\t\tc "))
	assert.Equal(t, "", Sanitize(" \n\r\t"))
	assert.Equal(t, "one two", Sanitize("one    two"))
}
