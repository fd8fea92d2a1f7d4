package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSecret(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("s3cr3t"), nil }

	var out bytes.Buffer
	got, err := GetSecret(&out, "minio secret_key: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", string(got))
	assert.Equal(t, "minio secret_key: \n", out.String())
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetSecret(&out, "secret: ")
	require.Error(t, err)
}
