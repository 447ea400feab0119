package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword(strings.NewReader("s3cret pass\n"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret pass")))

	hash, err = hashPassword(strings.NewReader("no newline"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("no newline")))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := hashPassword(strings.NewReader("\n"), bcrypt.MinCost)
	assert.Error(t, err)

	_, err = hashPassword(strings.NewReader(""), bcrypt.MinCost)
	assert.Error(t, err)
}
