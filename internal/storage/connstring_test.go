package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionString(t *testing.T) {
	creds, err := parseConnectionString("DefaultEndpointsProtocol=https;AccountName=prodacct;AccountKey=a2V5;EndpointSuffix=core.windows.net")
	require.NoError(t, err)

	assert.Equal(t, "prodacct", creds.AccountName)
	assert.Equal(t, "a2V5", creds.AccountKey)
	assert.Equal(t, "https://prodacct.blob.core.windows.net", creds.serviceURL())
}

func TestParseConnectionString_KeyWithPadding(t *testing.T) {
	// Base64 account keys end in '='; only the first '=' splits key from
	// value.
	creds, err := parseConnectionString("AccountName=acct;AccountKey=a2V5cGFkZGluZw==")
	require.NoError(t, err)
	assert.Equal(t, "a2V5cGFkZGluZw==", creds.AccountKey)
}

func TestParseConnectionString_DefaultSuffix(t *testing.T) {
	creds, err := parseConnectionString("AccountName=acct;AccountKey=a2V5")
	require.NoError(t, err)
	assert.Equal(t, "core.windows.net", creds.EndpointSuffix)
}

func TestParseConnectionString_EmulatorEndpoint(t *testing.T) {
	creds, err := parseConnectionString("AccountName=devstoreaccount1;AccountKey=a2V5;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:10000/devstoreaccount1", creds.serviceURL())
}

func TestParseConnectionString_IgnoresEmptySegments(t *testing.T) {
	_, err := parseConnectionString("AccountName=acct;;AccountKey=a2V5;")
	assert.NoError(t, err)
}

func TestParseConnectionString_MissingCredentials(t *testing.T) {
	for _, conn := range []string{
		"",
		"AccountName=acct",
		"AccountKey=a2V5",
		"EndpointSuffix=core.windows.net",
	} {
		_, err := parseConnectionString(conn)
		assert.Error(t, err, "connection string %q", conn)
	}
}

func TestParseConnectionString_MalformedSegment(t *testing.T) {
	_, err := parseConnectionString("AccountName=acct;garbage")
	assert.Error(t, err)
}
