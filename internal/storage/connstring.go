package storage

import (
	"fmt"
	"strings"
)

// blobCredentials holds the pieces of an Azure storage connection string
// this adapter needs.
type blobCredentials struct {
	AccountName    string
	AccountKey     string
	EndpointSuffix string
	BlobEndpoint   string
}

// parseConnectionString splits an "AccountName=...;AccountKey=...;..."
// connection string. BlobEndpoint, when present, wins over the
// account/suffix derived URL (used for local emulators).
func parseConnectionString(conn string) (blobCredentials, error) {
	creds := blobCredentials{EndpointSuffix: "core.windows.net"}

	for _, part := range strings.Split(conn, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return blobCredentials{}, fmt.Errorf("malformed connection string segment %q", key)
		}
		switch key {
		case "AccountName":
			creds.AccountName = value
		case "AccountKey":
			creds.AccountKey = value
		case "EndpointSuffix":
			creds.EndpointSuffix = value
		case "BlobEndpoint":
			creds.BlobEndpoint = value
		}
	}

	if creds.AccountName == "" || creds.AccountKey == "" {
		return blobCredentials{}, fmt.Errorf("connection string missing AccountName or AccountKey")
	}
	return creds, nil
}

// serviceURL returns the blob service base URL for the account.
func (c blobCredentials) serviceURL() string {
	if c.BlobEndpoint != "" {
		return strings.TrimSuffix(c.BlobEndpoint, "/")
	}
	return fmt.Sprintf("https://%s.blob.%s", c.AccountName, c.EndpointSuffix)
}
