package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brs/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{Host: "localhost", Port: 8080},
		HotStore: structures.HotStoreConfig{
			Endpoint:  "ws://localhost:8000/rpc",
			Namespace: "billing",
			Database:  "billing",
			Table:     "records",
		},
		ColdStore: structures.ColdStoreConfig{
			ConnectionString: "AccountName=devstoreaccount1;AccountKey=a2V5",
			Container:        "billing-archive",
		},
		Archive: structures.ArchiveConfig{
			ThresholdMonths: 3,
			BatchSize:       100,
			SweepInterval:   24 * time.Hour,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestCnfValidator_Valid(t *testing.T) {
	assert.NoError(t, NewCnfValidator(validConfig()).Validate())
}

func TestCnfValidator_MissingHotStoreEndpoint(t *testing.T) {
	conf := validConfig()
	conf.HotStore.Endpoint = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_MissingContainer(t *testing.T) {
	conf := validConfig()
	conf.ColdStore.Container = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_ZeroThreshold(t *testing.T) {
	conf := validConfig()
	conf.Archive.ThresholdMonths = 0
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadLogLevel(t *testing.T) {
	conf := validConfig()
	conf.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadPort(t *testing.T) {
	conf := validConfig()
	conf.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(conf).Validate())
}
