package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"brs/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "BRS_LOG_LEVEL")
	viper.BindEnv("hotStore.endpoint", "BRS_HOT_ENDPOINT")
	viper.BindEnv("hotStore.user", "BRS_HOT_USER")
	viper.BindEnv("hotStore.pass", "BRS_HOT_PASS")
	viper.BindEnv("coldStore.connectionString", "BRS_BLOB_CONNECTION_STRING")
	viper.BindEnv("coldStore.container", "BRS_BLOB_CONTAINER")
	viper.BindEnv("archive.thresholdMonths", "BRS_ARCHIVE_THRESHOLD_MONTHS")
	viper.BindEnv("archive.batchSize", "BRS_ARCHIVE_BATCH_SIZE")
	viper.BindEnv("archive.sweepInterval", "BRS_SWEEP_INTERVAL")
	viper.BindEnv("archive.retrievalServiceUrl", "BRS_RETRIEVAL_SERVICE_URL")
	viper.BindEnv("cache.enabled", "BRS_CACHE_ENABLED")
	viper.BindEnv("cache.size", "BRS_CACHE_SIZE")

	viper.SetDefault("archive.thresholdMonths", 3)
	viper.SetDefault("archive.batchSize", 100)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "BillingRecordStore"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
