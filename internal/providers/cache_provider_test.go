package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Errorf(TypeEnum, string, ...interface{}) {}
func (nopLogger) Warnf(TypeEnum, string, ...interface{})  {}
func (nopLogger) Infof(TypeEnum, string, ...interface{})  {}
func (nopLogger) Debugf(TypeEnum, string, ...interface{}) {}
func (nopLogger) Fatalf(TypeEnum, string, ...interface{}) {}
func (nopLogger) Close()                                  {}

func TestCacheProvider_RoundTrip(t *testing.T) {
	conf := validConfig()
	conf.Cache.Enabled = true
	conf.Cache.Size = 1
	conf.Cache.TTL = time.Minute

	cache := NewCacheProvider(conf, nopLogger{})

	cache.Set("archived:r1", []byte(`{"id":"r1"}`))
	val, ok := cache.Get("archived:r1")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"id":"r1"}`), val)
}

func TestCacheProvider_Miss(t *testing.T) {
	conf := validConfig()
	conf.Cache.Enabled = true
	conf.Cache.Size = 1

	cache := NewCacheProvider(conf, nopLogger{})

	_, ok := cache.Get("archived:missing")
	assert.False(t, ok)
}

func TestCacheProvider_DisabledIsNoop(t *testing.T) {
	conf := validConfig()
	conf.Cache.Enabled = false

	cache := NewCacheProvider(conf, nopLogger{})

	cache.Set("archived:r1", []byte("data"))
	_, ok := cache.Get("archived:r1")
	assert.False(t, ok)
}

func TestCacheProvider_ZeroSizeIsNoop(t *testing.T) {
	conf := validConfig()
	conf.Cache.Enabled = true
	conf.Cache.Size = 0

	cache := NewCacheProvider(conf, nopLogger{})

	cache.Set("archived:r1", []byte("data"))
	_, ok := cache.Get("archived:r1")
	assert.False(t, ok)
}

func TestUnsafeStringToBytes(t *testing.T) {
	assert.Nil(t, unsafeStringToBytes(""))
	assert.Equal(t, []byte("archived:r1"), unsafeStringToBytes("archived:r1"))
}
