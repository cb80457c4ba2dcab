package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ImportScopeLockKey returns the lock key serializing imports into one chapter.
func (r *CacheKeyStruct) ImportScopeLockKey(subject string, unit, chapter int) string {
	return fmt.Sprintf("qbank:import_lock:%s:%d:%d", subject, unit, chapter)
}

// ImportGlobalLockKey returns the lock key used when _id is deduplicated globally.
func (r *CacheKeyStruct) ImportGlobalLockKey() string {
	return "qbank:import_lock:global"
}

var CacheKey = NewCacheKeyStruct()
